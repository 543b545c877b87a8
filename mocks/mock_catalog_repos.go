package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
)

// MockHSCodeRepo is a mock implementation of port.HSCodeRepository.
type MockHSCodeRepo struct {
	mock.Mock
}

func (m *MockHSCodeRepo) LoadCodes(ctx context.Context) ([]domain.HSCodeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HSCodeEntry), args.Error(1)
}

func (m *MockHSCodeRepo) LoadKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KeywordEntry), args.Error(1)
}

func (m *MockHSCodeRepo) LoadCategories(ctx context.Context) ([]domain.CategoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryEntry), args.Error(1)
}

// MockJurisdictionRepo is a mock implementation of port.JurisdictionRepository.
type MockJurisdictionRepo struct {
	mock.Mock
}

func (m *MockJurisdictionRepo) LoadAll(ctx context.Context) ([]domain.Jurisdiction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Jurisdiction), args.Error(1)
}

// MockCarrierServiceRepo is a mock implementation of port.CarrierServiceRepository.
type MockCarrierServiceRepo struct {
	mock.Mock
}

func (m *MockCarrierServiceRepo) LoadAll(ctx context.Context) ([]domain.CarrierService, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarrierService), args.Error(1)
}

// MockCatalogSource is a mock implementation of port.CatalogSource.
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCatalogSource) Load(ctx context.Context) (*domain.CatalogSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogSnapshot), args.Error(1)
}
