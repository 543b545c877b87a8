package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
	"crossquote/internal/service"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Refresh(ctx context.Context) (*domain.CatalogStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogStats), args.Error(1)
}

func (m *MockCatalogService) Engines() (*service.Engines, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Engines), args.Error(1)
}

func (m *MockCatalogService) Stats() (*domain.CatalogStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogStats), args.Error(1)
}

func (m *MockCatalogService) RegisterCustomMapping(ctx context.Context, mapping domain.CustomMapping) (*domain.CustomMapping, error) {
	args := m.Called(ctx, mapping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomMapping), args.Error(1)
}
