package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
	"crossquote/internal/service"
)

// MockClassificationService is a mock implementation of service.ClassificationService.
type MockClassificationService struct {
	mock.Mock
}

func (m *MockClassificationService) Classify(ctx context.Context, p domain.ProductDescriptor) (*service.ClassificationResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClassificationResult), args.Error(1)
}

func (m *MockClassificationService) ValidateCode(ctx context.Context, code string) (*domain.FormatValidation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormatValidation), args.Error(1)
}

func (m *MockClassificationService) RegisterMapping(ctx context.Context, mapping domain.CustomMapping) (*domain.CustomMapping, error) {
	args := m.Called(ctx, mapping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomMapping), args.Error(1)
}
