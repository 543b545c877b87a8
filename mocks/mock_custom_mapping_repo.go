package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
)

// MockCustomMappingRepo is a mock implementation of port.CustomMappingRepository.
type MockCustomMappingRepo struct {
	mock.Mock
}

func (m *MockCustomMappingRepo) List(ctx context.Context) ([]domain.CustomMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomMapping), args.Error(1)
}

func (m *MockCustomMappingRepo) Save(ctx context.Context, mapping *domain.CustomMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}
