package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
	"crossquote/internal/service"
)

// MockQuoteService is a mock implementation of service.QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Quote(ctx context.Context, req *domain.QuoteRequest) (*domain.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteService) ShippingOptions(ctx context.Context, req *service.ShippingRequest) ([]domain.ShippingOption, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShippingOption), args.Error(1)
}
