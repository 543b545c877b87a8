package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crossquote/internal/domain"
)

// MockQuoteCache is a mock implementation of port.QuoteCache.
type MockQuoteCache struct {
	mock.Mock
}

func (m *MockQuoteCache) Get(ctx context.Context, key string) (*domain.Quote, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteCache) Set(ctx context.Context, key string, quote *domain.Quote) error {
	args := m.Called(ctx, key, quote)
	return args.Error(0)
}
