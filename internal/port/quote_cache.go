package port

import (
	"context"

	"crossquote/internal/domain"
)

// QuoteCache stores computed quotes keyed by request digest.
// Get returns (nil, nil) on a miss.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*domain.Quote, error)
	Set(ctx context.Context, key string, quote *domain.Quote) error
}
