package port

import (
	"context"

	"crossquote/internal/domain"
)

// CustomMappingRepository persists runtime keyword -> HS code registrations
// so they survive catalog refreshes and restarts.
type CustomMappingRepository interface {
	List(ctx context.Context) ([]domain.CustomMapping, error)
	Save(ctx context.Context, m *domain.CustomMapping) error
}
