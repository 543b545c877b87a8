package port

import (
	"context"

	"crossquote/internal/domain"
)

// HSCodeRepository defines the contract for HS code table access.
type HSCodeRepository interface {
	LoadCodes(ctx context.Context) ([]domain.HSCodeEntry, error)
	LoadKeywords(ctx context.Context) ([]domain.KeywordEntry, error)
	LoadCategories(ctx context.Context) ([]domain.CategoryEntry, error)
}

// JurisdictionRepository defines the contract for per-destination tax configuration access.
type JurisdictionRepository interface {
	LoadAll(ctx context.Context) ([]domain.Jurisdiction, error)
}

// CarrierServiceRepository defines the contract for shipping catalog access.
type CarrierServiceRepository interface {
	LoadAll(ctx context.Context) ([]domain.CarrierService, error)
}

// CatalogSource produces a complete catalog snapshot from one backing store.
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) (*domain.CatalogSnapshot, error)
}
