package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

type customMappingRepo struct {
	db *sqlx.DB
}

// NewCustomMappingRepo creates a new PostgreSQL-backed CustomMappingRepository.
func NewCustomMappingRepo(db *sqlx.DB) port.CustomMappingRepository {
	return &customMappingRepo{db: db}
}

func (r *customMappingRepo) List(ctx context.Context) ([]domain.CustomMapping, error) {
	mappings := []domain.CustomMapping{}
	err := r.db.SelectContext(ctx, &mappings,
		`SELECT keyword, code, COALESCE(description, '') AS description, COALESCE(category, '') AS category
		 FROM hs_custom_mappings
		 ORDER BY created_at, keyword`)
	if err != nil {
		return nil, fmt.Errorf("customMappingRepo.List: %w", err)
	}
	return mappings, nil
}

// Save upserts m keyed by (keyword, code); re-registering a pair refreshes
// its description and category.
func (r *customMappingRepo) Save(ctx context.Context, m *domain.CustomMapping) error {
	query := `INSERT INTO hs_custom_mappings (keyword, code, description, category, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (keyword, code) DO UPDATE
		SET description = EXCLUDED.description, category = EXCLUDED.category`

	if _, err := r.db.ExecContext(ctx, query, m.Keyword, m.Code, m.Description, m.Category); err != nil {
		return fmt.Errorf("customMappingRepo.Save: %w", err)
	}
	return nil
}
