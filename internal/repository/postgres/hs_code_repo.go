package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

type hsCodeRepo struct {
	db *sqlx.DB
}

// NewHSCodeRepo creates a new PostgreSQL-backed HSCodeRepository.
func NewHSCodeRepo(db *sqlx.DB) port.HSCodeRepository {
	return &hsCodeRepo{db: db}
}

func (r *hsCodeRepo) LoadCodes(ctx context.Context) ([]domain.HSCodeEntry, error) {
	var entries []domain.HSCodeEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, category, duty_rate_hint, vat_rate_hint
		 FROM hs_codes
		 ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("hsCodeRepo.LoadCodes: %w", err)
	}
	return entries, nil
}

func (r *hsCodeRepo) LoadKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	var entries []domain.KeywordEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT keyword, code FROM hs_keywords ORDER BY keyword, code`)
	if err != nil {
		return nil, fmt.Errorf("hsCodeRepo.LoadKeywords: %w", err)
	}
	return entries, nil
}

func (r *hsCodeRepo) LoadCategories(ctx context.Context) ([]domain.CategoryEntry, error) {
	var entries []domain.CategoryEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT category, code FROM hs_categories ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("hsCodeRepo.LoadCategories: %w", err)
	}
	return entries, nil
}
