// Package memory holds process-local repositories used when no database is configured.
package memory

import (
	"context"
	"sync"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

type customMappingRepo struct {
	mu       sync.RWMutex
	mappings []domain.CustomMapping
}

// NewCustomMappingRepo returns a CustomMappingRepository that keeps mappings
// for the lifetime of the process.
func NewCustomMappingRepo() port.CustomMappingRepository {
	return &customMappingRepo{}
}

// List returns mappings in registration order.
func (r *customMappingRepo) List(_ context.Context) ([]domain.CustomMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CustomMapping, len(r.mappings))
	copy(out, r.mappings)
	return out, nil
}

// Save replaces an existing (keyword, code) pair in place or appends a new one.
func (r *customMappingRepo) Save(_ context.Context, m *domain.CustomMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.mappings {
		if r.mappings[i].Keyword == m.Keyword && r.mappings[i].Code == m.Code {
			r.mappings[i] = *m
			return nil
		}
	}
	r.mappings = append(r.mappings, *m)
	return nil
}
