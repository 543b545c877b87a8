package service

import (
	"context"
	"strings"

	"crossquote/internal/domain"
)

// ClassificationResult is the ranked candidate list for one product.
type ClassificationResult struct {
	CatalogVersion string                    `json:"catalog_version"`
	Recommended    *domain.HSClassification  `json:"recommended,omitempty"`
	Candidates     []domain.HSClassification `json:"candidates"`
}

// ClassificationService exposes the classifier outside quote computation.
type ClassificationService interface {
	Classify(ctx context.Context, p domain.ProductDescriptor) (*ClassificationResult, error)
	ValidateCode(ctx context.Context, code string) (*domain.FormatValidation, error)
	RegisterMapping(ctx context.Context, m domain.CustomMapping) (*domain.CustomMapping, error)
}

type classificationService struct {
	catalog CatalogService
}

// NewClassificationService creates a new ClassificationService.
func NewClassificationService(catalog CatalogService) ClassificationService {
	return &classificationService{catalog: catalog}
}

func (s *classificationService) Classify(_ context.Context, p domain.ProductDescriptor) (*ClassificationResult, error) {
	if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Description) == "" {
		return nil, domain.NewValidationError("name", "product name or description is required")
	}
	eng, err := s.catalog.Engines()
	if err != nil {
		return nil, err
	}
	res := &ClassificationResult{
		CatalogVersion: eng.Revision(),
		Candidates:     eng.Classifier.Classify(p),
	}
	if len(res.Candidates) > 0 {
		top := res.Candidates[0]
		res.Recommended = &top
	}
	return res, nil
}

func (s *classificationService) ValidateCode(_ context.Context, code string) (*domain.FormatValidation, error) {
	eng, err := s.catalog.Engines()
	if err != nil {
		return nil, err
	}
	v := eng.Classifier.ValidateFormat(code)
	return &v, nil
}

func (s *classificationService) RegisterMapping(ctx context.Context, m domain.CustomMapping) (*domain.CustomMapping, error) {
	return s.catalog.RegisterCustomMapping(ctx, m)
}
