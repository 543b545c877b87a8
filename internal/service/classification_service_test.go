package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crossquote/internal/domain"
	"crossquote/internal/service"
	"crossquote/mocks"
)

func TestClassificationService_Classify(t *testing.T) {
	svc := service.NewClassificationService(loadedCatalog(t))

	res, err := svc.Classify(context.Background(), domain.ProductDescriptor{Name: "MacBook Air 13"})
	require.NoError(t, err)

	require.NotNil(t, res.Recommended)
	assert.Equal(t, "847130", res.Recommended.Code)
	assert.Equal(t, domain.MatchSourceExact, res.Recommended.Source)
	assert.Equal(t, res.Candidates[0], *res.Recommended)
	assert.NotEmpty(t, res.CatalogVersion)
}

func TestClassificationService_ClassifyNoMatchFallsBackToMisc(t *testing.T) {
	svc := service.NewClassificationService(loadedCatalog(t))

	res, err := svc.Classify(context.Background(), domain.ProductDescriptor{Name: "Zqxv"})
	require.NoError(t, err)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "9600", res.Recommended.Code)
	assert.InDelta(t, 0.3, res.Recommended.Confidence, 1e-9)
}

func TestClassificationService_ClassifyRequiresText(t *testing.T) {
	svc := service.NewClassificationService(loadedCatalog(t))

	_, err := svc.Classify(context.Background(), domain.ProductDescriptor{CategoryHint: "toys"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestClassificationService_ValidateCode(t *testing.T) {
	svc := service.NewClassificationService(loadedCatalog(t))

	tests := []struct {
		code  string
		valid bool
		known bool
	}{
		{"8517.12", true, true},
		{"85171200", true, true},
		{"0101", true, false},
		{"7701", false, false},
		{"12a4", false, false},
		{"123", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, err := svc.ValidateCode(context.Background(), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, v.Valid)
			assert.Equal(t, tt.known, v.Known)
			if !tt.valid {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestClassificationService_RegisterMappingDelegates(t *testing.T) {
	cat := new(mocks.MockCatalogService)
	in := domain.CustomMapping{Keyword: "Fidget Cube", Code: "950300"}
	out := &domain.CustomMapping{Keyword: "fidget cube", Code: "950300"}
	cat.On("RegisterCustomMapping", mock.Anything, in).Return(out, nil)

	svc := service.NewClassificationService(cat)
	got, err := svc.RegisterMapping(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, out, got)
	cat.AssertExpectations(t)
}

func TestClassificationService_CatalogUnavailable(t *testing.T) {
	cat := new(mocks.MockCatalogService)
	cat.On("Engines").Return(nil, domain.ErrCatalogUnavailable)

	svc := service.NewClassificationService(cat)
	_, err := svc.Classify(context.Background(), domain.ProductDescriptor{Name: "laptop"})
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))

	_, err = svc.ValidateCode(context.Background(), "8471")
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
}
