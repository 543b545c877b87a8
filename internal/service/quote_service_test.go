package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crossquote/internal/catalog"
	"crossquote/internal/classifier"
	"crossquote/internal/domain"
	"crossquote/internal/port"
	"crossquote/internal/service"
	"crossquote/internal/taxrule"
	"crossquote/internal/validator"
	"crossquote/mocks"
)

func quoteConfig() service.QuoteConfig {
	return service.QuoteConfig{
		ConfidenceFloor: 0.7,
		DefaultPackage:  domain.Dimensions{LengthCm: 30, WidthCm: 20, HeightCm: 15},
	}
}

func newQuoteService(t *testing.T, cache port.QuoteCache) service.QuoteService {
	t.Helper()
	return service.NewQuoteService(
		loadedCatalog(t),
		validator.NewEngine(validator.NewDefaultRegistry()),
		cache,
		quoteConfig(),
		zap.NewNop(),
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func phoneRequest(country string, qty int, lowValueScheme bool) *domain.QuoteRequest {
	return &domain.QuoteRequest{
		Items: []domain.CartItem{{
			ID:        "sku-1",
			Quantity:  qty,
			UnitPrice: dec("100.00"),
			Currency:  "EUR",
			WeightKg:  0.2,
			Product:   domain.ProductDescriptor{Name: "Apple iPhone 15"},
		}},
		Destination: domain.Destination{CountryCode: country},
		Preferences: domain.Preferences{UseLowValueScheme: lowValueScheme},
	}
}

func TestQuoteService_LowValueSchemeCollectsVATAtCheckout(t *testing.T) {
	svc := newQuoteService(t, nil)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, true))
	require.NoError(t, err)

	assert.Equal(t, domain.QuoteStatusComplete, q.Status)
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "sku-1", q.Lines[0].LineID)
	assert.Equal(t, "851712", q.Lines[0].Classification.Code)
	assert.False(t, q.Lines[0].Substituted)

	assert.True(t, q.OrderTax.LowValueScheme)
	assert.True(t, q.OrderTax.Duty.IsZero())
	assert.True(t, dec("19.00").Equal(q.OrderTax.VAT), q.OrderTax.VAT.String())
	assert.True(t, q.OrderTax.TotalTax.IsZero())

	var vat *domain.TaxComponent
	for i := range q.Taxes {
		if q.Taxes[i].Type == domain.TaxTypeVAT {
			vat = &q.Taxes[i]
		}
	}
	require.NotNil(t, vat)
	assert.True(t, vat.Included)
	assert.True(t, vat.LowValueScheme)
}

func TestQuoteService_DutyAndVATAboveThreshold(t *testing.T) {
	svc := newQuoteService(t, nil)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 2, false))
	require.NoError(t, err)

	assert.True(t, dec("200.00").Equal(q.Summary.Subtotal))
	assert.True(t, dec("4.00").Equal(q.OrderTax.Duty), q.OrderTax.Duty.String())
	assert.True(t, dec("38.76").Equal(q.OrderTax.VAT), q.OrderTax.VAT.String())
	assert.True(t, dec("42.76").Equal(q.Summary.TotalTax), q.Summary.TotalTax.String())

	require.Len(t, q.Taxes, 2)
	assert.Equal(t, domain.TaxTypeDuty, q.Taxes[0].Type)
	assert.True(t, dec("0.02").Equal(q.Taxes[0].Rate))
	assert.Equal(t, domain.TaxTypeVAT, q.Taxes[1].Type)
	assert.True(t, dec("0.19").Equal(q.Taxes[1].Rate))
}

func TestQuoteService_GrandTotalAddsLogistics(t *testing.T) {
	svc := newQuoteService(t, nil)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 2, false))
	require.NoError(t, err)

	require.NotNil(t, q.Summary.RecommendedLogistics)
	assert.True(t, q.Summary.RecommendedLogistics.Recommended)
	assert.True(t, q.Summary.RecommendedLogistics.Cost.Equal(q.Summary.LogisticsCost))
	want := q.Summary.Subtotal.Add(q.Summary.TotalTax).Add(q.Summary.LogisticsCost)
	assert.True(t, want.Equal(q.Summary.GrandTotal))
	assert.Equal(t, "EUR", q.Summary.Currency)
	assert.NotEmpty(t, q.Logistics)
}

func TestQuoteService_DeMinimisWaivesDuty(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{
		Items: []domain.CartItem{{
			Quantity: 4, UnitPrice: dec("25"), Currency: "usd", WeightKg: 0.15,
			Product: domain.ProductDescriptor{Name: "Cotton T-Shirt"},
		}},
		Destination: domain.Destination{CountryCode: "us"},
	}

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "line-1", q.Lines[0].LineID)
	assert.Equal(t, "610910", q.Lines[0].Classification.Code)
	assert.True(t, q.Summary.TotalTax.IsZero())
	assert.Contains(t, q.OrderTax.Exemptions, domain.ExemptionDeMinimis)
	require.Len(t, q.Taxes, 1)
	assert.Equal(t, domain.TaxTypeDuty, q.Taxes[0].Type)
	assert.Equal(t, "US", q.Destination.CountryCode)
}

func TestQuoteService_JurisdictionDutyOverride(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{
		Items: []domain.CartItem{{
			Quantity: 1, UnitPrice: dec("900"), Currency: "USD", WeightKg: 0.3,
			Product: domain.ProductDescriptor{Name: "Designer t-shirt"},
		}},
		Destination: domain.Destination{CountryCode: "US"},
	}

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, dec("0.16").Equal(q.Lines[0].Tax.DutyRate))
	assert.True(t, dec("144.00").Equal(q.Summary.TotalTax), q.Summary.TotalTax.String())
}

func TestQuoteService_SubstitutesBelowConfidenceFloor(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{
		Items: []domain.CartItem{{
			Quantity: 1, UnitPrice: dec("20"), Currency: "EUR", WeightKg: 0.5,
			Product: domain.ProductDescriptor{Name: "Zqxv", CategoryHint: "toys"},
		}},
		Destination: domain.Destination{CountryCode: "FR"},
	}

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	line := q.Lines[0]
	assert.True(t, line.Substituted)
	assert.Equal(t, "9600", line.Classification.Code)
	assert.Equal(t, "9600", line.Tax.HSCode)
}

func TestQuoteService_MerchantCodeIsTrusted(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{
		Items: []domain.CartItem{{
			Quantity: 1, UnitPrice: dec("300"), Currency: "EUR", WeightKg: 0.8,
			HSCode: "4901.99",
		}},
		Destination: domain.Destination{CountryCode: "IE"},
	}

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	cls := q.Lines[0].Classification
	assert.Equal(t, "490199", cls.Code)
	assert.Equal(t, 1.0, cls.Confidence)
	assert.False(t, q.Lines[0].Substituted)
	// books: zero duty hint and a zero reduced rate in Ireland
	assert.True(t, q.Summary.TotalTax.IsZero())
}

func TestQuoteService_PreferredProviderOverridesRecommendation(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := phoneRequest("DE", 1, true)
	req.Preferences.PreferredProvider = "UPS"

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	chosen := q.Summary.RecommendedLogistics
	require.NotNil(t, chosen)
	assert.Equal(t, "ups", chosen.Provider)
	assert.True(t, chosen.Cost.Equal(q.Summary.LogisticsCost))
}

func TestQuoteService_UnsupportedDestination(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := phoneRequest("BR", 1, false)

	q, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, q.OrderTax.Unsupported)
	assert.True(t, q.Summary.TotalTax.IsZero())
	require.Len(t, q.Taxes, 1)
	assert.Equal(t, domain.TaxTypeNotice, q.Taxes[0].Type)
	assert.Equal(t, taxrule.UnsupportedNoticeName, q.Taxes[0].Name)
	assert.Len(t, q.Logistics, 4)
}

func TestQuoteService_ValidationErrorReturnsEmptyQuote(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{Destination: domain.Destination{CountryCode: "de"}}

	q, err := svc.Quote(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	require.NotNil(t, q)
	assert.Equal(t, domain.QuoteStatusFailed, q.Status)
	assert.Equal(t, "DE", q.Destination.CountryCode)
	assert.Empty(t, q.Lines)
	assert.Empty(t, q.Taxes)
}

func TestQuoteService_CatalogUnavailableReturnsEmptyQuote(t *testing.T) {
	cat := service.NewCatalogService(catalog.NewBuiltinSource(), nil, engineConfig(), zap.NewNop())
	svc := service.NewQuoteService(cat, validator.NewEngine(validator.NewDefaultRegistry()), nil, quoteConfig(), zap.NewNop())

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, false))

	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
	require.NotNil(t, q)
	assert.Equal(t, domain.QuoteStatusFailed, q.Status)
}

func TestQuoteService_InvalidMerchantCode(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := phoneRequest("DE", 1, false)
	req.Items[0].HSCode = "7712"

	q, err := svc.Quote(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, domain.QuoteStatusFailed, q.Status)
}

func TestQuoteService_IdenticalRequestsProduceIdenticalQuotes(t *testing.T) {
	svc := newQuoteService(t, nil)

	a, err := svc.Quote(context.Background(), phoneRequest("de", 3, false))
	require.NoError(t, err)
	b, err := svc.Quote(context.Background(), phoneRequest(" DE ", 3, false))
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
	assert.Equal(t, ja, jb)

	c, err := svc.Quote(context.Background(), phoneRequest("DE", 4, false))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestQuoteService_CacheMissStoresQuote(t *testing.T) {
	cache := new(mocks.MockQuoteCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	cache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	svc := newQuoteService(t, cache)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, false))
	require.NoError(t, err)

	cache.AssertCalled(t, "Set", mock.Anything, q.ID.String(), q)
}

func TestQuoteService_CacheHitSkipsComputation(t *testing.T) {
	cached := &domain.Quote{Status: domain.QuoteStatusComplete, CatalogVersion: "cached"}
	cache := new(mocks.MockQuoteCache)
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(cached, nil)
	svc := newQuoteService(t, cache)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, false))
	require.NoError(t, err)

	assert.Same(t, cached, q)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuoteService_CacheFailuresAreIgnored(t *testing.T) {
	cache := new(mocks.MockQuoteCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	svc := newQuoteService(t, cache)

	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, false))
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusComplete, q.Status)
	cache.AssertExpectations(t)
}

func TestQuoteService_ShippingOptions(t *testing.T) {
	svc := newQuoteService(t, nil)

	opts, err := svc.ShippingOptions(context.Background(), &service.ShippingRequest{
		Package: domain.ShippingPackage{WeightKg: 1, Currency: "eur", Destination: "de"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, opts)

	recommended := 0
	for _, o := range opts {
		if o.Recommended {
			recommended++
		}
		// default 30x20x15 package: volumetric 1.8 kg beats the actual 1 kg
		assert.InDelta(t, 1.8, o.BillableWeightKg, 1e-9)
	}
	assert.Equal(t, 1, recommended)
}

func TestQuoteService_ShippingOptionsValidation(t *testing.T) {
	svc := newQuoteService(t, nil)

	_, err := svc.ShippingOptions(context.Background(), &service.ShippingRequest{
		Package: domain.ShippingPackage{
			WeightKg:    -1,
			Destination: "Germany",
			Dimensions:  domain.Dimensions{LengthCm: -5},
		},
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}

func TestQuoteService_CartCurrencyMustMatchDestination(t *testing.T) {
	svc := newQuoteService(t, nil)
	req := &domain.QuoteRequest{
		Items: []domain.CartItem{{
			Quantity: 1, UnitPrice: dec("9000"), Currency: "USD", WeightKg: 2.1,
			Product: domain.ProductDescriptor{Name: "Laptop computer"},
		}},
		Destination: domain.Destination{CountryCode: "JP"},
	}

	q, err := svc.Quote(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "items[0].currency", ve.Fields[0].Field)
	assert.Contains(t, ve.Fields[0].Message, "JPY")
	assert.Equal(t, domain.QuoteStatusFailed, q.Status)
	assert.Empty(t, q.Taxes)
}

func TestQuoteService_EnginePanicBecomesComputationError(t *testing.T) {
	snap, err := catalog.NewBuiltinSource().Load(context.Background())
	require.NoError(t, err)
	cat := new(mocks.MockCatalogService)
	cat.On("Engines").Return(&service.Engines{Classifier: classifier.New(snap, classifier.DefaultConfig())}, nil)

	svc := service.NewQuoteService(cat, validator.NewEngine(validator.NewDefaultRegistry()), nil, quoteConfig(), zap.NewNop())
	q, err := svc.Quote(context.Background(), phoneRequest("DE", 1, false))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrComputation))
	require.NotNil(t, q)
	assert.Equal(t, domain.QuoteStatusFailed, q.Status)
	assert.Equal(t, "DE", q.Destination.CountryCode)
	assert.Empty(t, q.Taxes)
	assert.Empty(t, q.Logistics)
	cat.AssertExpectations(t)
}
