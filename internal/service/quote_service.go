package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crossquote/internal/domain"
	"crossquote/internal/logistics"
	"crossquote/internal/port"
	"crossquote/internal/validator"
)

// quoteNamespace scopes the name-based quote ids.
var quoteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:crossquote:quote"))

// QuoteConfig holds orchestration settings.
type QuoteConfig struct {
	// ConfidenceFloor is the minimum top-candidate confidence accepted before
	// the miscellaneous code is substituted.
	ConfidenceFloor float64
	DefaultPackage  domain.Dimensions
}

// ShippingRequest is the input of a standalone logistics ranking.
type ShippingRequest struct {
	Package     domain.ShippingPackage
	Preferences domain.Preferences
}

// QuoteService assembles classification, tax and logistics into one quote.
type QuoteService interface {
	// Quote never returns a nil quote: on error the degraded empty quote is
	// returned alongside it.
	Quote(ctx context.Context, req *domain.QuoteRequest) (*domain.Quote, error)
	ShippingOptions(ctx context.Context, req *ShippingRequest) ([]domain.ShippingOption, error)
}

type quoteService struct {
	catalog   CatalogService
	validator *validator.Engine
	cache     port.QuoteCache
	cfg       QuoteConfig
	log       *zap.Logger
}

// NewQuoteService creates a new QuoteService. cache may be nil.
func NewQuoteService(
	catalog CatalogService,
	v *validator.Engine,
	cache port.QuoteCache,
	cfg QuoteConfig,
	log *zap.Logger,
) QuoteService {
	return &quoteService{
		catalog:   catalog,
		validator: v,
		cache:     cache,
		cfg:       cfg,
		log:       log.With(zap.String("component", "quoteService")),
	}
}

func (s *quoteService) Quote(ctx context.Context, req *domain.QuoteRequest) (*domain.Quote, error) {
	canon := canonicalRequest(req)

	report := s.validator.Check(ctx, canon)
	for _, w := range report.Warnings {
		s.log.Warn("quote request warning",
			zap.String("rule", w.RuleKey), zap.String("field", w.FieldPath), zap.String("message", w.Message))
	}
	if err := report.Err(); err != nil {
		return domain.EmptyQuote(canon.Destination), err
	}

	eng, err := s.catalog.Engines()
	if err != nil {
		return domain.EmptyQuote(canon.Destination), err
	}
	match := s.validator.CheckRules(ctx, canon, validator.DestinationCurrencyValidator(eng.destinationCurrency))
	if err := match.Err(); err != nil {
		return domain.EmptyQuote(canon.Destination), err
	}

	id, err := quoteID(canon, eng.Revision())
	if err != nil {
		return domain.EmptyQuote(canon.Destination), &domain.ComputationError{Op: "digest request", Err: err}
	}
	key := id.String()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("quote cache read failed", zap.String("quote_id", key), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	quote, err := s.compute(eng, canon, id)
	if err != nil {
		s.log.Error("quote computation failed", zap.String("quote_id", key), zap.Error(err))
		return domain.EmptyQuote(canon.Destination), err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, quote); err != nil {
			s.log.Warn("quote cache write failed", zap.String("quote_id", key), zap.Error(err))
		}
	}
	return quote, nil
}

// compute runs the engines. Any panic inside them becomes a ComputationError.
func (s *quoteService) compute(eng *Engines, req *domain.QuoteRequest, id uuid.UUID) (quote *domain.Quote, err error) {
	defer func() {
		if r := recover(); r != nil {
			quote = nil
			err = &domain.ComputationError{Op: "compute quote", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	country := req.Destination.CountryCode
	currency := req.Items[0].Currency

	items := make([]domain.TaxableLineItem, 0, len(req.Items))
	lines := make([]domain.QuoteLine, 0, len(req.Items))
	weight := 0.0
	for i := range req.Items {
		item := &req.Items[i]
		cls, substituted, err := s.classify(eng, item)
		if err != nil {
			return nil, err
		}
		lineID := item.ID
		if lineID == "" {
			lineID = fmt.Sprintf("line-%d", i+1)
		}
		items = append(items, domain.TaxableLineItem{
			LineID:         lineID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Currency:       currency,
			WeightKg:       item.WeightKg,
			Classification: cls,
			Destination:    country,
		})
		lines = append(lines, domain.QuoteLine{LineID: lineID, Classification: cls, Substituted: substituted})
		weight += float64(item.Quantity) * item.WeightKg
	}

	tax := eng.Tax.ComputeOrder(items, req.Preferences.UseLowValueScheme)
	if len(tax.Lines) != len(lines) {
		return nil, &domain.ComputationError{Op: "compute taxes", Err: fmt.Errorf("got %d tax lines for %d items", len(tax.Lines), len(lines))}
	}
	for i := range lines {
		lines[i].Tax = tax.Lines[i]
	}

	dims := s.cfg.DefaultPackage
	if req.Package != nil {
		dims = *req.Package
	}
	options := eng.Logistics.Recommend(domain.ShippingPackage{
		WeightKg:      weight,
		DeclaredValue: tax.Order.TaxableBase,
		Currency:      currency,
		Dimensions:    dims,
		Destination:   country,
	}, req.Preferences)

	summary := domain.QuoteSummary{
		Currency:      currency,
		Subtotal:      tax.Order.TaxableBase,
		TotalTax:      tax.Order.TotalTax,
		LogisticsCost: decimal.Zero,
	}
	chosen, ok := logistics.Select(options, req.Preferences.PreferredProvider, req.Preferences.PreferredService)
	if !ok {
		chosen, ok = logistics.Recommended(options)
	}
	if ok {
		opt := *chosen
		summary.RecommendedLogistics = &opt
		summary.LogisticsCost = opt.Cost
	}
	summary.GrandTotal = summary.Subtotal.Add(summary.TotalTax).Add(summary.LogisticsCost)

	return &domain.Quote{
		ID:             id,
		Status:         domain.QuoteStatusComplete,
		CatalogVersion: eng.Revision(),
		Destination:    req.Destination,
		Taxes:          tax.Components,
		OrderTax:       tax.Order,
		Lines:          lines,
		Logistics:      options,
		Summary:        summary,
	}, nil
}

// classify resolves a cart line to one classification. Merchant codes win;
// otherwise the top candidate is used unless it falls below the floor.
func (s *quoteService) classify(eng *Engines, item *domain.CartItem) (domain.HSClassification, bool, error) {
	if item.HSCode != "" {
		cls, err := eng.Classifier.ClassifyCode(item.HSCode)
		return cls, false, err
	}
	top, ok := eng.Classifier.RecommendedCode(item.Product)
	if !ok || top.Confidence < s.cfg.ConfidenceFloor {
		return eng.Classifier.Fallback(), true, nil
	}
	return top, false, nil
}

func (s *quoteService) ShippingOptions(_ context.Context, req *ShippingRequest) ([]domain.ShippingOption, error) {
	pkg := req.Package
	pkg.Destination = strings.ToUpper(strings.TrimSpace(pkg.Destination))
	pkg.Currency = strings.ToUpper(strings.TrimSpace(pkg.Currency))

	var fields []domain.FieldError
	if len(pkg.Destination) != 2 {
		fields = append(fields, domain.FieldError{Field: "package.destination", Message: "country code must be two letters"})
	}
	if pkg.WeightKg < 0 {
		fields = append(fields, domain.FieldError{Field: "package.weight_kg", Message: "weight must not be negative"})
	}
	if pkg.Dimensions.LengthCm < 0 || pkg.Dimensions.WidthCm < 0 || pkg.Dimensions.HeightCm < 0 {
		fields = append(fields, domain.FieldError{Field: "package.dimensions", Message: "dimensions must not be negative"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	if pkg.Dimensions == (domain.Dimensions{}) {
		pkg.Dimensions = s.cfg.DefaultPackage
	}

	eng, err := s.catalog.Engines()
	if err != nil {
		return nil, err
	}
	return eng.Logistics.Recommend(pkg, req.Preferences), nil
}

// canonicalRequest returns a copy with codes upper-cased and text trimmed so
// equivalent requests digest identically.
func canonicalRequest(req *domain.QuoteRequest) *domain.QuoteRequest {
	out := *req
	out.Destination.CountryCode = strings.ToUpper(strings.TrimSpace(req.Destination.CountryCode))
	out.Destination.ProvinceCode = strings.ToUpper(strings.TrimSpace(req.Destination.ProvinceCode))
	out.Items = make([]domain.CartItem, len(req.Items))
	for i, item := range req.Items {
		item.Currency = strings.ToUpper(strings.TrimSpace(item.Currency))
		item.HSCode = strings.TrimSpace(item.HSCode)
		item.Product.Name = strings.TrimSpace(item.Product.Name)
		out.Items[i] = item
	}
	if req.Package != nil {
		dims := *req.Package
		out.Package = &dims
	}
	return &out
}

// quoteID derives a stable id from the canonical request and lookup revision.
func quoteID(req *domain.QuoteRequest, revision string) (uuid.UUID, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(quoteNamespace, append(data, []byte("|"+revision)...)), nil
}
