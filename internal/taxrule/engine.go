package taxrule

import (
	"strings"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

// Config holds the destination-independent duty table.
type Config struct {
	DefaultDutyRate   decimal.Decimal
	CategoryDutyRates map[string]decimal.Decimal
}

// DefaultCategoryDutyRates is the category -> duty rate table used when a
// jurisdiction has no override for the category.
func DefaultCategoryDutyRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		domain.CategoryElectronics:   decimal.RequireFromString("0.02"),
		domain.CategoryClothing:      decimal.RequireFromString("0.12"),
		domain.CategoryFootwear:      decimal.RequireFromString("0.17"),
		domain.CategoryAccessories:   decimal.RequireFromString("0.03"),
		domain.CategoryHome:          decimal.RequireFromString("0.04"),
		domain.CategoryFurniture:     decimal.RequireFromString("0.03"),
		domain.CategoryBooks:         decimal.Zero,
		domain.CategoryFood:          decimal.RequireFromString("0.08"),
		domain.CategoryToys:          decimal.RequireFromString("0.047"),
		domain.CategoryCosmetics:     decimal.RequireFromString("0.065"),
		domain.CategoryJewelry:       decimal.RequireFromString("0.025"),
		domain.CategorySports:        decimal.RequireFromString("0.027"),
		domain.CategoryMiscellaneous: decimal.RequireFromString("0.05"),
	}
}

// DefaultConfig returns the standard duty table with a 5% fallback rate.
func DefaultConfig() Config {
	return Config{
		DefaultDutyRate:   decimal.RequireFromString("0.05"),
		CategoryDutyRates: DefaultCategoryDutyRates(),
	}
}

// Engine computes duty and VAT from immutable per-destination records.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg           Config
	jurisdictions map[string]domain.Jurisdiction
}

// New builds an Engine keyed by upper-case country code.
func New(jurisdictions []domain.Jurisdiction, cfg Config) *Engine {
	if cfg.CategoryDutyRates == nil {
		cfg.CategoryDutyRates = DefaultCategoryDutyRates()
	}
	m := make(map[string]domain.Jurisdiction, len(jurisdictions))
	for i := range jurisdictions {
		m[strings.ToUpper(jurisdictions[i].CountryCode)] = jurisdictions[i]
	}
	return &Engine{cfg: cfg, jurisdictions: m}
}

// Jurisdiction returns the configuration for country.
func (e *Engine) Jurisdiction(country string) (domain.Jurisdiction, bool) {
	j, ok := e.jurisdictions[strings.ToUpper(country)]
	return j, ok
}

// Supports reports whether country has tax configuration.
func (e *Engine) Supports(country string) bool {
	_, ok := e.Jurisdiction(country)
	return ok
}

// Count returns the number of configured jurisdictions.
func (e *Engine) Count() int { return len(e.jurisdictions) }

// Gate is the outcome of threshold evaluation against an order value.
type Gate struct {
	OrderValue     decimal.Decimal
	LowValueScheme bool
	DutyWaived     bool
	VATWaived      bool
	Exemptions     []domain.ExemptionRule
}

// Evaluate applies the destination's thresholds to orderValue. Thresholds are
// legally order-level, so callers pass the aggregated cart value.
func (e *Engine) Evaluate(j *domain.Jurisdiction, orderValue decimal.Decimal, useLowValueScheme bool) Gate {
	g := Gate{OrderValue: orderValue}
	within := func(limit *decimal.Decimal) bool {
		return limit != nil && orderValue.LessThanOrEqual(*limit)
	}

	if useLowValueScheme && j.LowValueScheme != nil && orderValue.LessThanOrEqual(j.LowValueScheme.Threshold) {
		g.LowValueScheme = true
		g.DutyWaived = true
		g.Exemptions = append(g.Exemptions, domain.ExemptionLowValueScheme)
		return g
	}

	switch {
	case within(j.DeMinimisDuty):
		g.DutyWaived = true
		g.Exemptions = append(g.Exemptions, domain.ExemptionDeMinimis)
	case within(j.DutyFreeThreshold):
		g.DutyWaived = true
		g.Exemptions = append(g.Exemptions, domain.ExemptionDutyFreeThreshold)
	}
	if within(j.VATFreeThreshold) {
		g.VATWaived = true
		g.Exemptions = append(g.Exemptions, domain.ExemptionVATFreeThreshold)
	}
	return g
}

// DutyRate resolves the duty rate for a classification: jurisdiction override
// for the category, then the code's own hint, then the category table, then
// the configured default.
func (e *Engine) DutyRate(j *domain.Jurisdiction, c *domain.HSClassification) decimal.Decimal {
	if r, ok := j.DutyRates[c.Category]; ok {
		return r
	}
	if c.DutyRateHint != nil {
		return *c.DutyRateHint
	}
	if r, ok := e.cfg.CategoryDutyRates[c.Category]; ok {
		return r
	}
	return e.cfg.DefaultDutyRate
}

// VATRate resolves the VAT rate: a reduced rate when the destination lists
// the category, otherwise the standard rate.
func (e *Engine) VATRate(j *domain.Jurisdiction, c *domain.HSClassification) decimal.Decimal {
	if r, ok := j.ReducedRates[c.Category]; ok {
		return r
	}
	return j.StandardVATRate
}

// ComputeLine computes one line as a single-line order: its own value is
// evaluated against the thresholds.
func (e *Engine) ComputeLine(item *domain.TaxableLineItem, useLowValueScheme bool) domain.TaxBreakdown {
	j, ok := e.Jurisdiction(item.Destination)
	if !ok {
		return unsupportedLine(item)
	}
	g := e.Evaluate(&j, round2(item.Value()), useLowValueScheme)
	return e.computeLine(item, &j, &g)
}

func (e *Engine) computeLine(item *domain.TaxableLineItem, j *domain.Jurisdiction, g *Gate) domain.TaxBreakdown {
	base := round2(item.Value())
	b := domain.TaxBreakdown{
		LineID:         item.LineID,
		HSCode:         item.Classification.Code,
		Currency:       item.Currency,
		TaxableBase:    base,
		Duty:           decimal.Zero,
		VAT:            decimal.Zero,
		DutyRate:       decimal.Zero,
		VATRate:        decimal.Zero,
		LowValueScheme: g.LowValueScheme,
		VATIncluded:    g.LowValueScheme,
		Exemptions:     g.Exemptions,
	}

	if !g.DutyWaived {
		b.DutyRate = e.DutyRate(j, &item.Classification)
		b.Duty = round2(base.Mul(b.DutyRate))
	}
	if !g.VATWaived {
		b.VATRate = e.VATRate(j, &item.Classification)
		vatBase := base
		if j.VATOnDutyInclusive {
			vatBase = vatBase.Add(b.Duty)
		}
		b.VAT = round2(vatBase.Mul(b.VATRate))
	}

	b.TotalTax = b.Duty
	if !b.VATIncluded {
		b.TotalTax = b.TotalTax.Add(b.VAT)
	}
	return b
}

func unsupportedLine(item *domain.TaxableLineItem) domain.TaxBreakdown {
	return domain.TaxBreakdown{
		LineID:      item.LineID,
		HSCode:      item.Classification.Code,
		Currency:    item.Currency,
		TaxableBase: round2(item.Value()),
		DutyRate:    decimal.Zero,
		VATRate:     decimal.Zero,
		Duty:        decimal.Zero,
		VAT:         decimal.Zero,
		TotalTax:    decimal.Zero,
		Unsupported: true,
	}
}

// OrderResult is the per-line and aggregated tax outcome of one order.
type OrderResult struct {
	Lines      []domain.TaxBreakdown
	Order      domain.TaxBreakdown
	Components []domain.TaxComponent
}

// ComputeOrder evaluates thresholds once against the order total, computes
// every line under that gate and sums the lines into the order breakdown.
// All items must share one destination and currency.
func (e *Engine) ComputeOrder(items []domain.TaxableLineItem, useLowValueScheme bool) OrderResult {
	res := OrderResult{Lines: make([]domain.TaxBreakdown, 0, len(items))}
	if len(items) == 0 {
		res.Order = zeroBreakdown("")
		res.Components = []domain.TaxComponent{}
		return res
	}

	country, currency := items[0].Destination, items[0].Currency
	total := decimal.Zero
	for i := range items {
		total = total.Add(round2(items[i].Value()))
	}

	j, ok := e.Jurisdiction(country)
	if !ok {
		for i := range items {
			res.Lines = append(res.Lines, unsupportedLine(&items[i]))
		}
		res.Order = zeroBreakdown(currency)
		res.Order.TaxableBase = total
		res.Order.Unsupported = true
		res.Components = []domain.TaxComponent{unsupportedNotice()}
		return res
	}

	g := e.Evaluate(&j, total, useLowValueScheme)
	for i := range items {
		res.Lines = append(res.Lines, e.computeLine(&items[i], &j, &g))
	}
	res.Order = aggregate(res.Lines, currency, &g)
	res.Components = buildComponents(&j, res.Lines, &res.Order, &g)
	return res
}

// aggregate sums line amounts. Order-level rates are effective rates
// (amount / base) to four places, zero when the base is zero.
func aggregate(lines []domain.TaxBreakdown, currency string, g *Gate) domain.TaxBreakdown {
	o := zeroBreakdown(currency)
	o.LowValueScheme = g.LowValueScheme
	o.VATIncluded = g.LowValueScheme
	o.Exemptions = g.Exemptions
	for i := range lines {
		l := &lines[i]
		o.TaxableBase = o.TaxableBase.Add(l.TaxableBase)
		o.Duty = o.Duty.Add(l.Duty)
		o.VAT = o.VAT.Add(l.VAT)
		o.TotalTax = o.TotalTax.Add(l.TotalTax)
	}
	if !o.TaxableBase.IsZero() {
		o.DutyRate = o.Duty.Div(o.TaxableBase).Round(4)
		o.VATRate = o.VAT.Div(o.TaxableBase).Round(4)
	}
	return o
}

func zeroBreakdown(currency string) domain.TaxBreakdown {
	return domain.TaxBreakdown{
		Currency:    currency,
		TaxableBase: decimal.Zero,
		DutyRate:    decimal.Zero,
		VATRate:     decimal.Zero,
		Duty:        decimal.Zero,
		VAT:         decimal.Zero,
		TotalTax:    decimal.Zero,
	}
}

// round2 rounds half away from zero, which is half-up for the non-negative
// amounts handled here.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
