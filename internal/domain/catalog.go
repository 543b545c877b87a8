package domain

import (
	"github.com/shopspring/decimal"
)

// HSCodeEntry is one row of the HS code table.
type HSCodeEntry struct {
	Code         string              `json:"code" db:"code"`
	Description  string              `json:"description" db:"description"`
	Category     string              `json:"category" db:"category"`
	DutyRateHint decimal.NullDecimal `json:"duty_rate_hint" db:"duty_rate_hint"`
	VATRateHint  decimal.NullDecimal `json:"vat_rate_hint" db:"vat_rate_hint"`
}

// KeywordEntry maps a lower-cased keyword or phrase to an HS code.
type KeywordEntry struct {
	Keyword string `json:"keyword" db:"keyword"`
	Code    string `json:"code" db:"code"`
}

// CategoryEntry maps a coarse category label to its representative HS code.
type CategoryEntry struct {
	Category string `json:"category" db:"category"`
	Code     string `json:"code" db:"code"`
}

// LowValueScheme is a point-of-sale VAT collection regime (IOSS, UK low value goods, AU LVG).
type LowValueScheme struct {
	Name      string          `json:"name"`
	Threshold decimal.Decimal `json:"threshold"`
}

// Jurisdiction is the tax configuration of one destination country.
// Thresholds are inclusive: an order value equal to the threshold qualifies.
type Jurisdiction struct {
	CountryCode     string                     `json:"country_code"`
	Name            string                     `json:"name"`
	Currency        string                     `json:"currency"`
	TaxName         string                     `json:"tax_name"`
	StandardVATRate decimal.Decimal            `json:"standard_vat_rate"`
	ReducedRates    map[string]decimal.Decimal `json:"reduced_rates,omitempty"`
	DutyRates       map[string]decimal.Decimal `json:"duty_rates,omitempty"`

	DutyFreeThreshold *decimal.Decimal `json:"duty_free_threshold,omitempty"`
	VATFreeThreshold  *decimal.Decimal `json:"vat_free_threshold,omitempty"`
	DeMinimisDuty     *decimal.Decimal `json:"de_minimis_duty,omitempty"`
	LowValueScheme    *LowValueScheme  `json:"low_value_scheme,omitempty"`

	// VATOnDutyInclusive computes VAT on value + duty instead of value alone.
	VATOnDutyInclusive bool `json:"vat_on_duty_inclusive"`
}

// CarrierService is one shippable provider/service pair of the logistics catalog.
type CarrierService struct {
	Provider       string          `json:"provider"`
	Service        string          `json:"service"`
	DisplayName    string          `json:"display_name"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	PerKgCost      decimal.Decimal `json:"per_kg_cost"`
	MinTransitDays int             `json:"min_transit_days"`
	MaxTransitDays int             `json:"max_transit_days"`
	MaxWeightKg    float64         `json:"max_weight_kg"`
	MaxLengthCm    float64         `json:"max_length_cm"`
	Reliability    float64         `json:"reliability"`
	Tracking       bool            `json:"tracking"`
	Insurance      bool            `json:"insurance"`
	DDP            bool            `json:"ddp"`
	// Countries lists supported ISO country codes; empty means worldwide.
	Countries []string `json:"countries,omitempty"`
}

// Supports reports whether the service delivers to the given country.
func (s *CarrierService) Supports(country string) bool {
	if len(s.Countries) == 0 {
		return true
	}
	for _, c := range s.Countries {
		if c == country {
			return true
		}
	}
	return false
}

// CatalogSnapshot is every read-only lookup table the engines are built from.
type CatalogSnapshot struct {
	Version       string           `json:"version"`
	HSCodes       []HSCodeEntry    `json:"hs_codes"`
	Keywords      []KeywordEntry   `json:"keywords"`
	Categories    []CategoryEntry  `json:"categories"`
	Jurisdictions []Jurisdiction   `json:"jurisdictions"`
	Services      []CarrierService `json:"services"`
}

// CatalogStats summarizes a loaded catalog.
type CatalogStats struct {
	Version        string `json:"version"`
	Source         string `json:"source"`
	HSCodes        int    `json:"hs_codes"`
	Keywords       int    `json:"keywords"`
	Categories     int    `json:"categories"`
	Jurisdictions  int    `json:"jurisdictions"`
	Services       int    `json:"services"`
	CustomMappings int    `json:"custom_mappings"`
}
