package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDescriptor is the free-text product input to classification.
type ProductDescriptor struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	CategoryHint string   `json:"category_hint,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Material     string   `json:"material,omitempty"`
	Usage        string   `json:"usage,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// HSClassification is one candidate harmonized-system code for a product.
// Values are produced fresh per classification call and never mutated afterward.
type HSClassification struct {
	Code            string           `json:"hs_code"`
	Description     string           `json:"description"`
	Category        string           `json:"category,omitempty"`
	Confidence      float64          `json:"confidence"`
	Source          MatchSource      `json:"source"`
	MatchedKeywords []string         `json:"matched_keywords,omitempty"`
	DutyRateHint    *decimal.Decimal `json:"duty_rate_hint,omitempty"`
	VATRateHint     *decimal.Decimal `json:"vat_rate_hint,omitempty"`
}

// FormatValidation is the result of a syntactic HS code check.
type FormatValidation struct {
	Code    string `json:"hs_code"`
	Valid   bool   `json:"valid"`
	Chapter string `json:"chapter,omitempty"`
	Known   bool   `json:"known"`
	Reason  string `json:"reason,omitempty"`
}

// CustomMapping binds a keyword or phrase to an HS code at runtime.
type CustomMapping struct {
	Keyword     string `json:"keyword" db:"keyword"`
	Code        string `json:"hs_code" db:"code"`
	Description string `json:"description,omitempty" db:"description"`
	Category    string `json:"category,omitempty" db:"category"`
}

// TaxableLineItem is one cart line with its resolved classification, ready for tax computation.
type TaxableLineItem struct {
	LineID         string
	Quantity       int
	UnitPrice      decimal.Decimal
	Currency       string
	WeightKg       float64
	Classification HSClassification
	Destination    string
}

// Value returns quantity × unit price.
func (l *TaxableLineItem) Value() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TaxBreakdown holds the computed charges for one line or for a whole order.
// All amounts are non-negative and rounded half-up to two decimals.
type TaxBreakdown struct {
	LineID   string `json:"line_id,omitempty"`
	HSCode   string `json:"hs_code,omitempty"`
	Currency string `json:"currency"`

	TaxableBase decimal.Decimal `json:"taxable_base"`
	DutyRate    decimal.Decimal `json:"duty_rate"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Duty        decimal.Decimal `json:"duty"`
	VAT         decimal.Decimal `json:"vat"`
	TotalTax    decimal.Decimal `json:"total_tax"`

	// LowValueScheme is set when a low-value import scheme (IOSS and similar) applied.
	LowValueScheme bool `json:"low_value_scheme"`
	// VATIncluded marks VAT as collected at point of sale: disclosed, not added to TotalTax.
	VATIncluded bool `json:"vat_included"`
	// Unsupported marks a destination without tax configuration.
	Unsupported bool            `json:"unsupported,omitempty"`
	Exemptions  []ExemptionRule `json:"exemptions,omitempty"`
}

// ShippingPackage is the aggregated parcel the logistics recommender scores options for.
type ShippingPackage struct {
	WeightKg      float64         `json:"weight_kg"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	Currency      string          `json:"currency"`
	Dimensions    Dimensions      `json:"dimensions"`
	Destination   string          `json:"destination"`
}

// Dimensions are package measurements in centimeters.
type Dimensions struct {
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// ShippingOption is one scored carrier service.
type ShippingOption struct {
	Provider         string          `json:"provider"`
	Service          string          `json:"service"`
	DisplayName      string          `json:"display_name"`
	Cost             decimal.Decimal `json:"cost"`
	Currency         string          `json:"currency"`
	MinTransitDays   int             `json:"min_transit_days"`
	MaxTransitDays   int             `json:"max_transit_days"`
	Tracking         bool            `json:"tracking"`
	Insurance        bool            `json:"insurance"`
	DDP              bool            `json:"ddp"`
	BillableWeightKg float64         `json:"billable_weight_kg"`
	Score            float64         `json:"score"`
	Recommended      bool            `json:"recommended"`
}

// Destination is the ship-to address of a quote.
type Destination struct {
	CountryCode  string `json:"country_code"`
	ProvinceCode string `json:"province_code,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Preferences are the merchant switches controlling tax regimes and logistics scoring.
type Preferences struct {
	DDPPreferred          bool   `json:"ddp_preferred"`
	UseLowValueScheme     bool   `json:"use_low_value_scheme"`
	PrioritizeCost        bool   `json:"prioritize_cost"`
	PrioritizeSpeed       bool   `json:"prioritize_speed"`
	PrioritizeReliability bool   `json:"prioritize_reliability"`
	PreferredProvider     string `json:"preferred_provider,omitempty"`
	PreferredService      string `json:"preferred_service,omitempty"`
}

// CartItem is one line of the incoming cart.
type CartItem struct {
	ID        string            `json:"id,omitempty"`
	Quantity  int               `json:"quantity"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Currency  string            `json:"currency"`
	WeightKg  float64           `json:"weight_kg"`
	HSCode    string            `json:"hs_code,omitempty"`
	Product   ProductDescriptor `json:"product"`
}

// QuoteRequest is the full input of the quote orchestrator.
type QuoteRequest struct {
	Items       []CartItem  `json:"items"`
	Destination Destination `json:"destination"`
	Preferences Preferences `json:"preferences"`
	Package     *Dimensions `json:"package,omitempty"`
}

// TaxComponent is one named line of the taxes section of a quote.
type TaxComponent struct {
	Name           string          `json:"name"`
	Type           TaxType         `json:"type"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	LowValueScheme bool            `json:"low_value_scheme"`
	Included       bool            `json:"included"`
}

// QuoteLine ties a cart line to its classification and tax breakdown.
type QuoteLine struct {
	LineID         string           `json:"line_id"`
	Classification HSClassification `json:"classification"`
	Substituted    bool             `json:"substituted"`
	Tax            TaxBreakdown     `json:"tax"`
}

// QuoteSummary combines the order totals into an estimated landed cost.
type QuoteSummary struct {
	Currency             string          `json:"currency"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	TotalTax             decimal.Decimal `json:"total_tax"`
	RecommendedLogistics *ShippingOption `json:"recommended_logistics,omitempty"`
	LogisticsCost        decimal.Decimal `json:"logistics_cost"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
}

// Quote is the externally visible result of one quote request.
type Quote struct {
	ID             uuid.UUID        `json:"quote_id"`
	Status         QuoteStatus      `json:"status"`
	CatalogVersion string           `json:"catalog_version,omitempty"`
	Destination    Destination      `json:"destination"`
	Taxes          []TaxComponent   `json:"taxes"`
	OrderTax       TaxBreakdown     `json:"order_tax"`
	Lines          []QuoteLine      `json:"lines"`
	Logistics      []ShippingOption `json:"logistics"`
	Summary        QuoteSummary     `json:"summary"`
}

// EmptyQuote returns the degraded quote sent alongside a failure.
func EmptyQuote(dest Destination) *Quote {
	return &Quote{
		Status:      QuoteStatusFailed,
		Destination: dest,
		Taxes:       []TaxComponent{},
		Lines:       []QuoteLine{},
		Logistics:   []ShippingOption{},
		Summary:     QuoteSummary{},
	}
}
