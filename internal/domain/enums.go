package domain

// MatchSource records which classification stage produced an HSClassification.
type MatchSource string

const (
	MatchSourceExact     MatchSource = "exact"
	MatchSourceFuzzy     MatchSource = "fuzzy"
	MatchSourceCategory  MatchSource = "category"
	MatchSourceHeuristic MatchSource = "heuristic"
)

// TaxType distinguishes the two import charges a quote discloses.
type TaxType string

const (
	TaxTypeDuty TaxType = "duty"
	TaxTypeVAT  TaxType = "vat"
	// TaxTypeNotice is a zero-amount disclosure line (e.g. unsupported destination).
	TaxTypeNotice TaxType = "notice"
)

// ExemptionRule names a threshold rule that waived or redirected a charge.
type ExemptionRule string

const (
	ExemptionLowValueScheme    ExemptionRule = "low_value_scheme"
	ExemptionDeMinimis         ExemptionRule = "de_minimis"
	ExemptionDutyFreeThreshold ExemptionRule = "duty_free_threshold"
	ExemptionVATFreeThreshold  ExemptionRule = "vat_free_threshold"
)

// Coarse product categories shared by the classifier and the duty tables.
const (
	CategoryElectronics   = "electronics"
	CategoryClothing      = "clothing"
	CategoryFootwear      = "footwear"
	CategoryAccessories   = "accessories"
	CategoryHome          = "home"
	CategoryFurniture     = "furniture"
	CategoryBooks         = "books"
	CategoryFood          = "food"
	CategoryToys          = "toys"
	CategoryCosmetics     = "cosmetics"
	CategoryJewelry       = "jewelry"
	CategorySports        = "sports"
	CategoryMiscellaneous = "miscellaneous"
)

// QuoteStatus reports whether a quote was computed or degraded to the empty failure shape.
type QuoteStatus string

const (
	QuoteStatusComplete QuoteStatus = "complete"
	QuoteStatusFailed   QuoteStatus = "failed"
)
