package logistics

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

// Config holds the tunable scoring weights.
//
// Each factor starts at BaseWeight; every preference flag set by the caller
// adds PreferenceBoost to its factor. When the caller prefers DDP, DDPBonus
// is added to the score of DDP capable options and every score is divided by
// 1+DDPBonus, so scores stay within [0,1].
type Config struct {
	VolumetricDivisor float64
	BaseWeight        float64
	PreferenceBoost   float64
	DDPBonus          float64
}

// DefaultConfig returns the standard carrier divisor and weights.
func DefaultConfig() Config {
	return Config{VolumetricDivisor: 5000, BaseWeight: 1, PreferenceBoost: 2, DDPBonus: 0.15}
}

// Recommender ranks shipping options from an immutable carrier catalog.
type Recommender struct {
	cfg      Config
	services []domain.CarrierService
}

// New builds a Recommender. The services slice is copied.
func New(services []domain.CarrierService, cfg Config) *Recommender {
	def := DefaultConfig()
	if cfg.VolumetricDivisor <= 0 {
		cfg.VolumetricDivisor = def.VolumetricDivisor
	}
	if cfg.BaseWeight < 0 {
		cfg.BaseWeight = def.BaseWeight
	}
	if cfg.PreferenceBoost < 0 {
		cfg.PreferenceBoost = def.PreferenceBoost
	}
	if cfg.DDPBonus < 0 {
		cfg.DDPBonus = def.DDPBonus
	}
	return &Recommender{cfg: cfg, services: append([]domain.CarrierService(nil), services...)}
}

// Count returns the number of catalog services.
func (r *Recommender) Count() int { return len(r.services) }

// VolumetricWeight is length x width x height / divisor, dimensions in cm.
func VolumetricWeight(d domain.Dimensions, divisor float64) float64 {
	if divisor <= 0 {
		return 0
	}
	return d.LengthCm * d.WidthCm * d.HeightCm / divisor
}

// BillableWeight is the greater of actual and volumetric weight.
func BillableWeight(actualKg float64, d domain.Dimensions, divisor float64) float64 {
	return math.Max(actualKg, VolumetricWeight(d, divisor))
}

type candidate struct {
	svc      *domain.CarrierService
	cost     decimal.Decimal
	costF    float64
	transitF float64
}

// Recommend filters the catalog for pkg, scores the survivors and returns them
// best first with the top entry marked recommended. An empty slice means no
// service can carry the package to its destination.
func (r *Recommender) Recommend(pkg domain.ShippingPackage, prefs domain.Preferences) []domain.ShippingOption {
	billable := BillableWeight(pkg.WeightKg, pkg.Dimensions, r.cfg.VolumetricDivisor)
	longest := math.Max(pkg.Dimensions.LengthCm, math.Max(pkg.Dimensions.WidthCm, pkg.Dimensions.HeightCm))
	country := strings.ToUpper(pkg.Destination)
	billableDec := decimal.NewFromFloat(billable).Round(3)

	var cands []candidate
	for i := range r.services {
		svc := &r.services[i]
		if !svc.Supports(country) {
			continue
		}
		if svc.MaxWeightKg > 0 && billable > svc.MaxWeightKg {
			continue
		}
		if svc.MaxLengthCm > 0 && longest > svc.MaxLengthCm {
			continue
		}
		cost := svc.BaseCost.Add(svc.PerKgCost.Mul(billableDec)).Round(2)
		costF, _ := cost.Float64()
		cands = append(cands, candidate{
			svc:      svc,
			cost:     cost,
			costF:    costF,
			transitF: float64(svc.MinTransitDays+svc.MaxTransitDays) / 2,
		})
	}
	if len(cands) == 0 {
		return []domain.ShippingOption{}
	}

	minCost, maxCost := cands[0].costF, cands[0].costF
	minDays, maxDays := cands[0].transitF, cands[0].transitF
	for _, c := range cands[1:] {
		minCost, maxCost = math.Min(minCost, c.costF), math.Max(maxCost, c.costF)
		minDays, maxDays = math.Min(minDays, c.transitF), math.Max(maxDays, c.transitF)
	}

	w := r.weights(prefs)
	out := make([]domain.ShippingOption, 0, len(cands))
	for _, c := range cands {
		factors := []float64{
			lowerIsBetter(c.costF, minCost, maxCost),
			lowerIsBetter(c.transitF, minDays, maxDays),
			clamp01(c.svc.Reliability),
		}
		score := weightedAverage(factors, w)
		if prefs.DDPPreferred {
			// Rescaled so the bonus keeps the score within [0,1].
			if c.svc.DDP {
				score += r.cfg.DDPBonus
			}
			score = clamp01(score / (1 + r.cfg.DDPBonus))
		}
		out = append(out, domain.ShippingOption{
			Provider:         c.svc.Provider,
			Service:          c.svc.Service,
			DisplayName:      c.svc.DisplayName,
			Cost:             c.cost,
			Currency:         pkg.Currency,
			MinTransitDays:   c.svc.MinTransitDays,
			MaxTransitDays:   c.svc.MaxTransitDays,
			Tracking:         c.svc.Tracking,
			Insurance:        c.svc.Insurance,
			DDP:              c.svc.DDP,
			BillableWeightKg: math.Round(billable*1000) / 1000,
			Score:            math.Round(score*1e4) / 1e4,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Cost.Equal(b.Cost) {
			return a.Cost.LessThan(b.Cost)
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.Service < b.Service
	})
	out[0].Recommended = true
	return out
}

// weights returns the cost, speed and reliability weights for prefs.
func (r *Recommender) weights(prefs domain.Preferences) []float64 {
	boost := func(on bool) float64 {
		if on {
			return r.cfg.BaseWeight + r.cfg.PreferenceBoost
		}
		return r.cfg.BaseWeight
	}
	return []float64{boost(prefs.PrioritizeCost), boost(prefs.PrioritizeSpeed), boost(prefs.PrioritizeReliability)}
}

// Select returns the option matching provider and (when set) service.
func Select(options []domain.ShippingOption, provider, service string) (*domain.ShippingOption, bool) {
	if provider == "" {
		return nil, false
	}
	for i := range options {
		o := &options[i]
		if !strings.EqualFold(o.Provider, provider) {
			continue
		}
		if service == "" || strings.EqualFold(o.Service, service) {
			return o, true
		}
	}
	return nil, false
}

// Recommended returns the option marked recommended, if any.
func Recommended(options []domain.ShippingOption) (*domain.ShippingOption, bool) {
	for i := range options {
		if options[i].Recommended {
			return &options[i], true
		}
	}
	return nil, false
}

// lowerIsBetter maps v into [0,1] where the minimum scores 1. A degenerate
// range scores every candidate 1.
func lowerIsBetter(v, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 1
	}
	return (hi - v) / (hi - lo)
}

func weightedAverage(scores, weights []float64) float64 {
	if len(scores) == 0 || len(scores) != len(weights) {
		return 0
	}
	var sum, weightSum float64
	for i, s := range scores {
		sum += s * weights[i]
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
