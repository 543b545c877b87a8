package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

// Fingerprint returns a short content hash of the snapshot, ignoring its Version field.
// Equal catalogs always produce equal fingerprints.
func Fingerprint(s *domain.CatalogSnapshot) string {
	cp := *s
	cp.Version = ""
	b, err := json.Marshal(&cp)
	if err != nil {
		return "unversioned"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:6])
}

// Encode serializes a snapshot to indented JSON for object storage.
func Encode(s *domain.CatalogSnapshot) ([]byte, error) {
	if s.Version == "" {
		s.Version = Fingerprint(s)
	}
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses a JSON snapshot, validates it and stamps its version when absent.
func Decode(data []byte) (*domain.CatalogSnapshot, error) {
	var s domain.CatalogSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding catalog snapshot: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	if s.Version == "" {
		s.Version = Fingerprint(&s)
	}
	return &s, nil
}

// Validate checks that every code is well-formed and every keyword or category
// points at a code present in the table (directly or through a shorter prefix).
func Validate(s *domain.CatalogSnapshot) error {
	if len(s.HSCodes) == 0 {
		return errors.New("catalog has no HS codes")
	}
	known := make(map[string]bool, len(s.HSCodes))
	for i := range s.HSCodes {
		c := s.HSCodes[i].Code
		if !isCodeShape(c) {
			return fmt.Errorf("catalog HS code %q: must be 4-10 digits", c)
		}
		known[c] = true
	}
	resolves := func(code string) bool {
		if known[code] {
			return true
		}
		for _, prefixLen := range []int{8, 6, 4} {
			if len(code) > prefixLen && known[code[:prefixLen]] {
				return true
			}
		}
		return false
	}
	for _, k := range s.Keywords {
		if strings.TrimSpace(k.Keyword) == "" {
			return errors.New("catalog keyword is empty")
		}
		if !resolves(k.Code) {
			return fmt.Errorf("catalog keyword %q references unknown code %q", k.Keyword, k.Code)
		}
	}
	for _, c := range s.Categories {
		if !resolves(c.Code) {
			return fmt.Errorf("catalog category %q references unknown code %q", c.Category, c.Code)
		}
	}
	seen := make(map[string]bool, len(s.Jurisdictions))
	for i := range s.Jurisdictions {
		cc := s.Jurisdictions[i].CountryCode
		if len(cc) != 2 {
			return fmt.Errorf("catalog jurisdiction %q: country code must have 2 letters", cc)
		}
		if seen[cc] {
			return fmt.Errorf("catalog jurisdiction %q: duplicate", cc)
		}
		seen[cc] = true
		if err := validateRates(&s.Jurisdictions[i]); err != nil {
			return fmt.Errorf("catalog jurisdiction %q: %w", cc, err)
		}
	}
	for i := range s.Services {
		svc := &s.Services[i]
		if svc.Provider == "" || svc.Service == "" {
			return fmt.Errorf("catalog shipping service %d: provider and service are required", i)
		}
		if svc.MinTransitDays > svc.MaxTransitDays {
			return fmt.Errorf("catalog shipping service %s/%s: min transit exceeds max", svc.Provider, svc.Service)
		}
		if svc.BaseCost.IsNegative() || svc.PerKgCost.IsNegative() {
			return fmt.Errorf("catalog shipping service %s/%s: costs must not be negative", svc.Provider, svc.Service)
		}
		if svc.Reliability < 0 || svc.Reliability > 1 {
			return fmt.Errorf("catalog shipping service %s/%s: reliability %v outside [0,1]", svc.Provider, svc.Service, svc.Reliability)
		}
	}
	return nil
}

func validateRates(j *domain.Jurisdiction) error {
	if j.StandardVATRate.IsNegative() {
		return errors.New("standard VAT rate is negative")
	}
	for code, r := range j.ReducedRates {
		if r.IsNegative() {
			return fmt.Errorf("reduced rate for %s is negative", code)
		}
	}
	for code, r := range j.DutyRates {
		if r.IsNegative() {
			return fmt.Errorf("duty rate for %s is negative", code)
		}
	}
	type threshold struct {
		name  string
		value *decimal.Decimal
	}
	thresholds := []threshold{
		{"duty free threshold", j.DutyFreeThreshold},
		{"VAT free threshold", j.VATFreeThreshold},
		{"de minimis duty", j.DeMinimisDuty},
	}
	if j.LowValueScheme != nil {
		thresholds = append(thresholds, threshold{"low value scheme threshold", &j.LowValueScheme.Threshold})
	}
	for _, t := range thresholds {
		if t.value != nil && t.value.IsNegative() {
			return fmt.Errorf("%s is negative", t.name)
		}
	}
	return nil
}

// Stats counts the entries of a snapshot.
func Stats(s *domain.CatalogSnapshot, source string) domain.CatalogStats {
	return domain.CatalogStats{
		Version:       s.Version,
		Source:        source,
		HSCodes:       len(s.HSCodes),
		Keywords:      len(s.Keywords),
		Categories:    len(s.Categories),
		Jurisdictions: len(s.Jurisdictions),
		Services:      len(s.Services),
	}
}

func isCodeShape(code string) bool {
	if len(code) < 4 || len(code) > 10 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
