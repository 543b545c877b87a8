package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

const batchSize = 500

// writeSeed emits one transaction of idempotent batched INSERTs covering
// every catalog table.
func writeSeed(out io.Writer, snap *domain.CatalogSnapshot) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "-- Catalog seed %s generated by cmd/seedhs.\n", snap.Version)
	fmt.Fprintf(w, "-- %d HS codes, %d keywords, %d jurisdictions, %d services.\n",
		len(snap.HSCodes), len(snap.Keywords), len(snap.Jurisdictions), len(snap.Services))
	w.WriteString("BEGIN;\n\n")

	codeRows := make([]string, 0, len(snap.HSCodes))
	for i := range snap.HSCodes {
		e := &snap.HSCodes[i]
		codeRows = append(codeRows, fmt.Sprintf("(%s, %s, %s, %s, %s)",
			quote(e.Code), quote(e.Description), quote(e.Category),
			nullDecimal(e.DutyRateHint), nullDecimal(e.VATRateHint)))
	}
	writeBatches(w, "hs_codes (code, description, category, duty_rate_hint, vat_rate_hint)", codeRows)

	kwRows := make([]string, 0, len(snap.Keywords))
	for _, k := range snap.Keywords {
		kwRows = append(kwRows, fmt.Sprintf("(%s, %s)", quote(k.Keyword), quote(k.Code)))
	}
	writeBatches(w, "hs_keywords (keyword, code)", kwRows)

	catRows := make([]string, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		catRows = append(catRows, fmt.Sprintf("(%s, %s)", quote(c.Category), quote(c.Code)))
	}
	writeBatches(w, "hs_categories (category, code)", catRows)

	jRows := make([]string, 0, len(snap.Jurisdictions))
	for i := range snap.Jurisdictions {
		row, err := jurisdictionRow(&snap.Jurisdictions[i])
		if err != nil {
			return err
		}
		jRows = append(jRows, row)
	}
	writeBatches(w, "tax_jurisdictions (country_code, name, currency, tax_name, standard_vat_rate, "+
		"reduced_rates, duty_rates, duty_free_threshold, vat_free_threshold, de_minimis_duty, "+
		"low_value_scheme_name, low_value_scheme_threshold, vat_on_duty_inclusive)", jRows)

	sRows := make([]string, 0, len(snap.Services))
	for i := range snap.Services {
		sRows = append(sRows, serviceRow(&snap.Services[i]))
	}
	writeBatches(w, "shipping_services (provider, service, display_name, base_cost, per_kg_cost, "+
		"min_transit_days, max_transit_days, max_weight_kg, max_length_cm, reliability, "+
		"tracking, insurance, ddp, countries)", sRows)

	w.WriteString("COMMIT;\n")
	return w.Flush()
}

func writeBatches(w *bufio.Writer, target string, rows []string) {
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		fmt.Fprintf(w, "INSERT INTO %s VALUES\n  %s\nON CONFLICT DO NOTHING;\n\n",
			target, strings.Join(rows[i:end], ",\n  "))
	}
}

func jurisdictionRow(j *domain.Jurisdiction) (string, error) {
	reduced, err := rateJSON(j.ReducedRates)
	if err != nil {
		return "", fmt.Errorf("jurisdiction %s reduced rates: %w", j.CountryCode, err)
	}
	duty, err := rateJSON(j.DutyRates)
	if err != nil {
		return "", fmt.Errorf("jurisdiction %s duty rates: %w", j.CountryCode, err)
	}
	lvsName, lvsThreshold := "NULL", "NULL"
	if j.LowValueScheme != nil {
		lvsName = quote(j.LowValueScheme.Name)
		lvsThreshold = j.LowValueScheme.Threshold.String()
	}
	return fmt.Sprintf("(%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %t)",
		quote(j.CountryCode), quote(j.Name), quote(j.Currency), quote(j.TaxName),
		j.StandardVATRate.String(), reduced, duty,
		decimalPtr(j.DutyFreeThreshold), decimalPtr(j.VATFreeThreshold), decimalPtr(j.DeMinimisDuty),
		lvsName, lvsThreshold, j.VATOnDutyInclusive), nil
}

func serviceRow(s *domain.CarrierService) string {
	countries := "NULL"
	if len(s.Countries) > 0 {
		quoted := make([]string, len(s.Countries))
		for i, c := range s.Countries {
			quoted[i] = quote(c)
		}
		countries = "ARRAY[" + strings.Join(quoted, ", ") + "]"
	}
	return fmt.Sprintf("(%s, %s, %s, %s, %s, %d, %d, %g, %g, %g, %t, %t, %t, %s)",
		quote(s.Provider), quote(s.Service), quote(s.DisplayName),
		s.BaseCost.String(), s.PerKgCost.String(),
		s.MinTransitDays, s.MaxTransitDays, s.MaxWeightKg, s.MaxLengthCm, s.Reliability,
		s.Tracking, s.Insurance, s.DDP, countries)
}

func rateJSON(m map[string]decimal.Decimal) (string, error) {
	if len(m) == 0 {
		return "'{}'::jsonb", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return quote(string(b)) + "::jsonb", nil
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return "NULL"
	}
	return d.Decimal.String()
}

func decimalPtr(d *decimal.Decimal) string {
	if d == nil {
		return "NULL"
	}
	return d.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
