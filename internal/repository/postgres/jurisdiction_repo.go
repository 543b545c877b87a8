package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

type jurisdictionRepo struct {
	db *sqlx.DB
}

// NewJurisdictionRepo creates a new PostgreSQL-backed JurisdictionRepository.
func NewJurisdictionRepo(db *sqlx.DB) port.JurisdictionRepository {
	return &jurisdictionRepo{db: db}
}

// jurisdictionRow mirrors tax_jurisdictions. The rate maps are stored as jsonb
// objects of category -> decimal string.
type jurisdictionRow struct {
	CountryCode        string              `db:"country_code"`
	Name               string              `db:"name"`
	Currency           string              `db:"currency"`
	TaxName            string              `db:"tax_name"`
	StandardVATRate    decimal.Decimal     `db:"standard_vat_rate"`
	ReducedRates       []byte              `db:"reduced_rates"`
	DutyRates          []byte              `db:"duty_rates"`
	DutyFreeThreshold  decimal.NullDecimal `db:"duty_free_threshold"`
	VATFreeThreshold   decimal.NullDecimal `db:"vat_free_threshold"`
	DeMinimisDuty      decimal.NullDecimal `db:"de_minimis_duty"`
	LVSName            sql.NullString      `db:"low_value_scheme_name"`
	LVSThreshold       decimal.NullDecimal `db:"low_value_scheme_threshold"`
	VATOnDutyInclusive bool                `db:"vat_on_duty_inclusive"`
}

func (r *jurisdictionRepo) LoadAll(ctx context.Context) ([]domain.Jurisdiction, error) {
	var rows []jurisdictionRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT country_code, name, currency, tax_name, standard_vat_rate,
		        reduced_rates, duty_rates, duty_free_threshold, vat_free_threshold,
		        de_minimis_duty, low_value_scheme_name, low_value_scheme_threshold,
		        vat_on_duty_inclusive
		 FROM tax_jurisdictions
		 ORDER BY country_code`)
	if err != nil {
		return nil, fmt.Errorf("jurisdictionRepo.LoadAll: %w", err)
	}

	out := make([]domain.Jurisdiction, 0, len(rows))
	for i := range rows {
		j, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("jurisdictionRepo.LoadAll %s: %w", rows[i].CountryCode, err)
		}
		out = append(out, j)
	}
	return out, nil
}

func (row *jurisdictionRow) toDomain() (domain.Jurisdiction, error) {
	j := domain.Jurisdiction{
		CountryCode:        row.CountryCode,
		Name:               row.Name,
		Currency:           row.Currency,
		TaxName:            row.TaxName,
		StandardVATRate:    row.StandardVATRate,
		DutyFreeThreshold:  nullable(row.DutyFreeThreshold),
		VATFreeThreshold:   nullable(row.VATFreeThreshold),
		DeMinimisDuty:      nullable(row.DeMinimisDuty),
		VATOnDutyInclusive: row.VATOnDutyInclusive,
	}
	var err error
	if j.ReducedRates, err = rateMap(row.ReducedRates); err != nil {
		return j, fmt.Errorf("reduced_rates: %w", err)
	}
	if j.DutyRates, err = rateMap(row.DutyRates); err != nil {
		return j, fmt.Errorf("duty_rates: %w", err)
	}
	if row.LVSName.Valid && row.LVSThreshold.Valid {
		j.LowValueScheme = &domain.LowValueScheme{Name: row.LVSName.String, Threshold: row.LVSThreshold.Decimal}
	}
	return j, nil
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func rateMap(raw []byte) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
