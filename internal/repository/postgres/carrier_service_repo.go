package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

type carrierServiceRepo struct {
	db *sqlx.DB
}

// NewCarrierServiceRepo creates a new PostgreSQL-backed CarrierServiceRepository.
func NewCarrierServiceRepo(db *sqlx.DB) port.CarrierServiceRepository {
	return &carrierServiceRepo{db: db}
}

type carrierServiceRow struct {
	Provider       string          `db:"provider"`
	Service        string          `db:"service"`
	DisplayName    string          `db:"display_name"`
	BaseCost       decimal.Decimal `db:"base_cost"`
	PerKgCost      decimal.Decimal `db:"per_kg_cost"`
	MinTransitDays int             `db:"min_transit_days"`
	MaxTransitDays int             `db:"max_transit_days"`
	MaxWeightKg    float64         `db:"max_weight_kg"`
	MaxLengthCm    float64         `db:"max_length_cm"`
	Reliability    float64         `db:"reliability"`
	Tracking       bool            `db:"tracking"`
	Insurance      bool            `db:"insurance"`
	DDP            bool            `db:"ddp"`
	Countries      string          `db:"countries"`
}

func (r *carrierServiceRepo) LoadAll(ctx context.Context) ([]domain.CarrierService, error) {
	var rows []carrierServiceRow
	// countries is text[]; it is flattened here so the row scans through
	// database/sql without a driver-specific array type.
	err := r.db.SelectContext(ctx, &rows,
		`SELECT provider, service, display_name, base_cost, per_kg_cost,
		        min_transit_days, max_transit_days, max_weight_kg, max_length_cm,
		        reliability, tracking, insurance, ddp,
		        COALESCE(array_to_string(countries, ','), '') AS countries
		 FROM shipping_services
		 WHERE active
		 ORDER BY provider, service`)
	if err != nil {
		return nil, fmt.Errorf("carrierServiceRepo.LoadAll: %w", err)
	}

	out := make([]domain.CarrierService, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, domain.CarrierService{
			Provider:       row.Provider,
			Service:        row.Service,
			DisplayName:    row.DisplayName,
			BaseCost:       row.BaseCost,
			PerKgCost:      row.PerKgCost,
			MinTransitDays: row.MinTransitDays,
			MaxTransitDays: row.MaxTransitDays,
			MaxWeightKg:    row.MaxWeightKg,
			MaxLengthCm:    row.MaxLengthCm,
			Reliability:    row.Reliability,
			Tracking:       row.Tracking,
			Insurance:      row.Insurance,
			DDP:            row.DDP,
			Countries:      splitCountries(row.Countries),
		})
	}
	return out, nil
}

func splitCountries(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
