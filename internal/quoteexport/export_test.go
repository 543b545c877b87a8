package quoteexport

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"crossquote/internal/domain"
)

func sampleQuote() *domain.Quote {
	d := decimal.RequireFromString
	opt := domain.ShippingOption{
		Provider: "dhl", Service: "express_worldwide", DisplayName: "DHL Express Worldwide",
		Cost: d("41.20"), Currency: "EUR", MinTransitDays: 2, MaxTransitDays: 4,
		BillableWeightKg: 1.8, DDP: true, Tracking: true, Score: 0.8123, Recommended: true,
	}
	return &domain.Quote{
		ID:             uuid.MustParse("6f1c2a4e-9d3b-5c7a-8e21-4b5d6f7a8c9d"),
		Status:         domain.QuoteStatusComplete,
		CatalogVersion: "abc123.0",
		Destination:    domain.Destination{CountryCode: "DE"},
		Taxes: []domain.TaxComponent{
			{Name: "Import Duty", Type: domain.TaxTypeDuty, Rate: d("0.02"), Amount: d("4.00")},
			{Name: "VAT", Type: domain.TaxTypeVAT, Rate: d("0.19"), Amount: d("38.76")},
		},
		Lines: []domain.QuoteLine{{
			LineID: "sku-1",
			Classification: domain.HSClassification{
				Code: "851712", Description: "Smartphones", Category: "electronics",
				Confidence: 0.95, Source: domain.MatchSourceExact,
			},
			Tax: domain.TaxBreakdown{
				Currency: "EUR", TaxableBase: d("200"), DutyRate: d("0.02"), Duty: d("4"),
				VATRate: d("0.19"), VAT: d("38.76"), TotalTax: d("42.76"),
				Exemptions: []domain.ExemptionRule{domain.ExemptionDeMinimis, domain.ExemptionVATFreeThreshold},
			},
		}},
		Logistics: []domain.ShippingOption{opt},
		Summary: domain.QuoteSummary{
			Currency: "EUR", Subtotal: d("200"), TotalTax: d("42.76"),
			RecommendedLogistics: &opt, LogisticsCost: d("41.20"), GrandTotal: d("283.96"),
		},
	}
}

func TestWriter_WriteQuote(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteQuote(sampleQuote()))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, lineColumns, rows[0])

	line := rows[1]
	assert.Equal(t, "sku-1", line[0])
	assert.Equal(t, "851712", line[1])
	assert.Equal(t, "0.95", line[4])
	assert.Equal(t, "No", line[6])
	assert.Equal(t, "200.00", line[7])
	assert.Equal(t, "0.0200", line[8])
	assert.Equal(t, "38.76", line[11])
	assert.Equal(t, "de_minimis;vat_free_threshold", line[15])

	summary := map[string]string{}
	for _, row := range rows[2:] {
		if len(row) == 2 {
			summary[row[0]] = row[1]
		}
	}
	assert.Equal(t, "283.96", summary["Grand Total"])
	assert.Equal(t, "DHL Express Worldwide", summary["Shipping"])
	assert.Equal(t, "abc123.0", summary["Catalog Version"])
}

func TestWriter_EmptyQuote(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteQuote(domain.EmptyQuote(domain.Destination{CountryCode: "FR"})))
	w.Flush()

	assert.Contains(t, buf.String(), "Line ID,HS Code")
	assert.Contains(t, buf.String(), "Grand Total,0.00")
	assert.NotContains(t, buf.String(), "Shipping,")
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleQuote()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheetLines, sheetTaxes, sheetLogistics, sheetSummary}, f.GetSheetList())

	lines, err := f.GetRows(sheetLines)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "851712", lines[1][1])

	taxes, err := f.GetRows(sheetTaxes)
	require.NoError(t, err)
	require.Len(t, taxes, 3)
	assert.Equal(t, "38.76", taxes[2][3])

	options, err := f.GetRows(sheetLogistics)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "dhl", options[1][0])
	assert.Equal(t, "Yes", options[1][12])

	grand, err := f.GetCellValue(sheetSummary, "B8")
	require.NoError(t, err)
	assert.Equal(t, "283.96", grand)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Simple Name", "Simple_Name"},
		{"quote/de:2025", "quote_de_2025"},
		{"__leading__", "leading"},
		{"a  b", "a_b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.input), tt.input)
	}
}

func TestBuildFilename(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-9d3b-5c7a-8e21-4b5d6f7a8c9d")
	assert.Equal(t, "quote_de_6f1c2a4e.csv", BuildFilename(id, "DE", "csv"))
	assert.Equal(t, "quote_6f1c2a4e.xlsx", BuildFilename(id, "", "xlsx"))
}
