package quoteexport

import (
	"encoding/csv"
	"io"
	"strings"

	"crossquote/internal/domain"
)

// BOM is the UTF-8 byte order mark prepended for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// lineColumns defines the per-line header row.
var lineColumns = []string{
	"Line ID",
	"HS Code",
	"Description",
	"Category",
	"Confidence",
	"Source",
	"Substituted",
	"Taxable Base",
	"Duty Rate",
	"Duty",
	"VAT Rate",
	"VAT",
	"VAT Included",
	"Total Tax",
	"Currency",
	"Exemptions",
}

// Writer wraps csv.Writer for exporting quotes as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the line header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(lineColumns)
}

// WriteLines writes one row per quote line.
func (w *Writer) WriteLines(q *domain.Quote) error {
	for i := range q.Lines {
		if err := w.csv.Write(lineToRow(&q.Lines[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes a blank separator row followed by label/value rows for
// the order totals and the chosen shipping option.
func (w *Writer) WriteSummary(q *domain.Quote) error {
	if err := w.csv.Write([]string{}); err != nil {
		return err
	}
	for _, row := range summaryRows(q) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteQuote writes the header, the lines and the summary.
func (w *Writer) WriteQuote(q *domain.Quote) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteLines(q); err != nil {
		return err
	}
	return w.WriteSummary(q)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func lineToRow(l *domain.QuoteLine) []string {
	row := make([]string, len(lineColumns))
	row[0] = l.LineID
	row[1] = l.Classification.Code
	row[2] = l.Classification.Description
	row[3] = l.Classification.Category
	row[4] = formatConfidence(l.Classification.Confidence)
	row[5] = string(l.Classification.Source)
	row[6] = formatBool(l.Substituted)
	row[7] = formatMoney(l.Tax.TaxableBase)
	row[8] = formatRate(l.Tax.DutyRate)
	row[9] = formatMoney(l.Tax.Duty)
	row[10] = formatRate(l.Tax.VATRate)
	row[11] = formatMoney(l.Tax.VAT)
	row[12] = formatBool(l.Tax.VATIncluded)
	row[13] = formatMoney(l.Tax.TotalTax)
	row[14] = l.Tax.Currency
	row[15] = formatExemptions(l.Tax.Exemptions)
	return row
}

func summaryRows(q *domain.Quote) [][]string {
	s := &q.Summary
	rows := [][]string{
		{"Quote ID", q.ID.String()},
		{"Catalog Version", q.CatalogVersion},
		{"Destination", q.Destination.CountryCode},
		{"Currency", s.Currency},
		{"Subtotal", formatMoney(s.Subtotal)},
		{"Total Tax", formatMoney(s.TotalTax)},
		{"Logistics Cost", formatMoney(s.LogisticsCost)},
		{"Grand Total", formatMoney(s.GrandTotal)},
	}
	if opt := s.RecommendedLogistics; opt != nil {
		rows = append(rows, []string{"Shipping", opt.DisplayName})
	}
	return rows
}

func formatExemptions(rules []domain.ExemptionRule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = string(r)
	}
	return strings.Join(parts, ";")
}
