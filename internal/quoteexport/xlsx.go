package quoteexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"crossquote/internal/domain"
)

const (
	sheetLines     = "Lines"
	sheetTaxes     = "Taxes"
	sheetLogistics = "Logistics"
	sheetSummary   = "Summary"
)

var taxColumns = []string{"Name", "Type", "Rate", "Amount", "Low Value Scheme", "Included", "Description"}

var logisticsColumns = []string{
	"Provider", "Service", "Display Name", "Cost", "Currency", "Min Days", "Max Days",
	"Billable Weight (kg)", "DDP", "Tracking", "Insurance", "Score", "Recommended",
}

// WriteWorkbook renders q as an XLSX workbook with one sheet per quote section.
func WriteWorkbook(w io.Writer, q *domain.Quote) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetLines); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{sheetTaxes, sheetLogistics, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	lines := [][]string{lineColumns}
	for i := range q.Lines {
		lines = append(lines, lineToRow(&q.Lines[i]))
	}
	if err := writeRows(f, sheetLines, lines); err != nil {
		return err
	}

	taxes := [][]string{taxColumns}
	for _, c := range q.Taxes {
		taxes = append(taxes, []string{
			c.Name, string(c.Type), formatRate(c.Rate), formatMoney(c.Amount),
			formatBool(c.LowValueScheme), formatBool(c.Included), c.Description,
		})
	}
	if err := writeRows(f, sheetTaxes, taxes); err != nil {
		return err
	}

	options := [][]string{logisticsColumns}
	for i := range q.Logistics {
		o := &q.Logistics[i]
		options = append(options, []string{
			o.Provider, o.Service, o.DisplayName, formatMoney(o.Cost), o.Currency,
			fmt.Sprint(o.MinTransitDays), fmt.Sprint(o.MaxTransitDays),
			formatConfidence(o.BillableWeightKg), formatBool(o.DDP), formatBool(o.Tracking),
			formatBool(o.Insurance), fmt.Sprintf("%.4f", o.Score), formatBool(o.Recommended),
		})
	}
	if err := writeRows(f, sheetLogistics, options); err != nil {
		return err
	}

	if err := writeRows(f, sheetSummary, summaryRows(q)); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
