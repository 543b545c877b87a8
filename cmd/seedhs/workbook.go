package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"crossquote/internal/classifier"
	"crossquote/internal/domain"
)

const (
	sheetCodes    = "HS_Codes"
	sheetKeywords = "Keywords"
)

func readWorkbook(path string) ([]domain.HSCodeEntry, []domain.KeywordEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseWorkbook(f)
}

// parseWorkbook reads both sheets, skipping the header row. Codes are
// canonicalized to digits; duplicates keep the first occurrence.
func parseWorkbook(f *excelize.File) ([]domain.HSCodeEntry, []domain.KeywordEntry, error) {
	codeRows, err := f.GetRows(sheetCodes)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %s: %w", sheetCodes, err)
	}

	seen := make(map[string]bool)
	var codes []domain.HSCodeEntry
	for i := 1; i < len(codeRows); i++ {
		row := codeRows[i]
		code := classifier.CanonicalCode(cellVal(row, 0))
		if code == "" || seen[code] {
			continue
		}
		if !classifier.IsValidFormat(code) {
			return nil, nil, fmt.Errorf("sheet %s row %d: invalid HS code %q", sheetCodes, i+1, cellVal(row, 0))
		}
		duty, err := rateCell(cellVal(row, 3))
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s row %d duty hint: %w", sheetCodes, i+1, err)
		}
		vat, err := rateCell(cellVal(row, 4))
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s row %d vat hint: %w", sheetCodes, i+1, err)
		}
		seen[code] = true
		codes = append(codes, domain.HSCodeEntry{
			Code:         code,
			Description:  strings.TrimSpace(cellVal(row, 1)),
			Category:     strings.ToLower(strings.TrimSpace(cellVal(row, 2))),
			DutyRateHint: duty,
			VATRateHint:  vat,
		})
	}

	kwRows, err := f.GetRows(sheetKeywords)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %s: %w", sheetKeywords, err)
	}
	var keywords []domain.KeywordEntry
	for i := 1; i < len(kwRows); i++ {
		kw := strings.Join(strings.Fields(strings.ToLower(cellVal(kwRows[i], 0))), " ")
		code := classifier.CanonicalCode(cellVal(kwRows[i], 1))
		if kw == "" || code == "" {
			continue
		}
		keywords = append(keywords, domain.KeywordEntry{Keyword: kw, Code: code})
	}
	return codes, keywords, nil
}

// rateCell accepts "0.19", "19%" or an empty cell.
func rateCell(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	pct := strings.HasSuffix(s, "%")
	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if pct {
		d = d.Div(decimal.NewFromInt(100))
	}
	return decimal.NewNullDecimal(d), nil
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
