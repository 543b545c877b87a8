package classifier

import (
	"crossquote/internal/domain"
)

// codeTable provides in-memory lookups of HS code descriptions and rate hints.
// Lookups fall back from the full code to 8, 6 and 4 digit prefixes.
type codeTable struct {
	byCode map[string]domain.HSCodeEntry
}

func newCodeTable(entries []domain.HSCodeEntry) *codeTable {
	m := make(map[string]domain.HSCodeEntry, len(entries))
	for idx := range entries {
		m[entries[idx].Code] = entries[idx]
	}
	return &codeTable{byCode: m}
}

// lookup returns the entry for code or its longest known prefix.
func (t *codeTable) lookup(code string) (domain.HSCodeEntry, bool) {
	if len(t.byCode) == 0 || code == "" {
		return domain.HSCodeEntry{}, false
	}
	if e, ok := t.byCode[code]; ok {
		return e, true
	}
	for _, prefixLen := range []int{8, 6, 4} {
		if len(code) > prefixLen {
			if e, ok := t.byCode[code[:prefixLen]]; ok {
				return e, true
			}
		}
	}
	return domain.HSCodeEntry{}, false
}

func (t *codeTable) exists(code string) bool {
	_, ok := t.lookup(code)
	return ok
}

// addIfAbsent inserts e unless its exact code is already present.
func (t *codeTable) addIfAbsent(e domain.HSCodeEntry) {
	if _, ok := t.byCode[e.Code]; !ok {
		t.byCode[e.Code] = e
	}
}

func (t *codeTable) len() int { return len(t.byCode) }

// classification builds a fresh HSClassification for code from the table entry.
func (t *codeTable) classification(code string, confidence float64, source domain.MatchSource, matched ...string) domain.HSClassification {
	c := domain.HSClassification{
		Code:       code,
		Confidence: clamp(confidence),
		Source:     source,
	}
	if len(matched) > 0 {
		c.MatchedKeywords = append([]string(nil), matched...)
	}
	if e, ok := t.lookup(code); ok {
		c.Description = e.Description
		c.Category = e.Category
		if e.DutyRateHint.Valid {
			v := e.DutyRateHint.Decimal
			c.DutyRateHint = &v
		}
		if e.VATRateHint.Valid {
			v := e.VATRateHint.Decimal
			c.VATRateHint = &v
		}
	}
	return c
}
