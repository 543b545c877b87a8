package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"crossquote/internal/domain"
)

const (
	merchantConfidence = 1.0
	exactConfidence    = 0.95
	fuzzyWeight        = 0.8
	categoryConfidence = 0.6
	miscConfidence     = 0.3
)

// Config tunes the classification pipeline.
type Config struct {
	FuzzyThreshold float64
	MaxResults     int
	MiscCode       string
}

// DefaultConfig returns the standard classifier settings.
func DefaultConfig() Config {
	return Config{FuzzyThreshold: 0.70, MaxResults: 5, MiscCode: "9600"}
}

// Engine resolves product descriptors to ranked HS code candidates.
//
// The lookup indices are built once from a catalog snapshot. Classification
// takes a read lock; RegisterCustomMapping is the only writer.
type Engine struct {
	cfg Config

	mu          sync.RWMutex
	codes       *codeTable
	keywords    map[string][]string
	keywordList []string
	categories  map[string]string
	custom      int
}

// New builds an Engine from the HS tables of snap.
func New(snap *domain.CatalogSnapshot, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold >= 1 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.MiscCode == "" {
		cfg.MiscCode = def.MiscCode
	}

	e := &Engine{
		cfg:        cfg,
		codes:      newCodeTable(snap.HSCodes),
		keywords:   make(map[string][]string, len(snap.Keywords)),
		categories: make(map[string]string, len(snap.Categories)),
	}
	for _, k := range snap.Keywords {
		e.addKeyword(normalizeText(k.Keyword), k.Code)
	}
	for _, c := range snap.Categories {
		e.categories[normalizeText(c.Category)] = c.Code
	}
	e.codes.addIfAbsent(domain.HSCodeEntry{
		Code:        cfg.MiscCode,
		Description: "Miscellaneous manufactured articles",
		Category:    domain.CategoryMiscellaneous,
	})
	e.sortKeywords()
	return e
}

// addKeyword appends code to the keyword's code list. Callers hold the write lock
// or own the engine exclusively.
func (e *Engine) addKeyword(keyword, code string) bool {
	if keyword == "" {
		return false
	}
	codes, existed := e.keywords[keyword]
	for _, c := range codes {
		if c == code {
			return false
		}
	}
	e.keywords[keyword] = append(codes, code)
	if !existed {
		e.keywordList = append(e.keywordList, keyword)
	}
	return !existed
}

func (e *Engine) sortKeywords() {
	sort.Strings(e.keywordList)
}

// Classify returns up to Config.MaxResults candidates ordered by descending
// confidence. The list is never empty: when nothing matches, the miscellaneous
// code is returned at low confidence.
func (e *Engine) Classify(p domain.ProductDescriptor) []domain.HSClassification {
	e.mu.RLock()
	defer e.mu.RUnlock()

	text := normalizeText(p.Name + " " + p.Description)
	tokens := tokenize(text)

	var candidates []domain.HSClassification
	if c, ok := e.exactMatch(text); ok {
		candidates = append(candidates, c)
	}
	candidates = append(candidates, e.fuzzyMatches(tokens)...)
	if c, ok := e.categoryMatch(p.CategoryHint); ok {
		candidates = append(candidates, c)
	}
	if m, ok := keywordDensityRule(heuristicTokens(p, tokens)); ok {
		candidates = append(candidates, e.codes.classification(m.code, m.confidence, domain.MatchSourceHeuristic, m.matched...))
	}
	if len(candidates) == 0 {
		candidates = append(candidates, e.fallbackLocked())
	}
	return e.rank(candidates)
}

// RecommendedCode returns the top-ranked classification, or false when there is none.
func (e *Engine) RecommendedCode(p domain.ProductDescriptor) (domain.HSClassification, bool) {
	ranked := e.Classify(p)
	if len(ranked) == 0 {
		return domain.HSClassification{}, false
	}
	return ranked[0], true
}

// Fallback returns the miscellaneous classification used when nothing reaches
// the caller's confidence floor.
func (e *Engine) Fallback() domain.HSClassification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fallbackLocked()
}

func (e *Engine) fallbackLocked() domain.HSClassification {
	return e.codes.classification(e.cfg.MiscCode, miscConfidence, domain.MatchSourceHeuristic)
}

// ClassifyCode resolves a merchant-supplied HS code. The code is trusted at full
// confidence once it passes the format check.
func (e *Engine) ClassifyCode(raw string) (domain.HSClassification, error) {
	code, _, reason := checkFormat(raw)
	if reason != "" {
		return domain.HSClassification{}, fmt.Errorf("%w: %s", domain.ErrInvalidHSCode, reason)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.codes.classification(code, merchantConfidence, domain.MatchSourceExact), nil
}

// ValidateFormat checks code syntactically and reports whether the code table knows it.
func (e *Engine) ValidateFormat(raw string) domain.FormatValidation {
	code, chapter, reason := checkFormat(raw)
	v := domain.FormatValidation{Code: code, Valid: reason == "", Chapter: chapter, Reason: reason}
	if v.Valid {
		e.mu.RLock()
		v.Known = e.codes.exists(code)
		e.mu.RUnlock()
	}
	return v
}

// Describe returns the code table entry for code, with prefix fallback.
func (e *Engine) Describe(code string) (domain.HSCodeEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.codes.lookup(CanonicalCode(code))
}

// NormalizeMapping validates m and returns it with the keyword and category
// normalized and the code canonicalized.
func NormalizeMapping(m domain.CustomMapping) (domain.CustomMapping, error) {
	keyword := normalizeText(m.Keyword)
	if keyword == "" {
		return m, domain.NewValidationError("keyword", "keyword is required")
	}
	code, _, reason := checkFormat(m.Code)
	if reason != "" {
		return m, fmt.Errorf("%w: %s", domain.ErrInvalidHSCode, reason)
	}
	return domain.CustomMapping{
		Keyword:     keyword,
		Code:        code,
		Description: strings.TrimSpace(m.Description),
		Category:    normalizeText(m.Category),
	}, nil
}

// RegisterCustomMapping binds a keyword to an HS code. It is serialized against
// all in-flight classifications. The normalized mapping is returned.
func (e *Engine) RegisterCustomMapping(m domain.CustomMapping) (domain.CustomMapping, error) {
	out, err := NormalizeMapping(m)
	if err != nil {
		return m, err
	}
	keyword, code := out.Keyword, out.Code

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.codes.lookup(code); !ok {
		desc := out.Description
		if desc == "" {
			desc = "Custom mapping: " + keyword
		}
		e.codes.addIfAbsent(domain.HSCodeEntry{Code: code, Description: desc, Category: out.Category})
	}
	if e.addKeyword(keyword, code) {
		e.sortKeywords()
	}
	e.custom++
	return out, nil
}

// Stats reports the sizes of the lookup indices.
func (e *Engine) Stats() (codes, keywords, categories, custom int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.codes.len(), len(e.keywords), len(e.categories), e.custom
}

// exactMatch picks the longest keyword that occurs in text on word boundaries.
func (e *Engine) exactMatch(text string) (domain.HSClassification, bool) {
	best := ""
	for _, kw := range e.keywordList {
		if len(kw) > len(best) && containsPhrase(text, kw) {
			best = kw
		}
	}
	if best == "" {
		return domain.HSClassification{}, false
	}
	return e.codes.classification(e.keywords[best][0], exactConfidence, domain.MatchSourceExact, best), true
}

// fuzzyMatches compares every token with every keyword by normalized edit distance.
func (e *Engine) fuzzyMatches(tokens []string) []domain.HSClassification {
	bestSim := make(map[string]float64)
	for _, tok := range tokens {
		if isNumeric(tok) {
			continue
		}
		for _, kw := range e.keywordList {
			sim := similarity(tok, kw)
			if sim > e.cfg.FuzzyThreshold && sim > bestSim[kw] {
				bestSim[kw] = sim
			}
		}
	}
	if len(bestSim) == 0 {
		return nil
	}

	matched := make([]string, 0, len(bestSim))
	for kw := range bestSim {
		matched = append(matched, kw)
	}
	sort.Strings(matched)

	var out []domain.HSClassification
	for _, kw := range matched {
		conf := round4(bestSim[kw] * fuzzyWeight)
		for _, code := range e.keywords[kw] {
			out = append(out, e.codes.classification(code, conf, domain.MatchSourceFuzzy, kw))
		}
	}
	return out
}

func (e *Engine) categoryMatch(hint string) (domain.HSClassification, bool) {
	key := normalizeText(hint)
	if key == "" {
		return domain.HSClassification{}, false
	}
	code, ok := e.categories[key]
	if !ok {
		return domain.HSClassification{}, false
	}
	return e.codes.classification(code, categoryConfidence, domain.MatchSourceCategory), true
}

// rank merges candidates by code keeping the most confident entry, then sorts
// by confidence (code ascending on ties) and truncates.
func (e *Engine) rank(candidates []domain.HSClassification) []domain.HSClassification {
	byCode := make(map[string]int, len(candidates))
	merged := make([]domain.HSClassification, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if idx, ok := byCode[c.Code]; ok {
			if c.Confidence > merged[idx].Confidence {
				merged[idx] = c
			}
			continue
		}
		byCode[c.Code] = len(merged)
		merged = append(merged, c)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].Code < merged[j].Code
	})
	if len(merged) > e.cfg.MaxResults {
		merged = merged[:e.cfg.MaxResults]
	}
	return merged
}

// heuristicTokens widens the token set with the descriptor's secondary attributes.
func heuristicTokens(p domain.ProductDescriptor, base []string) []string {
	extra := normalizeText(strings.Join(append([]string{p.Material, p.Usage}, p.Tags...), " "))
	if extra == "" {
		return base
	}
	return append(append([]string(nil), base...), tokenize(extra)...)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
