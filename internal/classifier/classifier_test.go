package classifier_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossquote/internal/catalog"
	"crossquote/internal/classifier"
	"crossquote/internal/domain"
)

func newEngine(t *testing.T) *classifier.Engine {
	t.Helper()
	return classifier.New(catalog.Default(), classifier.DefaultConfig())
}

func TestClassify_ExactKeyword(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "iPhone 15"})

	require.NotEmpty(t, got)
	assert.Equal(t, "851712", got[0].Code)
	assert.GreaterOrEqual(t, got[0].Confidence, 0.95)
	assert.Equal(t, domain.MatchSourceExact, got[0].Source)
	assert.Equal(t, []string{"iphone 15"}, got[0].MatchedKeywords)
	assert.Equal(t, domain.CategoryElectronics, got[0].Category)
}

func TestClassify_LongestKeywordWins(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Leather shoes", Description: "classic oxford"})

	require.NotEmpty(t, got)
	assert.Equal(t, "640399", got[0].Code)
	assert.Equal(t, domain.MatchSourceExact, got[0].Source)
}

func TestClassify_KeywordNeedsWordBoundary(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Earrings"})

	require.NotEmpty(t, got)
	assert.Equal(t, "711319", got[0].Code)
	assert.Equal(t, []string{"earrings"}, got[0].MatchedKeywords, "must not match the shorter 'ring' inside 'earrings'")
}

func TestClassify_PluralIsNotAnExactMatch(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "iPhones"})

	require.NotEmpty(t, got)
	assert.Equal(t, "851712", got[0].Code)
	assert.NotEqual(t, domain.MatchSourceExact, got[0].Source, "keywords match whole words only")
	assert.Less(t, got[0].Confidence, 0.95)
}

func TestClassify_AccentsAreFolded(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Café Mug"})

	require.NotEmpty(t, got)
	assert.Equal(t, "691200", got[0].Code)
}

func TestClassify_FuzzyMatch(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Wireles headphnes"})

	require.NotEmpty(t, got)
	assert.Equal(t, "851830", got[0].Code)
	assert.Equal(t, domain.MatchSourceFuzzy, got[0].Source)
	// headphnes -> headphones: distance 1 over 10 runes.
	assert.InDelta(t, 0.9*0.8, got[0].Confidence, 1e-9)
}

func TestClassify_CategoryHint(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Thing", CategoryHint: "Books"})

	require.NotEmpty(t, got)
	assert.Equal(t, "490199", got[0].Code)
	assert.Equal(t, domain.MatchSourceCategory, got[0].Source)
	assert.InDelta(t, 0.6, got[0].Confidence, 1e-9)
	require.NotNil(t, got[0].DutyRateHint)
	assert.True(t, got[0].DutyRateHint.IsZero())
}

func TestClassify_HeuristicDensity(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Wireless bluetooth usb charger"})

	require.NotEmpty(t, got)
	assert.Equal(t, "8543", got[0].Code)
	assert.Equal(t, domain.MatchSourceHeuristic, got[0].Source)
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)
}

func TestClassify_HeuristicUsesSecondaryAttributes(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{
		Name:     "Zylo",
		Material: "cotton",
		Tags:     []string{"apparel", "knit"},
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "6211", got[0].Code)
	assert.InDelta(t, 0.75, got[0].Confidence, 1e-9)
}

func TestClassify_NoMatchFallsBackToMiscellaneous(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{Name: "Untitled gizmo xq7"})

	require.Len(t, got, 1)
	assert.Equal(t, "9600", got[0].Code)
	assert.InDelta(t, 0.3, got[0].Confidence, 1e-9)
	assert.Equal(t, domain.MatchSourceHeuristic, got[0].Source)
}

func TestClassify_RankedDedupedAndCapped(t *testing.T) {
	e := newEngine(t)

	got := e.Classify(domain.ProductDescriptor{
		Name:         "Smartphone laptop headphones camera television book toy",
		CategoryHint: "electronics",
	})

	require.LessOrEqual(t, len(got), 5)
	seen := map[string]bool{}
	for i, c := range got {
		assert.False(t, seen[c.Code], "duplicate code %s", c.Code)
		seen[c.Code] = true
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Confidence, c.Confidence)
		}
	}
}

func TestRecommendedCode(t *testing.T) {
	e := newEngine(t)

	top, ok := e.RecommendedCode(domain.ProductDescriptor{Name: "Yoga mat"})

	require.True(t, ok)
	assert.Equal(t, "950699", top.Code)
}

func TestValidateFormat(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		code    string
		valid   bool
		known   bool
		chapter string
	}{
		{"851712", true, true, "85"},
		{"8517.12", true, true, "85"},
		{"8517 12 00", true, true, "85"},
		{"0101", true, false, "01"},
		{"9701000000", true, false, "97"},
		{"7700", false, false, ""},
		{"9801", false, false, ""},
		{"0012", false, false, ""},
		{"123", false, false, ""},
		{"12345678901", false, false, ""},
		{"85AB12", false, false, ""},
		{"", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("code=%q", tt.code), func(t *testing.T) {
			got := e.ValidateFormat(tt.code)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.known, got.Known)
			assert.Equal(t, tt.chapter, got.Chapter)
			if tt.valid {
				assert.Empty(t, got.Reason)
			} else {
				assert.NotEmpty(t, got.Reason)
			}
			assert.Equal(t, tt.valid, classifier.IsValidFormat(tt.code))
		})
	}
}

func TestValidateFormat_AcceptsEveryChapterExceptWithdrawn(t *testing.T) {
	for ch := 1; ch <= 99; ch++ {
		code := fmt.Sprintf("%02d00", ch)
		want := ch <= 97 && ch != 77
		assert.Equal(t, want, classifier.IsValidFormat(code), code)
	}
}

func TestClassifyCode(t *testing.T) {
	e := newEngine(t)

	t.Run("known prefix", func(t *testing.T) {
		c, err := e.ClassifyCode("8517.12.00")
		require.NoError(t, err)
		assert.Equal(t, "85171200", c.Code)
		assert.Equal(t, 1.0, c.Confidence)
		assert.Equal(t, domain.MatchSourceExact, c.Source)
		assert.Contains(t, c.Description, "cellular")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := e.ClassifyCode("77000")
		assert.True(t, errors.Is(err, domain.ErrInvalidHSCode))
	})
}

func TestRegisterCustomMapping(t *testing.T) {
	e := newEngine(t)

	m, err := e.RegisterCustomMapping(domain.CustomMapping{Keyword: "  Zorblax Widget ", Code: "9503.00", Category: "Toys"})
	require.NoError(t, err)
	assert.Equal(t, "zorblax widget", m.Keyword)
	assert.Equal(t, "950300", m.Code)

	got := e.Classify(domain.ProductDescriptor{Name: "Zorblax widget deluxe"})
	require.NotEmpty(t, got)
	assert.Equal(t, "950300", got[0].Code)
	assert.Equal(t, domain.MatchSourceExact, got[0].Source)

	_, _, _, custom := e.Stats()
	assert.Equal(t, 1, custom)
}

func TestRegisterCustomMapping_NewCode(t *testing.T) {
	e := newEngine(t)

	_, err := e.RegisterCustomMapping(domain.CustomMapping{Keyword: "kayak", Code: "890399", Description: "Pleasure boats"})
	require.NoError(t, err)

	entry, ok := e.Describe("890399")
	require.True(t, ok)
	assert.Equal(t, "Pleasure boats", entry.Description)
	assert.True(t, e.ValidateFormat("890399").Known)
}

func TestRegisterCustomMapping_Rejects(t *testing.T) {
	e := newEngine(t)

	_, err := e.RegisterCustomMapping(domain.CustomMapping{Keyword: "x", Code: "12"})
	assert.True(t, errors.Is(err, domain.ErrInvalidHSCode))

	_, err = e.RegisterCustomMapping(domain.CustomMapping{Keyword: "   ", Code: "950300"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestEngine_ConcurrentClassifyAndRegister(t *testing.T) {
	e := newEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got := e.Classify(domain.ProductDescriptor{Name: "iPhone 15"})
				assert.Equal(t, "851712", got[0].Code)
			}
		}()
		go func(i int) {
			defer wg.Done()
			_, err := e.RegisterCustomMapping(domain.CustomMapping{Keyword: fmt.Sprintf("gadget%d", i), Code: "8543"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	_, _, _, custom := e.Stats()
	assert.Equal(t, 8, custom)
}

func TestClassify_Deterministic(t *testing.T) {
	e := newEngine(t)
	p := domain.ProductDescriptor{Name: "Cotton hoodie", Description: "warm knit sweatshirt", CategoryHint: "clothing"}

	assert.Equal(t, e.Classify(p), e.Classify(p))
}
