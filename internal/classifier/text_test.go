package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"laptop", "laptop", 0},
		{"headphnes", "headphones", 1},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein(tt.b, tt.a), "symmetry %q vs %q", tt.b, tt.a)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 1.0, similarity("mug", "mug"))
	assert.InDelta(t, 0.9, similarity("headphnes", "headphones"), 1e-9)
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "creme brulee torch", normalizeText("  Crème   BRÛLÉE\tTorch "))
	assert.Equal(t, "", normalizeText("   "))
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, containsPhrase("smart tv 55 inch", "smart tv"))
	assert.True(t, containsPhrase("a t-shirt", "t-shirt"))
	assert.False(t, containsPhrase("outvote", "tv"))
	assert.False(t, containsPhrase("earrings", "ring"))
	assert.True(t, containsPhrase("ring, gold", "ring"))
	assert.False(t, containsPhrase("anything", ""))
}

func TestKeywordDensityRule(t *testing.T) {
	m, ok := keywordDensityRule([]string{"wooden", "kitchen", "shelf", "oak"})
	assert.True(t, ok)
	assert.Equal(t, "home", m.family)
	assert.Equal(t, "9403", m.code)
	assert.InDelta(t, 0.75, m.density, 1e-9)

	_, ok = keywordDensityRule([]string{"leather", "oak", "pine", "maple"})
	assert.False(t, ok, "density of exactly 0.25 must not pass")

	_, ok = keywordDensityRule(nil)
	assert.False(t, ok)
}
