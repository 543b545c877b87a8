package classifier

// keywordFamily is one feature of the density rule.
type keywordFamily struct {
	name       string
	code       string
	confidence float64
	words      map[string]bool
}

func family(name, code string, confidence float64, words ...string) keywordFamily {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return keywordFamily{name: name, code: code, confidence: confidence, words: m}
}

// densityFamilies are evaluated in order; earlier families win density ties.
var densityFamilies = []keywordFamily{
	family("electronics", "8543", 0.8,
		"electronic", "electronics", "wireless", "bluetooth", "usb", "charger", "charging", "battery",
		"digital", "smart", "led", "cable", "device", "gadget", "speaker", "audio", "screen", "hdmi"),
	family("clothing", "6211", 0.75,
		"cotton", "shirt", "wear", "apparel", "sleeve", "knit", "denim", "wool", "jacket", "fabric",
		"polyester", "fashion", "clothing", "garment", "linen", "silk"),
	family("home", "9403", 0.7,
		"kitchen", "home", "decor", "wooden", "furniture", "bedroom", "living", "room", "lamp",
		"storage", "shelf", "rug", "bathroom", "garden"),
	family("residual", "4202", 0.7,
		"leather", "bag", "case", "strap", "wallet", "travel", "pouch", "accessory", "holder",
		"belt", "keychain", "organizer"),
}

// densityThreshold is the share of tokens a family must exceed to be picked.
const densityThreshold = 0.3

// densityMatch is the outcome of keywordDensityRule.
type densityMatch struct {
	family     string
	code       string
	confidence float64
	density    float64
	matched    []string
}

// keywordDensityRule is a fixed four-feature linear decision rule: each
// feature is the share of tokens belonging to one keyword family, and the
// family with the highest share above densityThreshold wins.
func keywordDensityRule(tokens []string) (densityMatch, bool) {
	if len(tokens) == 0 {
		return densityMatch{}, false
	}
	var best densityMatch
	found := false
	for i := range densityFamilies {
		f := &densityFamilies[i]
		var hits []string
		for _, tok := range tokens {
			if f.words[tok] {
				hits = append(hits, tok)
			}
		}
		density := float64(len(hits)) / float64(len(tokens))
		if density > densityThreshold && density > best.density {
			best = densityMatch{family: f.name, code: f.code, confidence: f.confidence, density: density, matched: hits}
			found = true
		}
	}
	return best, found
}
