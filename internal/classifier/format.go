package classifier

import (
	"fmt"
	"strings"
)

// withdrawnChapters are two-digit HS chapters not in use.
var withdrawnChapters = map[string]bool{
	"77": true, // reserved for future use
}

// chapters is the closed set of recognized HS chapters: 01-97 minus withdrawn ones.
var chapters = func() map[string]bool {
	m := make(map[string]bool, 96)
	for i := 1; i <= 97; i++ {
		ch := fmt.Sprintf("%02d", i)
		if !withdrawnChapters[ch] {
			m[ch] = true
		}
	}
	return m
}()

// CanonicalCode strips the dots and spaces commonly used when printing HS codes.
func CanonicalCode(code string) string {
	return strings.NewReplacer(".", "", " ", "").Replace(strings.TrimSpace(code))
}

// checkFormat validates shape and chapter. It returns the canonical code, its
// chapter and an empty reason when valid.
func checkFormat(raw string) (code, chapter, reason string) {
	code = CanonicalCode(raw)
	if code == "" {
		return code, "", "HS code is empty"
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return code, "", "HS code must contain digits only"
		}
	}
	if len(code) < 4 || len(code) > 10 {
		return code, "", fmt.Sprintf("HS code must be 4-10 digits, got %d", len(code))
	}
	chapter = code[:2]
	if !chapters[chapter] {
		return code, "", fmt.Sprintf("chapter %s is not a recognized HS chapter", chapter)
	}
	return code, chapter, ""
}

// IsValidFormat reports whether code is 4-10 digits with a recognized chapter.
func IsValidFormat(code string) bool {
	_, _, reason := checkFormat(code)
	return reason == ""
}

// FormatReason returns why code is malformed, or "" when it is well formed.
func FormatReason(code string) string {
	_, _, reason := checkFormat(code)
	return reason
}
