package quoteexport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatRate(v decimal.Decimal) string {
	return v.StringFixed(4)
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the download name for a quote export.
// Format: quote_{destination}_{first 8 chars of the quote id}.{ext}
func BuildFilename(id uuid.UUID, destination, ext string) string {
	short := strings.ReplaceAll(id.String(), "-", "")[:8]
	name := SanitizeFilename(fmt.Sprintf("quote_%s_%s", strings.ToLower(destination), short))
	return name + "." + ext
}
