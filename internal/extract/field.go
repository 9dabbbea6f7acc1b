package extract

import (
	"regexp"
	"strings"

	"matchdata-scraper/internal/model"
)

// ExtractField applies a single-capture-group pattern across lines and returns the
// trimmed capture, or model.NotAvailable. An invalid pattern also yields NotAvailable.
func ExtractField(pattern, text string) string {
	re, err := regexp.Compile("(?s)" + pattern)
	if err != nil {
		return model.NotAvailable
	}
	return MatchField(re, text)
}

// MatchField is ExtractField for a precompiled pattern.
func MatchField(re *regexp.Regexp, text string) string {
	if re == nil {
		return model.NotAvailable
	}
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return model.NotAvailable
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return model.NotAvailable
	}
	return value
}
