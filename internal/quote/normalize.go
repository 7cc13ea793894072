package quote

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceDollarRe = regexp.MustCompile(`[\s$]`)
	nonNumericRe  = regexp.MustCompile(`[^0-9.]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// NormalizeAmount converts a money-like string to a float64. Page extraction
// reflows can inject stray spaces inside a number (a value crossing a line
// wrap), so the parser is tolerant rather than strict: whitespace and currency
// markers are stripped, every comma is treated as a thousands separator, and a
// last-resort pass keeps only digits and the decimal point. Unparseable input
// yields 0.0; this function never fails.
func NormalizeAmount(text string) float64 {
	if text == "" {
		return 0.0
	}
	cleaned := spaceDollarRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v
	}
	cleaned = nonNumericRe.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// NormalizePercent parses a percentage string like "12.5%". Returns 0.0 for
// empty or unparseable input.
func NormalizePercent(text string) float64 {
	if text == "" {
		return 0.0
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "%", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// CleanWhitespace collapses all runs of whitespace (including line breaks) to
// single spaces and trims the result.
func CleanWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// FindBetween returns the text strictly between the first occurrence of start
// and the first occurrence of end found after it. A missing start marker
// yields ""; a missing end marker yields everything from start to the end of
// the text. Quote documents always contain section openers, but the final
// section's closer is sometimes truncated by page-extraction artifacts, hence
// the asymmetry.
func FindBetween(text, start, end string) string {
	s := strings.Index(text, start)
	if s == -1 {
		return ""
	}
	from := s + len(start)
	e := strings.Index(text[from:], end)
	if e == -1 {
		return text[from:]
	}
	return text[from : from+e]
}

// extractKeyValue pulls the value following "key:" in a line, for lines of the
// "Bill To: Acme Corp" form. Returns "" when the key is absent.
func extractKeyValue(line, key string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `\s*:\s*(.+)`)
	m := re.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
