package document

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespace     = regexp.MustCompile(`\s+`)
	commaGrouped   = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	dotGrouped     = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)
	notDigitOrDot  = regexp.MustCompile(`[^0-9.]`)
)

// Normalize converts a locale-ambiguous numeric string into a float.
// OCR output mixes thousand separators and decimal separators freely:
// "4,000.00", "4.000,00" and "4000,00" all mean four thousand. Garbage
// and empty input yield 0; Normalize never fails.
func Normalize(raw string) float64 {
	v := whitespace.ReplaceAllString(raw, "")
	if v == "" {
		return 0
	}

	switch {
	case commaGrouped.MatchString(v):
		v = strings.ReplaceAll(v, ",", "")
	case dotGrouped.MatchString(v):
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	case strings.Contains(v, ",") && !strings.Contains(v, "."):
		v = strings.Replace(v, ",", ".", 1)
	}

	v = notDigitOrDot.ReplaceAllString(v, "")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeAny applies Normalize to any JSON scalar. Extraction
// responses carry amounts as strings or numbers depending on revision.
func NormalizeAny(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		return Normalize(t)
	}
	return 0
}
