// Package calc computes the derived fields of a project record: area from
// length and width, the budget triangle and the schedule triangle.
//
// Every function is pure. Inputs that fail to parse are treated as unknown
// and never surface as errors.
package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/intake/internal/domain"
)

var (
	commaGrouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
	dotGrouped   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
)

// CleanNumber parses a stored numeric value. Strings may use either "." or
// "," as thousands separator; when both appear the last one is the decimal
// mark. Empty strings, "none" and "null" are unknown.
func CleanNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return parseNumberText(t)
	default:
		return parseNumberText(domain.ValueString(t))
	}
}

func parseNumberText(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	switch strings.ToLower(s) {
	case "", "none", "null", "nil":
		return 0, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if commaGrouped.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if dotGrouped.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f without trailing zeros or exponent.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
