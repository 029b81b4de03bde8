package pick

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	MinOdds = 100
	MaxOdds = 20000

	MinPickTextLen = 4
	MaxPickTextLen = 49
)

// SanitizeOdds returns nil unless the value is a plausible American price.
func SanitizeOdds(v int) *int {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs < MinOdds || abs > MaxOdds {
		return nil
	}
	out := v
	return &out
}

// ParseOdds accepts "-110", "+150", "(−120)" and similar. Unparseable or
// implausible values yield nil.
func ParseOdds(raw string) *int {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '−' || r == '–':
			return '-'
		case r == '+' || r == '-' || unicode.IsDigit(r):
			return r
		case r == '.':
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(raw))
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	if value != math.Trunc(value) {
		return nil
	}
	return SanitizeOdds(int(value))
}

// SanitizeUnit rounds to two places and rejects negative values.
func SanitizeUnit(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return &rounded
}

// ParseUnit keeps the digits and decimal point of raw ("2u", "1.5 units")
// and rounds to two places.
func ParseUnit(raw string) *float64 {
	var b strings.Builder
	seenDot := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	digits := strings.Trim(b.String(), ".")
	if digits == "" {
		return nil
	}
	value, err := decimal.NewFromString(digits)
	if err != nil {
		return nil
	}
	rounded, _ := value.Round(2).Float64()
	return SanitizeUnit(rounded)
}

// ValidPickText reports whether text has a plausible length for a pick.
func ValidPickText(text string) bool {
	n := len([]rune(strings.TrimSpace(text)))
	return n >= MinPickTextLen && n <= MaxPickTextLen
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
