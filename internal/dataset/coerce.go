package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	ptBRPattern    = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})*,\d+$`)
)

// CoerceNumber is the lossy numeric policy: it parses a base-10 float and
// returns 0.0 for empty, non-numeric, NaN and infinite input. Negative
// values pass through. Hex floats and digit underscores are rejected.
//
// A pt-BR decimal comma ("5,5" or "1.234,5") is accepted. "1,234" is
// rejected since it reads as an en-US thousands group just as well.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if !decimalPattern.MatchString(s) {
		var ok bool
		if s, ok = decimalComma(s); !ok {
			return 0
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Finite(f)
}

// Finite maps NaN and ±Inf to 0.0.
func Finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseYear reads a base-10 integer year. Float literals with a zero
// fraction such as "2010.0" are accepted.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, y > 0
	}
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 {
		return 0, false
	}
	return int(f), true
}

// decimalComma rewrites a pt-BR number into base-10 dot notation.
func decimalComma(s string) (string, bool) {
	if !ptBRPattern.MatchString(s) {
		return "", false
	}
	intPart, frac, _ := strings.Cut(s, ",")
	if !strings.Contains(intPart, ".") && len(frac) == 3 {
		return "", false
	}
	return strings.ReplaceAll(intPart, ".", "") + "." + frac, true
}
