package query

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/rpattn/bookmarks/internal/domain"
)

// Coerced is a field value prepared for ordering: numeric when the value
// starts with a number, text otherwise.
type Coerced struct {
	Numeric bool
	Num     float64
	Text    string
}

// Coerce converts a value to numeric form when a leading number can be read
// from it, the way parseFloat does ("10abc" is 10, "abc" stays text).
func Coerce(value domain.Value) Coerced {
	if n, ok := value.Float(); ok && !math.IsNaN(n) {
		return Coerced{Numeric: true, Num: n, Text: value.String()}
	}
	text := value.String()
	if n, ok := parseLeadingFloat(text); ok {
		return Coerced{Numeric: true, Num: n, Text: text}
	}
	return Coerced{Text: text}
}

// parseLeadingFloat reads the longest numeric prefix of s, after leading
// whitespace.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}

	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// out-of-range exponents come back as ±Inf or 0
		if errors.Is(err, strconv.ErrRange) {
			return n, true
		}
		return 0, false
	}
	return n, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
