package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseLenientNumber extracts a number from a raw cell value.
//
// Grammar for strings: optional surrounding whitespace, optional sign, digits with a
// single '.' or ',' decimal separator, then any trailing text which is ignored
// ("12,5 kg" -> 12.5, "-3.2%" -> -3.2). Values without a leading numeric token,
// nil, NaN and infinities are reported as absent.
func ParseLenientNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool, time.Time:
		return 0, false
	case string:
		return parseNumericToken(v)
	case []byte:
		return parseNumericToken(string(v))
	case interface{ String() string }:
		return parseNumericToken(v.String())
	default:
		return 0, false
	}
}

// IsStrictNumber reports whether raw is a number with no trailing text.
// Type detection uses it so that codes like "12A" stay categorical.
func IsStrictNumber(raw interface{}) bool {
	s, ok := raw.(string)
	if !ok {
		_, ok := ParseLenientNumber(raw)
		return ok
	}
	token := leadingNumericToken(strings.TrimSpace(s))
	return token != "" && len(token) == len(strings.TrimSpace(s))
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseNumericToken(s string) (float64, bool) {
	token := leadingNumericToken(strings.TrimSpace(s))
	if token == "" {
		return 0, false
	}
	token = strings.Replace(token, ",", ".", 1)
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

// leadingNumericToken returns the longest prefix of s matching [+-]?digits([.,]digits)?
// (a bare fractional part such as ".5" is accepted too).
func leadingNumericToken(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - intStart

	fracDigits := 0
	if i < len(s) && (s[i] == '.' || s[i] == ',') {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits = j - i - 1
		if fracDigits > 0 {
			i = j
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return ""
	}
	return s[:i]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ToString renders a raw cell as trimmed text; nil becomes "".
func ToString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case interface{ String() string }:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// IsMissing reports whether a raw cell carries no value: nil, blank text, or the
// literal strings "null"/"undefined" left behind by upstream serializers.
func IsMissing(raw interface{}) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	if !ok {
		if f, isFloat := raw.(float64); isFloat {
			return math.IsNaN(f)
		}
		return false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	lower := strings.ToLower(s)
	return lower == "null" || lower == "undefined"
}

// ParseNumbers parses every raw value leniently, returning the valid numbers in input
// order and how many entries were missing or unparsable.
func ParseNumbers(values []interface{}) ([]float64, int) {
	out := make([]float64, 0, len(values))
	missing := 0
	for _, raw := range values {
		if v, ok := ParseLenientNumber(raw); ok {
			out = append(out, v)
			continue
		}
		missing++
	}
	return out, missing
}
