package funnelsimulate

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// CoerceNumber converts a raw input value to a number the way a browser's
// Number(x) || 0 does: anything that is not a number, including NaN, becomes 0.
// It never fails.
func CoerceNumber(v interface{}) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		f = parseNumeric(x.String())
	case string:
		f = parseNumeric(x)
	default:
		return 0
	}
	return orZero(f)
}

// orZero maps NaN and negative zero to 0.
func orZero(f float64) float64 {
	if math.IsNaN(f) || f == 0 {
		return 0
	}
	return f
}

func parseNumeric(raw string) float64 {
	s := strings.TrimFunc(raw, isSpace)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseInteger(s[2:], 16)
		case 'o', 'O':
			return parseInteger(s[2:], 8)
		case 'b', 'B':
			return parseInteger(s[2:], 2)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// parseInteger reads an unsigned integer literal of any length, rounding to the
// nearest float64.
func parseInteger(digits string, base int) float64 {
	if strings.ContainsAny(digits, "+-_") {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\uFEFF' || unicode.IsSpace(r)
}
