package sum

import (
	"math"
	"strconv"
	"strings"
)

type operator func(a, b float64) float64

var operators = map[string]operator{
	"+":   func(a, b float64) float64 { return a + b },
	"-":   func(a, b float64) float64 { return a - b },
	"*":   func(a, b float64) float64 { return a * b },
	"/":   func(a, b float64) float64 { return a / b },
	"pow": math.Pow,
}

// Operators lists the supported operator names.
func Operators() []string {
	return []string{"+", "-", "*", "/", "pow"}
}

// toNumber coerces a scalar input. Values that are not numbers yield NaN.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// toList reports whether v is a list input and returns its elements as
// numbers.
func toList(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = toNumber(n)
		}
		return out, true
	default:
		return nil, false
	}
}
