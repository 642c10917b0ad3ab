package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatFloat renders a number with two decimals. Non-finite values render
// as nan, inf and -inf.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatValue renders any table value for display: numbers (and text that
// parses as a number) with two decimals, durations as seconds, anything else
// as its string form unchanged.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case float64:
		return FormatFloat(x)
	case float32:
		return FormatFloat(float64(x))
	case int:
		return FormatFloat(float64(x))
	case int64:
		return FormatFloat(float64(x))
	case time.Duration:
		return FormatFloat(x.Seconds())
	case Cell:
		if x.Numeric {
			return FormatFloat(x.Number)
		}
		return x.Raw
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return FormatFloat(f)
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
