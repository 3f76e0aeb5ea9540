package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Float safely converts supported cell types to float64.
func Float(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// FormatNumber renders a float without exponent notation and without a
// trailing ".0" for whole values.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatCurrency renders a dollar amount with thousands separators and
// two decimals, e.g. 1234567.5 -> "$1,234,567.50".
func FormatCurrency(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	out := groupThousands(parts[0]) + "." + parts[1]
	if neg {
		return "-$" + out
	}
	return "$" + out
}

// FormatCurrencyPtr renders an optional dollar amount, with "$0" for a
// missing value.
func FormatCurrencyPtr(f *float64) string {
	if f == nil {
		return "$0"
	}
	return FormatCurrency(*f)
}

// FormatPercent renders a percentage with one decimal, e.g. "12.5%".
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
