// Package format renders chart numbers for labels and tooltips.
package format

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Grouped rounds v to an integer and groups thousands: 1234567 -> "1,234,567".
func Grouped(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return humanize.Comma(int64(math.Round(v)))
}

// Currency is Grouped with a dollar sign: 1234.4 -> "$1,234".
func Currency(v float64) string {
	if v < 0 {
		return "-$" + Grouped(-v)
	}
	return "$" + Grouped(v)
}

// Fixed formats v with the given number of decimals.
func Fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// TickCurrency formats an axis tick as "$" followed by the plain number,
// without grouping: 40000 -> "$40000".
func TickCurrency(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// Tick formats a default axis tick.
func Tick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
