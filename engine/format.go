package engine

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// VALUE FORMATTER — Display Strings for KPI Values
// ============================================================================
// Dashboard rendering, not accounting: currency drops cents, large plain
// numbers compact to K/M suffixes, and anything non-finite renders as "0"
// so a broken aggregation never leaks "NaN" onto a tile.
// ============================================================================

// printer does locale-aware digit grouping (1234567 → "1,234,567").
var printer = message.NewPrinter(language.English)

// FormatValue renders a numeric value for display under a format tag.
func FormatValue(v float64, format Format) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	switch format {
	case FormatCurrency:
		return formatCurrency(v)
	case FormatPercent:
		// Raw 45 renders as "45.0%" — callers pass percentage points,
		// not fractions.
		return printer.Sprintf("%.1f%%", v)
	default:
		return formatNumber(v)
	}
}

// formatCurrency renders whole-dollar amounts with digit grouping.
func formatCurrency(v float64) string {
	n := int64(math.Round(math.Abs(v)))
	s := printer.Sprintf("$%d", n)
	if v < 0 {
		return "-" + s
	}
	return s
}

// formatNumber compacts large magnitudes to one-decimal K/M suffixes and
// locale-groups the rest.
func formatNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	case v == math.Trunc(v):
		return printer.Sprintf("%d", int64(v))
	default:
		return printer.Sprintf("%.2f", v)
	}
}
