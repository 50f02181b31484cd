package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// SCALAR COERCION
// ============================================================================
// Rows carry untyped scalars. Every component funnels through these two
// coercions so numeric parsing and stringification behave identically in
// schema inference, filtering, aggregation, and grouping.
// ============================================================================

// NumericValue coerces a scalar to float64.
// Already-numeric scalars convert directly; strings go through a parse
// that tolerates surrounding space and thousands separators.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// StringValue coerces a scalar to its display/grouping string.
// nil coerces to the empty string; floats drop trailing zeros so a cell
// ingested as 100.0 groups and filters as "100".
func StringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isMissing reports whether a cell is absent for aggregation purposes:
// nil or empty string.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
