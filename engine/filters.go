package engine

// ============================================================================
// FILTERS — Per-Column Allow-List Filtering
// ============================================================================
// Single pass: checks ALL column constraints per row in one loop.
// Constraints are AND-combined across columns; values within a column are
// OR-combined. An empty filter set is a pass-through (modulo the cap).
//
// With a cap, scanning stops as soon as the cap is reached, so the result
// is a prefix-biased sample of the matches, not a random one. Every
// cap-bounded operation downstream inherits the same input order.
// ============================================================================

// Null sentinels: an absent row value only matches a filter whose
// allow-list explicitly contains one of these.
const (
	nullSentinel      = "null"
	undefinedSentinel = "undefined"
)

// ApplyFilters returns the order-preserving subsequence of rows matching
// every column constraint in filters. limit > 0 caps the result size with
// early termination.
func ApplyFilters(rows Dataset, filters FilterSet, limit int) Dataset {
	if filters.IsEmpty() {
		if limit > 0 && len(rows) > limit {
			return rows[:limit]
		}
		return rows
	}

	// Pre-build lookup sets, skipping empty allow-lists
	sets := make(map[string]map[string]bool, len(filters))
	for col, allowed := range filters {
		if len(allowed) > 0 {
			sets[col] = toSet(allowed)
		}
	}
	if len(sets) == 0 {
		if limit > 0 && len(rows) > limit {
			return rows[:limit]
		}
		return rows
	}

	out := make(Dataset, 0, capOrLen(limit, len(rows)))
	for _, row := range rows {
		if matchesAll(row, sets) {
			out = append(out, row)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

func matchesAll(row Row, sets map[string]map[string]bool) bool {
	for col, set := range sets {
		v, ok := row[col]
		if !ok || v == nil {
			if !set[nullSentinel] && !set[undefinedSentinel] {
				return false
			}
			continue
		}
		if !set[StringValue(v)] {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func capOrLen(limit, n int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}
