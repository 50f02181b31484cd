package engine

import (
	log "github.com/sirupsen/logrus"
)

// ============================================================================
// AGGREGATION ENGINE — Scalar KPI Values with Memoization
// ============================================================================
// Each operator is a single pass over rows, skipping non-numeric or empty
// cells (count excepted). Empty aggregation resolves to 0, never an error:
// this is dashboarding, not scientific computing.
//
// Before computing, a cache key is built from (calculation, column,
// rowCount, content fingerprint); on hit the memoized value is merged with
// the caller's name/format, which are not part of the key.
// ============================================================================

// Engine computes KPIs and chart data over row sets.
// The zero value is not usable; construct with New.
type Engine struct {
	cache          *Cache
	maxChartPoints int
}

// New creates an engine.
//
// Options:
//   - WithCache(c) — share an aggregation cache across engines
//   - WithMaxChartPoints(n) — override the chart reduction cap
func New(opts ...Option) *Engine {
	cfg := applyOptions(opts)
	return &Engine{
		cache:          cfg.Cache,
		maxChartPoints: cfg.MaxChartPoints,
	}
}

// Cache returns the engine's aggregation cache.
func (e *Engine) Cache() *Cache { return e.cache }

// ClearCache drops every memoized aggregation. Intended for an external
// scheduler or session-teardown hook — the engine never calls it itself.
func (e *Engine) ClearCache() { e.cache.Clear() }

// ComputeKPIs evaluates each definition over rows, pre-truncated to limit
// when limit > 0. A definition with an unrecognized calculation is skipped
// with a logged warning; the rest of the batch proceeds.
func (e *Engine) ComputeKPIs(rows Dataset, defs []KPIDefinition, limit int) []KPIResult {
	limited := false
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		limited = true
	}

	results := make([]KPIResult, 0, len(defs))
	for _, def := range defs {
		res, ok := e.computeKPI(rows, def)
		if !ok {
			continue
		}
		res.Limited = limited
		results = append(results, res)
	}
	return results
}

// computeKPI evaluates one definition. ok is false for an unsupported
// calculation.
func (e *Engine) computeKPI(rows Dataset, def KPIDefinition) (KPIResult, bool) {
	calc := def.Calculation.Normalize()
	if !calc.Valid() {
		log.Warnf("unsupported calculation %q for KPI %q, skipping", def.Calculation, def.Name)
		return KPIResult{}, false
	}

	key := cacheKey{
		Calculation: calc,
		Column:      def.Column,
		RowCount:    len(rows),
		Fingerprint: fingerprint(rows, def.Column),
	}

	if hit, ok := e.cache.get(key); ok {
		return KPIResult{
			Name:           def.Name,
			Value:          hit.Value,
			FormattedValue: FormatValue(hit.Value, def.Format),
			Calculation:    hit.Calculation,
			Column:         hit.Column,
			DataPointCount: len(rows),
		}, true
	}

	value := Aggregate(rows, calc, def.Column)

	e.cache.put(key, cacheEntry{
		Value:       value,
		Calculation: calc,
		Column:      def.Column,
	})

	return KPIResult{
		Name:           def.Name,
		Value:          value,
		FormattedValue: FormatValue(value, def.Format),
		Calculation:    calc,
		Column:         def.Column,
		DataPointCount: len(rows),
	}, true
}

// ============================================================================
// OPERATORS
// ============================================================================

// Aggregate applies one operator over a column. Unrecognized calculations
// resolve to 0 — callers validate via Calculation.Valid first.
func Aggregate(rows Dataset, calc Calculation, column string) float64 {
	switch calc.Normalize() {
	case CalcSum:
		return SumColumn(rows, column)
	case CalcAvg:
		return AvgColumn(rows, column)
	case CalcCount:
		return float64(CountColumn(rows, column))
	case CalcMax:
		return MaxColumn(rows, column)
	case CalcMin:
		return MinColumn(rows, column)
	default:
		return 0
	}
}

// SumColumn sums the parseable numeric values of a column.
func SumColumn(rows Dataset, column string) float64 {
	var total float64
	for _, row := range rows {
		if v, ok := NumericValue(row[column]); ok {
			total += v
		}
	}
	return total
}

// AvgColumn averages the parseable numeric values of a column.
// No numeric values → 0, never a division error.
func AvgColumn(rows Dataset, column string) float64 {
	var total float64
	var n int
	for _, row := range rows {
		if v, ok := NumericValue(row[column]); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// CountColumn counts rows. With the wildcard column it counts every row;
// otherwise only rows where the column's cell is present (not nil, not
// empty string).
func CountColumn(rows Dataset, column string) int {
	if column == CountAllColumn {
		return len(rows)
	}
	var n int
	for _, row := range rows {
		if !isMissing(row[column]) {
			n++
		}
	}
	return n
}

// MaxColumn returns the numeric maximum, or 0 if no cell parses.
// The 0 is a sentinel, not an error.
func MaxColumn(rows Dataset, column string) float64 {
	var m float64
	found := false
	for _, row := range rows {
		if v, ok := NumericValue(row[column]); ok {
			if !found || v > m {
				m = v
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return m
}

// MinColumn returns the numeric minimum, or 0 if no cell parses.
func MinColumn(rows Dataset, column string) float64 {
	var m float64
	found := false
	for _, row := range rows {
		if v, ok := NumericValue(row[column]); ok {
			if !found || v < m {
				m = v
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return m
}
