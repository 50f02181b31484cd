package schema

import (
	"errors"
	"regexp"
	"sort"

	"github.com/pulseboard-io/pulseboard/engine"
)

// ============================================================================
// SCHEMA INFERENCE — Heuristic Column Classification
// ============================================================================
// Inspects a prefix sample of the dataset and classifies every column.
//
// Pipeline per column:
//   1. Sample non-null values → detect dominant type (number, date, string)
//   2. Type + cardinality + variance → measure or dimension
//   3. Summary stats (numeric five-number-ish, or unique/top values)
//
// A column present in some rows and absent in others is tolerated:
// missing and null cells shrink the effective sample without erroring.
// Only a fully empty dataset is fatal.
// ============================================================================

// MaxSampleRows caps how many rows inference inspects, for cost control.
const MaxSampleRows = 5000

const (
	// dominantShare is the fraction of sampled non-null values a type
	// must cover to win; below it the column defaults to string.
	dominantShare = 0.80

	// measureMinUnique excludes constant-ish numeric columns from being
	// measures.
	measureMinUnique = 3

	// measureVarianceEpsilon excludes low-variance numeric codes (a
	// 0/1/2 status flag is a dimension, not something to sum).
	measureVarianceEpsilon = 0.1

	maxSampleValues = 5
	maxTopValues    = 5
)

// ErrEmptyDataset is returned when inference has no rows to work with.
var ErrEmptyDataset = errors.New("cannot infer schema from an empty dataset")

// datePattern is the strict date-like match: YYYY-MM-DD, nothing else.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Infer classifies every column of the dataset from a prefix sample of at
// most MaxSampleRows rows.
func Infer(rows engine.Dataset) (*Schema, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	sample := rows
	if len(sample) > MaxSampleRows {
		sample = sample[:MaxSampleRows]
	}

	names := columnOrder(sample)

	s := &Schema{Columns: make([]Column, 0, len(names))}
	for _, name := range names {
		col := analyzeColumn(sample, name)
		s.Columns = append(s.Columns, col)
		if col.Measure {
			s.Measures = append(s.Measures, col.Name)
		} else {
			s.Dimensions = append(s.Dimensions, col.Name)
		}
	}
	return s, nil
}

// columnOrder unions column names across the sample, ordered by the first
// row that introduces each name. Names introduced by the same row are
// sorted, since map iteration order is randomized.
func columnOrder(sample engine.Dataset) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range sample {
		var fresh []string
		for name := range row {
			if !seen[name] {
				seen[name] = true
				fresh = append(fresh, name)
			}
		}
		sort.Strings(fresh)
		names = append(names, fresh...)
	}
	return names
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

func analyzeColumn(sample engine.Dataset, name string) Column {
	col := Column{Name: name}

	// Collect non-null cells, preserving row order
	var cells []any
	for _, row := range sample {
		v, ok := row[name]
		if !ok || v == nil || engine.StringValue(v) == "" {
			col.Nullable = true
			continue
		}
		cells = append(cells, v)
	}

	if len(cells) == 0 {
		// All null — nothing to classify; nullable string dimension.
		col.Type = TypeString
		col.String = &StringStats{}
		return col
	}

	col.Type = detectType(cells)

	// Uniqueness and first-seen value order over stringified cells
	counts := make(map[string]int, len(cells))
	var order []string
	for _, v := range cells {
		s := engine.StringValue(v)
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	col.UniqueValueCount = len(order)
	col.SampleValues = order
	if len(col.SampleValues) > maxSampleValues {
		col.SampleValues = col.SampleValues[:maxSampleValues]
	}

	if col.Type == TypeNumber {
		stats := numericStats(cells)
		col.Numeric = &stats
		col.Measure = col.UniqueValueCount >= measureMinUnique &&
			stats.Variance > measureVarianceEpsilon
	} else {
		col.String = stringStats(len(cells), counts, order)
	}
	return col
}

// detectType picks the dominant type of the sampled non-null cells.
// Already-numeric scalars count as numeric directly; strings failing the
// numeric parse but matching the strict date pattern count as date;
// everything else is string. No type reaching dominantShare → string.
func detectType(cells []any) ColumnType {
	var numeric, date int
	for _, v := range cells {
		if _, ok := engine.NumericValue(v); ok {
			numeric++
			continue
		}
		if s, ok := v.(string); ok && datePattern.MatchString(s) {
			date++
		}
	}

	n := float64(len(cells))
	switch {
	case float64(numeric)/n >= dominantShare:
		return TypeNumber
	case float64(date)/n >= dominantShare:
		return TypeDate
	default:
		return TypeString
	}
}

// ============================================================================
// SUMMARY STATS
// ============================================================================

// numericStats summarizes the coercible numeric cells. Median comes from a
// sort; variance is plain population variance (mean of squared
// deviations) — dashboarding, not statistics.
func numericStats(cells []any) NumericStats {
	var values []float64
	for _, v := range cells {
		if f, ok := engine.NumericValue(v); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return NumericStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	n := float64(len(sorted))
	avg := sum / n

	var variance float64
	for _, v := range sorted {
		d := v - avg
		variance += d * d
	}
	variance /= n

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return NumericStats{
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Sum:      sum,
		Avg:      avg,
		Median:   median,
		Variance: variance,
	}
}

// stringStats summarizes a string/date column: unique count, cardinality
// over the sample, and the top values by frequency with ties broken by
// first-seen order.
func stringStats(sampleSize int, counts map[string]int, order []string) *StringStats {
	top := make([]ValueCount, 0, len(order))
	for _, v := range order {
		top = append(top, ValueCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > maxTopValues {
		top = top[:maxTopValues]
	}

	return &StringStats{
		UniqueCount: len(order),
		Cardinality: float64(len(order)) / float64(sampleSize),
		TopValues:   top,
	}
}
