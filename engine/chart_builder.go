package engine

import (
	"errors"
	"sort"

	log "github.com/sirupsen/logrus"
)

// ============================================================================
// CHART BUILDER — Grouped, Aggregated, Size-Bounded Series
// ============================================================================
// Pipeline: group by primary dimension → sum each measure per group →
// type-dependent sort → type-specific reduction (see reduce.go).
//
// Grouping preserves first-seen order before sorting. Rows missing the
// grouping dimension fall into a literal "Unknown" group rather than being
// dropped — absence is itself a category worth charting.
// ============================================================================

// DefaultMaxChartPoints bounds the points a chart may carry after reduction.
const DefaultMaxChartPoints = 1000

// UnknownGroup labels rows with no value for the grouping dimension.
const UnknownGroup = "Unknown"

// ErrIncompleteChart marks a definition missing measures or dimensions.
var ErrIncompleteChart = errors.New("chart definition needs at least one measure and one dimension")

// BuildChart groups rows by def.Dimensions[0], sums each requested measure
// per group, sorts and reduces per chart type. Rows are pre-truncated to
// limit when limit > 0.
func (e *Engine) BuildChart(rows Dataset, def ChartDefinition, limit int) (*ChartData, error) {
	if len(def.Measures) == 0 || len(def.Dimensions) == 0 {
		return nil, ErrIncompleteChart
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	dim := def.Dimensions[0]
	primary := def.Measures[0]

	points := groupAndSum(rows, dim, def.Measures)
	sortPoints(points, def.Type, dim, primary)
	points, reduced := reducePoints(points, def.Type, e.maxChartPoints, dim, def.Measures)

	return &ChartData{
		Title:   def.Title,
		Type:    def.Type,
		Points:  points,
		Reduced: reduced,
		Hints: RenderHints{
			XAxisKey:   dim,
			DataKeys:   def.Measures,
			PrimaryKey: primary,
		},
	}, nil
}

// BuildCharts evaluates a batch of definitions. Incomplete definitions are
// skipped with a logged warning; the rest proceed.
func (e *Engine) BuildCharts(rows Dataset, defs []ChartDefinition, limit int) []*ChartData {
	charts := make([]*ChartData, 0, len(defs))
	for _, def := range defs {
		chart, err := e.BuildChart(rows, def, limit)
		if err != nil {
			log.Warnf("skipping chart %q: %v", def.Title, err)
			continue
		}
		charts = append(charts, chart)
	}
	return charts
}

// ============================================================================
// GROUPING
// ============================================================================

// groupAndSum buckets rows by the dimension's stringified value and sums
// every measure per bucket, in first-seen order.
func groupAndSum(rows Dataset, dim string, measures []string) []Point {
	order := make([]string, 0)
	sums := make(map[string][]float64)

	for _, row := range rows {
		key := StringValue(row[dim])
		if key == "" {
			key = UnknownGroup
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
			sums[key] = make([]float64, len(measures))
		}
		acc := sums[key]
		for i, m := range measures {
			if v, ok := NumericValue(row[m]); ok {
				acc[i] += v
			}
		}
	}

	points := make([]Point, 0, len(order))
	for _, key := range order {
		p := Point{dim: key}
		for i, m := range measures {
			p[m] = sums[key][i]
		}
		points = append(points, p)
	}
	return points
}

// ============================================================================
// SORTING
// ============================================================================

// sortPoints orders points per chart type: pie and bar-like charts
// descending by the primary measure; line and area ascending lexicographic
// by the dimension value. That is label order, not time order — callers
// wanting temporal charts must feed chronologically sortable labels.
func sortPoints(points []Point, chartType ChartType, dim, primary string) {
	switch chartType {
	case ChartLine, ChartArea:
		sort.SliceStable(points, func(i, j int) bool {
			return pointLabel(points[i], dim) < pointLabel(points[j], dim)
		})
	default:
		sort.SliceStable(points, func(i, j int) bool {
			return pointValue(points[i], primary) > pointValue(points[j], primary)
		})
	}
}

func pointLabel(p Point, dim string) string {
	return StringValue(p[dim])
}

func pointValue(p Point, measure string) float64 {
	v, _ := NumericValue(p[measure])
	return v
}
