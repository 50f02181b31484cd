package engine

// ============================================================================
// REDUCTION STRATEGIES — Visualization-Aware Size Bounding
// ============================================================================
// Three strategies, keyed by chart type:
//
//   proportional (pie)       top 7 slices + exact-sum "Others"
//   sequential (line/area)   uniform stride subsampling to the cap
//   ranked (bar/default)     hard top-N truncation of the sorted points
//
// Sequential sampling keeps indices, it does not average buckets: peaks
// between sampled indices are dropped. Known trade-off, kept as-is.
// ============================================================================

// pieKeepTop is how many slices survive proportional reduction; everything
// past it collapses into one "Others" slice.
const pieKeepTop = 7

// rankedKeep is the hard top-N for bar-like charts.
const rankedKeep = 50

// OthersGroup labels the synthetic slice aggregating excluded pie groups.
const OthersGroup = "Others"

// reducePoints applies the type-specific strategy. The returned bool
// reports whether any reduction occurred.
func reducePoints(points []Point, chartType ChartType, maxPoints int, dim string, measures []string) ([]Point, bool) {
	switch chartType {
	case ChartPie:
		return reduceProportional(points, dim, measures)
	case ChartLine, ChartArea:
		return reduceSequential(points, maxPoints)
	default:
		return reduceRanked(points, maxPoints)
	}
}

// reduceProportional keeps the pieKeepTop largest groups (points arrive
// sorted descending) and folds the rest into an "Others" point whose
// measure values are the exact sums of the excluded groups. At
// pieKeepTop+1 or fewer points nothing happens — an "Others" slice holding
// a single group would be noise.
func reduceProportional(points []Point, dim string, measures []string) ([]Point, bool) {
	if len(points) <= pieKeepTop+1 {
		return points, false
	}

	kept := points[:pieKeepTop]
	others := Point{dim: OthersGroup}
	for _, m := range measures {
		var sum float64
		for _, p := range points[pieKeepTop:] {
			sum += pointValue(p, m)
		}
		others[m] = sum
	}

	out := make([]Point, 0, pieKeepTop+1)
	out = append(out, kept...)
	out = append(out, others)
	return out, true
}

// reduceSequential subsamples every stride-th point starting at index 0,
// with stride = ceil(len/maxPoints). The first point always survives.
func reduceSequential(points []Point, maxPoints int) ([]Point, bool) {
	if maxPoints <= 0 || len(points) <= maxPoints {
		return points, false
	}

	stride := (len(points) + maxPoints - 1) / maxPoints
	out := make([]Point, 0, maxPoints)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out, true
}

// reduceRanked truncates the already-sorted points to min(rankedKeep,
// maxPoints). A hard top-N — no "Others" aggregation.
func reduceRanked(points []Point, maxPoints int) ([]Point, bool) {
	keep := rankedKeep
	if maxPoints > 0 && maxPoints < keep {
		keep = maxPoints
	}
	if len(points) <= keep {
		return points, false
	}
	return points[:keep], true
}
