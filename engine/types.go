package engine

// ============================================================================
// PULSEBOARD ENGINE TYPES — Dashboard Analytics Core
// ============================================================================
// A Dataset is an ordered sequence of rows; each row maps a column name to
// a scalar (number, string, date-like string, or nil). Row order is
// insertion order from ingestion and is significant: it drives sampling,
// cap-bounded filtering, and unreduced chart ordering.
//
// KPI and chart definitions are plain data supplied by the caller (manual
// config or a suggestion service) — the engine treats both uniformly.
// ============================================================================

// Row is a single data row keyed by column name.
type Row map[string]any

// Dataset is an ordered sequence of rows.
type Dataset []Row

// FilterSet maps a column name to the set of allowed stringified values.
// A column absent from the map imposes no constraint.
type FilterSet map[string][]string

// IsEmpty reports whether no filter constrains any column.
func (f FilterSet) IsEmpty() bool {
	for _, vals := range f {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// CALCULATIONS
// ============================================================================

// Calculation identifies a KPI aggregation operator.
type Calculation string

const (
	CalcSum   Calculation = "sum"
	CalcAvg   Calculation = "avg"
	CalcCount Calculation = "count"
	CalcMax   Calculation = "max"
	CalcMin   Calculation = "min"
)

// Normalize folds accepted aliases onto canonical operators.
func (c Calculation) Normalize() Calculation {
	if c == "average" {
		return CalcAvg
	}
	return c
}

// Valid reports whether the calculation is a recognized operator.
func (c Calculation) Valid() bool {
	switch c.Normalize() {
	case CalcSum, CalcAvg, CalcCount, CalcMax, CalcMin:
		return true
	}
	return false
}

// ============================================================================
// FORMATS
// ============================================================================

// Format is a semantic display tag for numeric values.
type Format string

const (
	FormatCurrency Format = "currency"
	FormatPercent  Format = "percent"
	FormatNumber   Format = "number"
)

// ============================================================================
// KPI DEFINITIONS AND RESULTS
// ============================================================================

// CountAllColumn is the wildcard column for count KPIs: count rows, not cells.
const CountAllColumn = "*"

// KPIDefinition describes one scalar business metric.
// Immutable, supplied per request by the caller.
type KPIDefinition struct {
	Name        string      `json:"name" yaml:"name"`
	Calculation Calculation `json:"calculation" yaml:"calculation"`
	Column      string      `json:"column" yaml:"column"`
	Format      Format      `json:"format" yaml:"format"`
}

// KPIResult is a computed KPI value. Created fresh per aggregation call;
// never persisted beyond the response.
type KPIResult struct {
	Name           string      `json:"name"`
	Value          float64     `json:"value"`
	FormattedValue string      `json:"formattedValue"`
	Calculation    Calculation `json:"calculation"`
	Column         string      `json:"column"`
	DataPointCount int         `json:"dataPointCount"`
	Limited        bool        `json:"limited"`
}

// ============================================================================
// CHART DEFINITIONS AND DATA
// ============================================================================

// ChartType selects the rendering shape and the reduction strategy.
type ChartType string

const (
	ChartBar        ChartType = "bar"
	ChartLine       ChartType = "line"
	ChartArea       ChartType = "area"
	ChartPie        ChartType = "pie"
	ChartScatter    ChartType = "scatter"
	ChartStackedBar ChartType = "stacked-bar"
	ChartGroupedBar ChartType = "grouped-bar"
	ChartHeatmap    ChartType = "heatmap"
)

// ChartDefinition describes one chart: which measures to aggregate and
// which dimension to group by (Dimensions[0] is the grouping key).
type ChartDefinition struct {
	Title      string    `json:"title" yaml:"title"`
	Type       ChartType `json:"type" yaml:"type"`
	Measures   []string  `json:"measures" yaml:"measures"`
	Dimensions []string  `json:"dimensions" yaml:"dimensions"`
}

// Point is a single chart data point: the grouping dimension's value plus
// one entry per requested measure's aggregated sum.
type Point map[string]any

// RenderHints tells the presentation layer which keys to read.
type RenderHints struct {
	XAxisKey   string   `json:"xAxisKey"`
	DataKeys   []string `json:"dataKeys"`
	PrimaryKey string   `json:"primaryKey"`
}

// ChartData is an ordered, size-bounded list of aggregated points plus
// resolved rendering hints.
type ChartData struct {
	Title   string      `json:"title"`
	Type    ChartType   `json:"type"`
	Points  []Point     `json:"points"`
	Reduced bool        `json:"reduced"`
	Hints   RenderHints `json:"hints"`
}
