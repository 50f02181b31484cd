package schema

// ============================================================================
// SCHEMA — Column Classification for the Dashboard Engine
// ============================================================================
// Inferred once per dataset and read-only thereafter. The schema tells
// callers which columns are aggregable measures (legal KPI/chart inputs)
// and which are groupable dimensions.
// ============================================================================

// ColumnType is the inferred scalar type of a column.
type ColumnType string

const (
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
	TypeString ColumnType = "string"
)

// Column describes one classified column.
type Column struct {
	Name             string     `json:"name"`
	Type             ColumnType `json:"inferredType"`
	Nullable         bool       `json:"nullable"`
	UniqueValueCount int        `json:"uniqueValueCount"`
	SampleValues     []string   `json:"sampleValues"`
	Measure          bool       `json:"measure"`

	// Exactly one is populated, by Type.
	Numeric *NumericStats `json:"numericStats,omitempty"`
	String  *StringStats  `json:"stringStats,omitempty"`
}

// NumericStats summarizes a numeric column's sampled values.
type NumericStats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Sum      float64 `json:"sum"`
	Avg      float64 `json:"avg"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
}

// StringStats summarizes a string (or date) column's sampled values.
type StringStats struct {
	UniqueCount int          `json:"uniqueCount"`
	Cardinality float64      `json:"cardinality"` // uniqueCount / sampleSize
	TopValues   []ValueCount `json:"topValues"`   // at most 5, by frequency
}

// ValueCount is one value with its occurrence count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Schema is the full column list partitioned into measures and dimensions.
type Schema struct {
	Columns    []Column `json:"columns"`
	Measures   []string `json:"measures"`
	Dimensions []string `json:"dimensions"`
}

// Column returns the descriptor for a column name, or nil.
func (s *Schema) Column(name string) *Column {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// IsMeasure reports whether a named column is an aggregable measure.
func (s *Schema) IsMeasure(name string) bool {
	c := s.Column(name)
	return c != nil && c.Measure
}

// IsDimension reports whether a named column is a groupable dimension.
func (s *Schema) IsDimension(name string) bool {
	c := s.Column(name)
	return c != nil && !c.Measure
}
