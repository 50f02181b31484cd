package schema

import (
	"math"
	"testing"

	"github.com/pulseboard-io/pulseboard/engine"
)

// ============================================================================
// INFERENCE TESTS
// ============================================================================

func rowsFromColumn(name string, values []any) engine.Dataset {
	rows := make(engine.Dataset, len(values))
	for i, v := range values {
		rows[i] = engine.Row{name: v}
	}
	return rows
}

func TestInferEmptyDatasetFails(t *testing.T) {
	if _, err := Infer(nil); err != ErrEmptyDataset {
		t.Fatalf("Infer(nil) err = %v, want ErrEmptyDataset", err)
	}
	if _, err := Infer(engine.Dataset{}); err != ErrEmptyDataset {
		t.Fatalf("Infer(empty) err = %v, want ErrEmptyDataset", err)
	}
}

func TestDominantTypeThreshold(t *testing.T) {
	// 85% numeric → number
	var mostlyNumeric []any
	for i := 0; i < 17; i++ {
		mostlyNumeric = append(mostlyNumeric, float64(i)*1.5)
	}
	mostlyNumeric = append(mostlyNumeric, "a", "b", "c") // 17/20 = 85%

	// 79% numeric (strictly below the threshold) → string
	var barelyNumeric []any
	for i := 0; i < 79; i++ {
		barelyNumeric = append(barelyNumeric, float64(i))
	}
	for i := 0; i < 21; i++ {
		barelyNumeric = append(barelyNumeric, "text")
	}

	tests := []struct {
		name   string
		values []any
		want   ColumnType
	}{
		{"85 percent numeric", mostlyNumeric, TypeNumber},
		{"79 percent numeric", barelyNumeric, TypeString},
		{"all dates", []any{"2026-01-01", "2026-02-15", "2026-03-31"}, TypeDate},
		{"numeric strings", []any{"10", "20.5", "30"}, TypeNumber},
		{"loose dates stay strings", []any{"Jan-2026", "Feb-2026", "Mar-2026"}, TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sch, err := Infer(rowsFromColumn("col", tt.values))
			if err != nil {
				t.Fatalf("Infer failed: %v", err)
			}
			if got := sch.Columns[0].Type; got != tt.want {
				t.Errorf("inferred type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMeasureClassification(t *testing.T) {
	tests := []struct {
		name    string
		values  []any
		measure bool
	}{
		{"varied numeric", []any{10.0, 25.0, 90.0, 42.0}, true},
		{"two unique values", []any{1.0, 2.0, 1.0, 2.0, 1.0}, false},
		{"constant", []any{5.0, 5.0, 5.0, 5.0}, false},
		{"low variance jitter", []any{5.0, 5.1, 4.9, 5.05, 4.95}, false},
		{"strings", []any{"a", "b", "c", "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sch, err := Infer(rowsFromColumn("col", tt.values))
			if err != nil {
				t.Fatalf("Infer failed: %v", err)
			}
			col := sch.Columns[0]
			if col.Measure != tt.measure {
				t.Errorf("measure = %v, want %v (type=%s unique=%d)",
					col.Measure, tt.measure, col.Type, col.UniqueValueCount)
			}
		})
	}
}

func TestMeasureDimensionPartition(t *testing.T) {
	rows := engine.Dataset{
		{"revenue": 120.5, "region": "EMEA", "units": 3.0},
		{"revenue": 80.0, "region": "APAC", "units": 7.0},
		{"revenue": 200.0, "region": "EMEA", "units": 1.0},
		{"revenue": 45.25, "region": "AMER", "units": 9.0},
	}
	sch, err := Infer(rows)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	if !sch.IsMeasure("revenue") || !sch.IsMeasure("units") {
		t.Errorf("revenue and units should be measures, got measures=%v", sch.Measures)
	}
	if !sch.IsDimension("region") {
		t.Errorf("region should be a dimension, got dimensions=%v", sch.Dimensions)
	}
	if len(sch.Measures)+len(sch.Dimensions) != len(sch.Columns) {
		t.Errorf("partition does not cover all columns")
	}
}

func TestNumericStats(t *testing.T) {
	sch, err := Infer(rowsFromColumn("v", []any{4.0, 1.0, 3.0, 2.0}))
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	stats := sch.Columns[0].Numeric
	if stats == nil {
		t.Fatal("numeric stats missing")
	}

	approx := func(name string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	approx("min", stats.Min, 1)
	approx("max", stats.Max, 4)
	approx("sum", stats.Sum, 10)
	approx("avg", stats.Avg, 2.5)
	approx("median", stats.Median, 2.5)
	approx("variance", stats.Variance, 1.25) // population variance
}

func TestStringStats(t *testing.T) {
	values := []any{"b", "a", "a", "c", "b", "a", "d", "e", "f", "g"}
	sch, err := Infer(rowsFromColumn("v", values))
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	stats := sch.Columns[0].String
	if stats == nil {
		t.Fatal("string stats missing")
	}

	if stats.UniqueCount != 7 {
		t.Errorf("uniqueCount = %d, want 7", stats.UniqueCount)
	}
	if math.Abs(stats.Cardinality-0.7) > 1e-9 {
		t.Errorf("cardinality = %v, want 0.7", stats.Cardinality)
	}
	if len(stats.TopValues) != 5 {
		t.Fatalf("topValues has %d entries, want 5", len(stats.TopValues))
	}
	// "a" (3) then "b" (2); the count-1 tail ties break by first-seen
	if stats.TopValues[0].Value != "a" || stats.TopValues[0].Count != 3 {
		t.Errorf("top value = %+v, want a×3", stats.TopValues[0])
	}
	if stats.TopValues[1].Value != "b" || stats.TopValues[1].Count != 2 {
		t.Errorf("second value = %+v, want b×2", stats.TopValues[1])
	}
	if stats.TopValues[2].Value != "c" {
		t.Errorf("tie break not first-seen: third = %+v, want c", stats.TopValues[2])
	}
}

func TestNullsExcludedFromSampling(t *testing.T) {
	rows := engine.Dataset{
		{"v": 10.0},
		{"v": nil},
		{}, // column absent entirely
		{"v": 20.0},
		{"v": 30.0},
		{"v": 40.0},
	}
	sch, err := Infer(rows)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	col := sch.Columns[0]

	if !col.Nullable {
		t.Error("column with missing cells should be nullable")
	}
	if col.Type != TypeNumber {
		t.Errorf("type = %q, want number (nulls must not dilute the sample)", col.Type)
	}
	if col.Numeric.Sum != 100 {
		t.Errorf("sum = %v, want 100 (nulls excluded)", col.Numeric.Sum)
	}
}

func TestSampleValuesCapped(t *testing.T) {
	var values []any
	for i := 0; i < 20; i++ {
		values = append(values, float64(i))
	}
	sch, err := Infer(rowsFromColumn("v", values))
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if got := len(sch.Columns[0].SampleValues); got != maxSampleValues {
		t.Errorf("sampleValues has %d entries, want %d", got, maxSampleValues)
	}
	if sch.Columns[0].SampleValues[0] != "0" {
		t.Errorf("sampleValues not in first-seen order: %v", sch.Columns[0].SampleValues)
	}
}

func TestSamplePrefixCap(t *testing.T) {
	// Rows beyond MaxSampleRows must not influence the schema.
	rows := make(engine.Dataset, MaxSampleRows+100)
	for i := range rows {
		if i < MaxSampleRows {
			rows[i] = engine.Row{"v": float64(i % 50)}
		} else {
			rows[i] = engine.Row{"v": "trailing text"}
		}
	}
	sch, err := Infer(rows)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if sch.Columns[0].Type != TypeNumber {
		t.Errorf("type = %q, want number (inference must sample only the prefix)", sch.Columns[0].Type)
	}
}
