// Package pulseboard turns tabular business data into dashboard artifacts.
//
// Usage:
//
//	import (
//	    "github.com/pulseboard-io/pulseboard/engine"
//	    "github.com/pulseboard-io/pulseboard/schema"
//	)
//
//	sch, err := schema.Infer(rows)
//	eng := engine.New()
//	filtered := engine.ApplyFilters(rows, filters, 0)
//	kpis := eng.ComputeKPIs(filtered, kpiDefs, 0)
//	chart, err := eng.BuildChart(filtered, chartDef, 0)
//
// The engine takes a dataset (ordered rows of named scalar fields) plus
// KPI and chart definitions, and returns numeric results and chart-ready,
// size-bounded data series. Schema inference classifies columns into
// aggregable measures and groupable dimensions so callers know which
// columns are legal KPI/chart inputs.
//
// All computation is local and synchronous — the engine never calls any
// external service. File decoding, dataset storage, and rendering belong
// to the helpers, server, and cmd packages, not the core.
package pulseboard
