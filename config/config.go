package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulseboard-io/pulseboard/engine"
	"github.com/pulseboard-io/pulseboard/schema"
)

// ============================================================================
// DASHBOARD CONFIG — YAML KPI and Chart Definitions
// ============================================================================
// Definitions arrive as plain data (written by hand or by a suggestion
// service) and are stateless per request. This package only loads and
// sanity-checks them; the engine treats them uniformly either way.
// ============================================================================

// Dashboard is a named set of KPI and chart definitions.
type Dashboard struct {
	Name   string                   `yaml:"name"`
	KPIs   []engine.KPIDefinition   `yaml:"kpis"`
	Charts []engine.ChartDefinition `yaml:"charts"`
}

// Load reads and parses a dashboard YAML file.
func Load(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard config: %w", err)
	}
	return Parse(data)
}

// Parse parses dashboard YAML bytes.
func Parse(data []byte) (*Dashboard, error) {
	var d Dashboard
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard config: %w", err)
	}
	if len(d.KPIs) == 0 && len(d.Charts) == 0 {
		return nil, fmt.Errorf("dashboard config defines no KPIs and no charts")
	}
	return &d, nil
}

// Validate checks definitions against an inferred schema and returns one
// warning per problem found. Problems do not fail the dashboard — the
// engine skips bad definitions at compute time — but surfacing them early
// saves a confusing empty tile.
func (d *Dashboard) Validate(s *schema.Schema) []string {
	var warnings []string

	for _, k := range d.KPIs {
		if !k.Calculation.Valid() {
			warnings = append(warnings,
				fmt.Sprintf("kpi %q: unsupported calculation %q", k.Name, k.Calculation))
		}
		if k.Column == engine.CountAllColumn {
			continue
		}
		if s.Column(k.Column) == nil {
			warnings = append(warnings,
				fmt.Sprintf("kpi %q: unknown column %q", k.Name, k.Column))
			continue
		}
		if k.Calculation.Normalize() != engine.CalcCount && !s.IsMeasure(k.Column) {
			warnings = append(warnings,
				fmt.Sprintf("kpi %q: column %q is not a measure", k.Name, k.Column))
		}
	}

	for _, c := range d.Charts {
		if len(c.Measures) == 0 || len(c.Dimensions) == 0 {
			warnings = append(warnings,
				fmt.Sprintf("chart %q: needs at least one measure and one dimension", c.Title))
			continue
		}
		for _, m := range c.Measures {
			if !s.IsMeasure(m) {
				warnings = append(warnings,
					fmt.Sprintf("chart %q: column %q is not a measure", c.Title, m))
			}
		}
		for _, dim := range c.Dimensions {
			if s.Column(dim) == nil {
				warnings = append(warnings,
					fmt.Sprintf("chart %q: unknown dimension %q", c.Title, dim))
			}
		}
	}

	return warnings
}
