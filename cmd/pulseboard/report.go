package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulseboard-io/pulseboard/config"
	"github.com/pulseboard-io/pulseboard/engine"
	"github.com/pulseboard-io/pulseboard/helpers"
	"github.com/pulseboard-io/pulseboard/schema"
)

// reportCmd computes a full dashboard (KPIs + charts) from a CSV file and
// a YAML dashboard definition.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute KPIs and chart data for a CSV file from a dashboard config.",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		configPath, _ := cmd.Flags().GetString("config")
		limit, _ := cmd.Flags().GetInt("limit")
		filterFlags, _ := cmd.Flags().GetStringSlice("filter")
		if file == "" || configPath == "" {
			log.Fatal("--file and --config are required")
		}

		dash, err := config.Load(configPath)
		if err != nil {
			log.Fatal(err)
		}

		data, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}
		rows, _, err := helpers.ParseCSV(data)
		if err != nil {
			log.Fatal(err)
		}

		sch, err := schema.Infer(rows)
		if err != nil {
			log.Fatal(err)
		}
		for _, warning := range dash.Validate(sch) {
			log.Warn(warning)
		}

		filters, err := parseFilterFlags(filterFlags)
		if err != nil {
			log.Fatal(err)
		}

		eng := engine.New()
		filtered := engine.ApplyFilters(rows, filters, 0)
		log.Debugf("%d rows after filtering (from %d)", len(filtered), len(rows))

		report := map[string]any{
			"dashboard": dash.Name,
			"rowCount":  len(filtered),
			"kpis":      eng.ComputeKPIs(filtered, dash.KPIs, limit),
			"charts":    eng.BuildCharts(filtered, dash.Charts, limit),
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

// parseFilterFlags turns repeated --filter col=v1,v2 flags into a FilterSet.
func parseFilterFlags(flags []string) (engine.FilterSet, error) {
	filters := make(engine.FilterSet, len(flags))
	for _, f := range flags {
		col, vals, ok := strings.Cut(f, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter %q, expected column=value[,value...]", f)
		}
		filters[col] = append(filters[col], strings.Split(vals, ",")...)
	}
	return filters, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("file", "f", "", "path to CSV data file (required)")
	reportCmd.Flags().StringP("config", "c", "", "path to dashboard YAML (required)")
	reportCmd.Flags().Int("limit", 0, "cap on rows processed (0 = all)")
	reportCmd.Flags().StringSlice("filter", nil, "row filter, column=value[,value...] (repeatable)")
}
