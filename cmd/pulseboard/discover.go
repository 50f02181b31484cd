package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulseboard-io/pulseboard/helpers"
	"github.com/pulseboard-io/pulseboard/schema"
)

// discoverCmd prints the inferred schema of a CSV file.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Infer and print the column schema of a CSV file.",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			log.Fatal("--file is required")
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

		log.Debugf("inferred %d measures and %d dimensions from %d rows",
			len(sch.Measures), len(sch.Dimensions), len(rows))

		out, err := json.MarshalIndent(sch, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringP("file", "f", "", "path to CSV data file (required)")
}
