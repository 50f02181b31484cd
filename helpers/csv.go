package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pulseboard-io/pulseboard/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV bytes into an engine.Dataset
// ============================================================================
// The consumer reads the CSV from wherever it lives (file, upload, S3).
// This helper converts the raw bytes into rows of named scalars: numeric
// cells become float64, empty/null markers become nil, everything else
// stays a string. Schema inference then decides what the columns mean.
// ============================================================================

// ParseCSV parses CSV bytes into a Dataset plus the header column order.
// Malformed data rows are skipped; a missing or empty header is an error.
func ParseCSV(data []byte) (engine.Dataset, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, nil, fmt.Errorf("CSV has no columns")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows engine.Dataset
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(engine.Row, len(headers))
		for i, val := range record {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = coerceCell(val)
		}
		rows = append(rows, row)
	}

	return rows, headers, nil
}

// coerceCell turns one CSV cell into a scalar: nil for empty/null markers,
// float64 when it parses, string otherwise.
func coerceCell(val string) any {
	val = strings.TrimSpace(val)
	switch val {
	case "", "null", "NULL", "N/A", "n/a":
		return nil
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}
