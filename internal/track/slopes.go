package track

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"climbcheck/internal/catalog"
	"climbcheck/internal/store"
)

// SlopesFileName is the file WriteSlopesCSV creates
const SlopesFileName = "slopes.csv"

// WriteSlopesCSV writes a one-row catalogue to dir/slopes.csv so a converted
// track can be imported directly. It returns the file path.
func WriteSlopesCSV(dir, name, location string, stats Stats) (string, error) {
	header := []string{
		catalog.ColName, catalog.ColLocation, catalog.ColDistanceKm,
		catalog.ColAscentM, catalog.ColAvgGradient, catalog.ColMaxGradient,
	}
	row := []string{
		name,
		location,
		formatFixed(stats.DistanceKm(), 3),
		formatFixed(stats.TotalAscentMeters, 2),
		formatFixed(stats.AvgGradientPct, 2),
		formatFixed(stats.MaxGradientPct, 2),
	}
	for _, t := range store.GradientThresholds {
		header = append(header, catalog.HistogramColumn(t))
		row = append(row, formatFixed(stats.Histogram[t], 3))
	}

	path := filepath.Join(dir, SlopesFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating slopes file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll([][]string{header, row}); err != nil {
		return "", fmt.Errorf("writing slopes file: %w", err)
	}
	return path, f.Close()
}

func formatFixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
