// Package catalog loads climb catalogues from CSV.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"climbcheck/internal/store"
)

// Column names of the catalogue format
const (
	ColName        = "name"
	ColLocation    = "location"
	ColDistanceKm  = "distance_km"
	ColAscentM     = "ascent_m"
	ColAvgGradient = "avg_gradient"
	ColMaxGradient = "max_gradient"
	ColPathGroup   = "path_group"
)

// RequiredColumns must be present in every catalogue header
var RequiredColumns = []string{ColName, ColLocation, ColDistanceKm, ColAscentM, ColAvgGradient, ColMaxGradient}

// columnAliases maps alternative headings to canonical column names. The Chinese
// headings are the ones slope summaries were historically exported with.
var columnAliases = map[string]string{
	"climb":            ColName,
	"distance":         ColDistanceKm,
	"ascent":           ColAscentM,
	"total_ascent_m":   ColAscentM,
	"avg_gradient_pct": ColAvgGradient,
	"max_gradient_pct": ColMaxGradient,
	"path_group_id":    ColPathGroup,
	"名稱":               ColName,
	"地點":               ColLocation,
	"距離":               ColDistanceKm,
	"總爬升":              ColAscentM,
	"平均坡度":             ColAvgGradient,
	"最大坡度":             ColMaxGradient,
}

// HistogramColumn returns the column name for a gradient threshold
func HistogramColumn(threshold int) string {
	return fmt.Sprintf("over_%d", threshold)
}

// MissingColumnError reports a required column absent from the header
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// RowError reports a malformed row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ErrEmptyValue is wrapped by RowError when a required cell is blank
var ErrEmptyValue = errors.New("value is required")

// ErrEmptyCatalogue is returned when the input has no header
var ErrEmptyCatalogue = errors.New("catalogue is empty")

// LoadFile reads a catalogue CSV from disk
func LoadFile(path string) ([]store.Climb, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalogue: %w", err)
	}
	defer f.Close()

	climbs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return climbs, nil
}

// Parse reads a catalogue from r. The first bad row aborts the whole parse, so a
// caller either gets a complete catalogue or none.
func Parse(r io.Reader) ([]store.Climb, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCatalogue
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := indexHeader(header)
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	var climbs []store.Climb
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		if isBlank(record) {
			continue
		}

		climb, err := parseRow(record, index, line)
		if err != nil {
			return nil, err
		}
		climb.Position = len(climbs)
		climbs = append(climbs, climb)
	}

	return climbs, nil
}

func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := columnAliases[key]; ok {
			key = canonical
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func parseRow(record []string, index map[string]int, line int) (store.Climb, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	requiredText := func(col string) (string, error) {
		v := cell(col)
		if v == "" {
			return "", &RowError{Line: line, Column: col, Err: ErrEmptyValue}
		}
		return v, nil
	}

	requiredNumber := func(col string) (float64, error) {
		v := cell(col)
		if v == "" {
			return 0, &RowError{Line: line, Column: col, Err: ErrEmptyValue}
		}
		return parseNumber(v, line, col)
	}

	var c store.Climb
	var err error

	if c.Name, err = requiredText(ColName); err != nil {
		return c, err
	}
	if c.Location, err = requiredText(ColLocation); err != nil {
		return c, err
	}
	if c.DistanceKm, err = requiredNumber(ColDistanceKm); err != nil {
		return c, err
	}
	if c.TotalAscentMeters, err = requiredNumber(ColAscentM); err != nil {
		return c, err
	}
	if c.AvgGradientPct, err = requiredNumber(ColAvgGradient); err != nil {
		return c, err
	}
	if c.MaxGradientPct, err = requiredNumber(ColMaxGradient); err != nil {
		return c, err
	}
	if c.DistanceKm < 0 {
		return c, &RowError{Line: line, Column: ColDistanceKm, Err: errors.New("must not be negative")}
	}

	c.Histogram = make(map[int]float64, len(store.GradientThresholds))
	for _, t := range store.GradientThresholds {
		col := HistogramColumn(t)
		v := cell(col)
		if v == "" {
			continue // absent thresholds read as 0
		}
		km, err := parseNumber(v, line, col)
		if err != nil {
			return c, err
		}
		if km < 0 {
			return c, &RowError{Line: line, Column: col, Err: errors.New("must not be negative")}
		}
		if km > 0 {
			c.Histogram[t] = km
		}
	}

	c.PathGroupID = cell(ColPathGroup)
	return c, nil
}

func parseNumber(v string, line int, col string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &RowError{Line: line, Column: col, Err: fmt.Errorf("invalid number %q", v)}
	}
	return f, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
