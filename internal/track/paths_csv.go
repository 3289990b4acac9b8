package track

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PathsFileName is the file WritePathsCSV creates
const PathsFileName = "paths.csv"

var pathsHeader = []string{"lat", "lng", "ele", "time"}

// ReadPathsCSV reads a lat,lng,ele,time trace. The time column is optional.
func ReadPathsCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening paths file: %w", err)
	}
	defer f.Close()

	points, err := readPaths(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

func readPaths(r io.Reader) ([]Point, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoPoints
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range pathsHeader[:3] {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	timeCol, hasTime := cols["time"]

	var points []Point
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var p Point
		values := []*float64{&p.Lat, &p.Lng, &p.Ele}
		for i, col := range pathsHeader[:3] {
			idx := cols[col]
			if idx >= len(record) {
				return nil, fmt.Errorf("line %d: missing %s", line, col)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, col, record[idx])
			}
			*values[i] = v
		}
		if hasTime && timeCol < len(record) && strings.TrimSpace(record[timeCol]) != "" {
			t, err := ParseTime(record[timeCol])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			p.Time = t
		}
		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	return points, nil
}

// WritePathsCSV writes points to dir/paths.csv and returns the file path
func WritePathsCSV(dir string, points []Point) (string, error) {
	path := filepath.Join(dir, PathsFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating paths file: %w", err)
	}
	defer f.Close()

	if err := writePaths(f, points); err != nil {
		return "", err
	}
	return path, f.Close()
}

func writePaths(w io.Writer, points []Point) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(pathsHeader); err != nil {
		return fmt.Errorf("writing paths: %w", err)
	}
	for _, p := range points {
		ts := ""
		if !p.Time.IsZero() {
			ts = p.Time.Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatFloat(p.Lat, 'f', 6, 64),
			strconv.FormatFloat(p.Lng, 'f', 6, 64),
			strconv.FormatFloat(p.Ele, 'f', 2, 64),
			ts,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing paths: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writing paths: %w", err)
	}
	return nil
}
