// Package track reads recorded rides and reduces them to climb statistics.
package track

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoPoints is returned when a track has no usable points
var ErrNoPoints = errors.New("no usable track points")

// Point is a single recorded position. Time is zero when the source had none.
type Point struct {
	Lat  float64
	Lng  float64
	Ele  float64
	Time time.Time
}

// ParseFile reads a track, choosing the decoder by file extension
func ParseFile(path string) ([]Point, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return ParseGPX(path)
	case ".fit":
		return ParseFIT(path)
	case ".csv":
		return ReadPathsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported track format %q", filepath.Ext(path))
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseTime parses an ISO 8601 timestamp. Fractional seconds are optional and
// timestamps without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", s)
}

// FilterByTime keeps points within [start, end]. A zero bound is open.
func FilterByTime(points []Point, start, end time.Time) []Point {
	var out []Point
	for _, p := range points {
		if !start.IsZero() && p.Time.Before(start) {
			continue
		}
		if !end.IsZero() && p.Time.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
