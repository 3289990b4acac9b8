package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"climbcheck/internal/track"
)

// ConvertRequest describes a track to reduce to a catalogue row
type ConvertRequest struct {
	TrackPath string
	Start     time.Time // zero keeps the beginning of the track
	End       time.Time // zero keeps the end of the track
	Options   track.Options
	Name      string // defaults to the track file name
	Location  string // defaults to the track's directory name
	OutputDir string // defaults to the track's directory
}

// ConvertProgress reports progress during a conversion
type ConvertProgress struct {
	Phase  string
	Points int
}

// ConvertResult contains the outputs of a conversion
type ConvertResult struct {
	Stats      track.Stats
	Points     int
	SlopesPath string
	PathsPath  string
}

// ConvertService turns recorded tracks into importable catalogue files
type ConvertService struct {
	logger *log.Logger
}

// NewConvertService creates a convert service
func NewConvertService(logger *log.Logger) *ConvertService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ConvertService{logger: logger}
}

// Convert parses, filters and summarizes a track, writing slopes.csv and
// paths.csv to the output directory
func (s *ConvertService) Convert(ctx context.Context, req ConvertRequest, progress chan<- ConvertProgress) (*ConvertResult, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(phase string, points int) {
		if progress != nil {
			progress <- ConvertProgress{Phase: phase, Points: points}
		}
	}

	if !req.Start.IsZero() && !req.End.IsZero() && req.Start.After(req.End) {
		return nil, errors.New("start time must be before end time")
	}

	report(PhaseParse, 0)
	points, err := track.ParseFile(req.TrackPath)
	if err != nil {
		return nil, fmt.Errorf("reading track: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(PhaseFilter, len(points))
	selected := track.FilterByTime(points, req.Start, req.End)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no track points within the requested time range: %w", track.ErrNoPoints)
	}

	report(PhaseStats, len(selected))
	stats := track.ComputeStatistics(selected, req.Options)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(PhaseWrite, len(selected))
	dir := req.OutputDir
	if dir == "" {
		dir = filepath.Dir(req.TrackPath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	name := req.Name
	if name == "" {
		base := filepath.Base(req.TrackPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = defaultLocation(req.TrackPath)
	}

	slopesPath, err := track.WriteSlopesCSV(dir, name, location, stats)
	if err != nil {
		return nil, err
	}
	pathsPath, err := track.WritePathsCSV(dir, selected)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("converted %s: %d points, %.2f km, %.0f m ascent", req.TrackPath, len(selected), stats.DistanceKm(), stats.TotalAscentMeters)
	return &ConvertResult{
		Stats:      stats,
		Points:     len(selected),
		SlopesPath: slopesPath,
		PathsPath:  pathsPath,
	}, nil
}

// defaultLocation names a converted climb after the folder holding its track
func defaultLocation(trackPath string) string {
	abs, err := filepath.Abs(trackPath)
	if err != nil {
		abs = trackPath
	}
	dir := filepath.Base(filepath.Dir(abs))
	if dir == "." || dir == string(filepath.Separator) || strings.TrimSpace(dir) == "" {
		return DefaultLocation
	}
	return dir
}
