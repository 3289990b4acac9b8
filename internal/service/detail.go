package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"climbcheck/internal/analysis"
	"climbcheck/internal/store"
	"climbcheck/internal/track"
)

// HistogramBar is one gradient threshold of a climb
type HistogramBar struct {
	Threshold  int
	DistanceKm float64
	Percent    float64 // share of the climb's distance
}

// ClimbDetail contains everything the detail screen shows for one climb
type ClimbDetail struct {
	Climb     analysis.EnrichedClimb
	Histogram []HistogramBar
	Elevation []track.ProfileSample // nil when the climb has no trace
}

// Detail returns the enriched climb with its histogram and elevation profile
func (s *ClimbService) Detail(name string) (*ClimbDetail, error) {
	c, err := s.Find(name)
	if err != nil {
		return nil, err
	}

	detail := &ClimbDetail{
		Climb:     *c,
		Histogram: histogramBars(c.Climb),
	}

	profile, err := s.Elevation(c.Climb)
	if err != nil {
		return nil, err
	}
	detail.Elevation = downsample(profile, ElevationChartPoints)
	return detail, nil
}

// Elevation loads the elevation trace for c. A climb without a path group or
// without a trace file returns nil and no error.
func (s *ClimbService) Elevation(c store.Climb) ([]track.ProfileSample, error) {
	s.mu.RLock()
	dir := s.pathsDir
	s.mu.RUnlock()

	if c.PathGroupID == "" || dir == "" {
		return nil, nil
	}

	path := filepath.Join(dir, c.PathGroupID+PathsFileExt)
	points, err := track.ReadPathsCSV(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading elevation for %s: %w", c.Name, err)
	}
	return track.ElevationProfile(points), nil
}

func histogramBars(c store.Climb) []HistogramBar {
	bars := make([]HistogramBar, 0, len(store.GradientThresholds))
	for _, t := range store.GradientThresholds {
		km := c.DistanceAtOrAbove(t)
		bar := HistogramBar{Threshold: t, DistanceKm: km}
		if c.DistanceKm > 0 {
			bar.Percent = min(km/c.DistanceKm*100, 100)
		}
		bars = append(bars, bar)
	}
	return bars
}

// downsample keeps at most n evenly spaced samples, always including the last
func downsample(samples []track.ProfileSample, n int) []track.ProfileSample {
	if n <= 1 || len(samples) <= n {
		return samples
	}
	out := make([]track.ProfileSample, 0, n)
	step := float64(len(samples)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, samples[int(float64(i)*step+0.5)])
	}
	return out
}
