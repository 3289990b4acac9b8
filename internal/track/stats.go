package track

import (
	"math"

	"github.com/tkrajina/gpxgo/gpx"

	"climbcheck/internal/store"
)

// Options tunes ComputeStatistics
type Options struct {
	// SmoothingPoints is the moving-average half width. 0 disables smoothing.
	SmoothingPoints int
	// MinSegmentMeters merges consecutive points until a segment is at least
	// this long horizontally.
	MinSegmentMeters float64
}

// DefaultOptions are the settings used by the convert command
func DefaultOptions() Options {
	return Options{SmoothingPoints: 5, MinSegmentMeters: 2.0}
}

// Stats summarizes a climb
type Stats struct {
	DistanceMeters    float64
	TotalAscentMeters float64
	AvgGradientPct    float64
	MaxGradientPct    float64
	// Histogram holds kilometres at or above each store.GradientThresholds entry
	Histogram map[int]float64
}

// DistanceKm returns the distance in kilometres
func (s Stats) DistanceKm() float64 {
	return s.DistanceMeters / 1000
}

// ToClimb converts the stats into a catalogue entry
func (s Stats) ToClimb(name, location string) store.Climb {
	hist := make(map[int]float64, len(s.Histogram))
	for t, km := range s.Histogram {
		if km > 0 {
			hist[t] = km
		}
	}
	return store.Climb{
		Name:              name,
		Location:          location,
		DistanceKm:        s.DistanceKm(),
		TotalAscentMeters: s.TotalAscentMeters,
		AvgGradientPct:    s.AvgGradientPct,
		MaxGradientPct:    s.MaxGradientPct,
		Histogram:         hist,
	}
}

// ComputeStatistics derives distance, ascent and gradients from points.
// Fewer than two points yields zero stats.
func ComputeStatistics(points []Point, opts Options) Stats {
	stats := Stats{Histogram: make(map[int]float64, len(store.GradientThresholds))}
	if len(points) < 2 {
		return stats
	}

	ele := SmoothElevations(points, opts.SmoothingPoints)

	var horizontal, total3D float64
	steps := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		d := gpx.HaversineDistance(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
		rise := ele[i] - ele[i-1]
		if rise > 0 {
			stats.TotalAscentMeters += rise
		}
		if d > 0 {
			horizontal += d
			total3D += math.Hypot(d, rise)
		}
		steps[i-1] = d
	}

	stats.DistanceMeters = horizontal
	if horizontal == 0 {
		stats.DistanceMeters = total3D
	}
	if stats.DistanceMeters > 0 {
		stats.AvgGradientPct = stats.TotalAscentMeters / stats.DistanceMeters * 100
	}

	// Grades are measured over segments of at least MinSegmentMeters. A short
	// tail joins the segment before it; it stands alone only when the whole
	// track is shorter than one segment.
	type segment struct {
		from, to int
		run      float64
	}
	var segments []segment
	anchor := 0
	var run float64
	for i := 1; i < len(points); i++ {
		run += steps[i-1]
		if run <= 0 || run < opts.MinSegmentMeters {
			continue
		}
		segments = append(segments, segment{from: anchor, to: i, run: run})
		anchor = i
		run = 0
	}
	if run > 0 {
		if n := len(segments); n > 0 {
			segments[n-1].to = len(points) - 1
			segments[n-1].run += run
		} else {
			segments = append(segments, segment{from: anchor, to: len(points) - 1, run: run})
		}
	}

	maxGrade := math.Inf(-1)
	for _, seg := range segments {
		grade := (ele[seg.to] - ele[seg.from]) / seg.run * 100
		maxGrade = math.Max(maxGrade, grade)
		km := seg.run / 1000
		for _, t := range store.GradientThresholds {
			if grade >= float64(t) {
				stats.Histogram[t] += km
			}
		}
	}
	if !math.IsInf(maxGrade, -1) && maxGrade > 0 {
		stats.MaxGradientPct = maxGrade
	}

	return stats
}

// SmoothElevations applies a centered moving average of half width window.
// Near the ends the window shrinks to the available points.
func SmoothElevations(points []Point, window int) []float64 {
	out := make([]float64, len(points))
	if window <= 0 {
		for i, p := range points {
			out[i] = p.Ele
		}
		return out
	}

	prefix := make([]float64, len(points)+1)
	for i, p := range points {
		prefix[i+1] = prefix[i] + p.Ele
	}
	for i := range points {
		lo := max(0, i-window)
		hi := min(len(points)-1, i+window)
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return out
}

// ProfileSample is a point on an elevation profile
type ProfileSample struct {
	DistanceKm float64
	Ele        float64
}

// ElevationProfile returns cumulative horizontal distance against elevation
func ElevationProfile(points []Point) []ProfileSample {
	samples := make([]ProfileSample, 0, len(points))
	var dist float64
	for i, p := range points {
		if i > 0 {
			dist += gpx.HaversineDistance(points[i-1].Lat, points[i-1].Lng, p.Lat, p.Lng)
		}
		samples = append(samples, ProfileSample{DistanceKm: dist / 1000, Ele: p.Ele})
	}
	return samples
}
