package track

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"

	"climbcheck/internal/catalog"
	"climbcheck/internal/store"
)

// rampTrack is a flat run-in, a steady ramp with one steep step, and a flat
// run-out, sampled every 0.0001 degrees of latitude.
func rampTrack() []Point {
	const flat = 60
	const ramp = 100
	var points []Point
	ele := 100.0
	add := func() {
		points = append(points, Point{Lat: 24.0 + float64(len(points))*0.0001, Lng: 121.0, Ele: ele})
	}
	for i := 0; i < flat; i++ {
		add()
	}
	for k := 1; k <= ramp; k++ {
		if k == ramp/2 {
			ele += 4
		} else {
			ele += 1
		}
		add()
	}
	for i := 0; i < flat; i++ {
		add()
	}
	return points
}

func TestComputeStatistics_MaxGradientNonIncreasingWithSmoothing(t *testing.T) {
	points := rampTrack()

	var grades []float64
	for _, window := range []int{0, 1, 10, 20, 30} {
		stats := ComputeStatistics(points, Options{SmoothingPoints: window, MinSegmentMeters: 2.0})
		grades = append(grades, stats.MaxGradientPct)
	}

	for i := 1; i < len(grades); i++ {
		assert.LessOrEqual(t, grades[i], grades[i-1], "max gradient should not increase with a larger smoothing window")
	}
	assert.Greater(t, grades[0], grades[len(grades)-1])
}

func TestComputeStatistics_Totals(t *testing.T) {
	points := rampTrack()
	profile := ElevationProfile(points)
	wantMeters := profile[len(profile)-1].DistanceKm * 1000

	for _, window := range []int{0, 5, 30} {
		stats := ComputeStatistics(points, Options{SmoothingPoints: window, MinSegmentMeters: 2.0})
		// a monotone profile keeps its ascent under smoothing
		assert.InDelta(t, 103.0, stats.TotalAscentMeters, 1e-6, "window %d", window)
		assert.InDelta(t, wantMeters, stats.DistanceMeters, 1e-6)
		assert.InDelta(t, stats.TotalAscentMeters/stats.DistanceMeters*100, stats.AvgGradientPct, 1e-9)
	}
}

func TestComputeStatistics_HistogramNonIncreasing(t *testing.T) {
	stats := ComputeStatistics(rampTrack(), Options{MinSegmentMeters: 2.0})

	prev := stats.Histogram[store.GradientThresholds[0]]
	assert.Greater(t, prev, 0.0)
	for _, th := range store.GradientThresholds[1:] {
		assert.LessOrEqual(t, stats.Histogram[th], prev, "over_%d", th)
		prev = stats.Histogram[th]
	}
	// the steep step is the only segment past 30%
	assert.Greater(t, stats.Histogram[30], 0.0)
	assert.Zero(t, stats.Histogram[40])
}

func TestComputeStatistics_TooFewPoints(t *testing.T) {
	for _, points := range [][]Point{nil, {{Lat: 1, Lng: 1, Ele: 5}}} {
		stats := ComputeStatistics(points, DefaultOptions())
		assert.Zero(t, stats.DistanceMeters)
		assert.Zero(t, stats.TotalAscentMeters)
		assert.Zero(t, stats.AvgGradientPct)
		assert.Zero(t, stats.MaxGradientPct)
		assert.Empty(t, stats.Histogram)
	}
}

func TestComputeStatistics_ZeroDistanceAscent(t *testing.T) {
	points := []Point{
		{Lat: 24, Lng: 121, Ele: 10},
		{Lat: 24, Lng: 121, Ele: 15},
	}
	stats := ComputeStatistics(points, Options{})
	assert.Equal(t, 5.0, stats.TotalAscentMeters)
	assert.Zero(t, stats.DistanceMeters)
	assert.Zero(t, stats.AvgGradientPct)
	assert.Zero(t, stats.MaxGradientPct)
}

func TestComputeStatistics_MinSegmentMergesJitter(t *testing.T) {
	var points []Point
	for i := 0; i < 21; i++ {
		ele := 0.0
		if i%2 == 1 {
			ele = 0.5
		}
		points = append(points, Point{Lat: 24 + float64(i)*0.00001, Lng: 121, Ele: ele})
	}

	raw := ComputeStatistics(points, Options{})
	assert.Greater(t, raw.MaxGradientPct, 30.0)

	merged := ComputeStatistics(points, Options{MinSegmentMeters: 2.0})
	assert.Zero(t, merged.MaxGradientPct)
}

func TestComputeStatistics_ShortTailJoinsPreviousSegment(t *testing.T) {
	// a steady 2% ramp in ~2.2 m steps, then a 0.11 m jitter step rising 0.1 m
	var points []Point
	for i := 0; i <= 20; i++ {
		lat := 24 + float64(i)*0.00002
		d := 0.0
		if i > 0 {
			d = gpx.HaversineDistance(points[i-1].Lat, 121, lat, 121)
		}
		ele := 0.0
		if i > 0 {
			ele = points[i-1].Ele + d*0.02
		}
		points = append(points, Point{Lat: lat, Lng: 121, Ele: ele})
	}
	lastStep := gpx.HaversineDistance(points[19].Lat, 121, points[20].Lat, 121)
	prev := points[len(points)-1]
	tail := Point{Lat: prev.Lat + 0.000001, Lng: 121, Ele: prev.Ele + 0.1}
	tailRun := gpx.HaversineDistance(prev.Lat, 121, tail.Lat, 121)
	require.Less(t, tailRun, 2.0)
	points = append(points, tail)

	stats := ComputeStatistics(points, Options{MinSegmentMeters: 2})

	wantGrade := (lastStep*0.02 + 0.1) / (lastStep + tailRun) * 100
	assert.InDelta(t, wantGrade, stats.MaxGradientPct, 1e-6)
	assert.Less(t, stats.MaxGradientPct, 10.0)
	assert.InDelta(t, (lastStep+tailRun)/1000, stats.Histogram[3], 1e-12)
	assert.Zero(t, stats.Histogram[10])
	assert.Zero(t, stats.Histogram[40])
}

func TestComputeStatistics_TrackShorterThanOneSegment(t *testing.T) {
	points := []Point{
		{Lat: 24, Lng: 121, Ele: 0},
		{Lat: 24.000005, Lng: 121, Ele: 0.05},
	}
	stats := ComputeStatistics(points, Options{MinSegmentMeters: 2})
	assert.Greater(t, stats.MaxGradientPct, 0.0)
	assert.InDelta(t, stats.DistanceKm(), stats.Histogram[3], 1e-12)
}

func TestSmoothElevations(t *testing.T) {
	points := []Point{{Ele: 0}, {Ele: 3}, {Ele: 6}, {Ele: 9}}

	assert.Equal(t, []float64{0, 3, 6, 9}, SmoothElevations(points, 0))
	assert.Equal(t, []float64{1.5, 3, 6, 7.5}, SmoothElevations(points, 1))
}

func TestStatsToClimb(t *testing.T) {
	stats := Stats{
		DistanceMeters:    2500,
		TotalAscentMeters: 200,
		AvgGradientPct:    8,
		MaxGradientPct:    14,
		Histogram:         map[int]float64{3: 2.5, 10: 0.8, 13: 0},
	}
	c := stats.ToClimb("Test Hill", "Somewhere")
	assert.Equal(t, "Test Hill", c.Name)
	assert.Equal(t, 2.5, c.DistanceKm)
	assert.Equal(t, map[int]float64{3: 2.5, 10: 0.8}, c.Histogram)
}

func TestParseTime(t *testing.T) {
	utc := time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T06:30:00Z", utc},
		{"  2024-05-01T06:30:00Z ", utc},
		{"2024-05-01T14:30:00+08:00", utc},
		{"2024-05-01T14:30:00+0800", utc},
		{"2024-05-01T06:30:00.250Z", utc.Add(250 * time.Millisecond)},
		{"2024-05-01T06:30:00", utc},
		{"2024-05-01T06:30:00.5", utc.Add(500 * time.Millisecond)},
		{"2024-05-01 06:30:00", utc},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestFilterByTime(t *testing.T) {
	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	var points []Point
	for i := 0; i < 5; i++ {
		points = append(points, Point{Ele: float64(i), Time: base.Add(time.Duration(i) * time.Minute)})
	}

	got := FilterByTime(points, base.Add(time.Minute), base.Add(3*time.Minute))
	require.Len(t, got, 3, "bounds are inclusive")
	assert.Equal(t, 1.0, got[0].Ele)
	assert.Equal(t, 3.0, got[2].Ele)

	assert.Len(t, FilterByTime(points, time.Time{}, base.Add(time.Minute)), 2)
	assert.Len(t, FilterByTime(points, base.Add(4*time.Minute), time.Time{}), 1)
	assert.Len(t, FilterByTime(points, time.Time{}, time.Time{}), 5)
	assert.Empty(t, FilterByTime(points, base.Add(time.Hour), time.Time{}))
}

func TestPathsCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	points := []Point{
		{Lat: 24.1234567, Lng: 121.7654321, Ele: 812.346, Time: base},
		{Lat: 24.1236, Lng: 121.7655, Ele: 815.5, Time: base.Add(10 * time.Second)},
		{Lat: 24.1238, Lng: 121.7656, Ele: 818},
	}

	path, err := WritePathsCSV(dir, points)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PathsFileName), path)

	got, err := ReadPathsCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 24.123457, got[0].Lat, 1e-9)
	assert.InDelta(t, 812.35, got[0].Ele, 1e-9)
	assert.True(t, base.Add(10*time.Second).Equal(got[1].Time))
	assert.True(t, got[2].Time.IsZero())
}

func TestReadPathsCSV_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	_, err := ReadPathsCSV(write("nolng.csv", "lat,ele\n1,2\n"))
	assert.ErrorContains(t, err, "lng")

	_, err = ReadPathsCSV(write("bad.csv", "lat,lng,ele\n1,x,2\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = ReadPathsCSV(write("empty.csv", "lat,lng,ele,time\n"))
	assert.ErrorIs(t, err, ErrNoPoints)

	got, err := ReadPathsCSV(write("notime.csv", "LAT,LNG,ELE\n24,121,10\n"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="climbcheck" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <trkseg>
      <trkpt lat="24.0002" lon="121.0"><ele>120</ele><time>2024-05-01T06:00:20Z</time></trkpt>
      <trkpt lat="24.0000" lon="121.0"><ele>100</ele><time>2024-05-01T06:00:00Z</time></trkpt>
      <trkpt lat="24.0001" lon="121.0"><time>2024-05-01T06:00:10Z</time></trkpt>
      <trkpt lat="24.0001" lon="121.0"><ele>110</ele><time>2024-05-01T06:00:10Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

const testRouteGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="climbcheck" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <rtept lat="24.0000" lon="121.0"><ele>300</ele></rtept>
    <rtept lat="24.0010" lon="121.0"><ele>350</ele></rtept>
  </rte>
</gpx>`

func TestParseGPX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(testGPX), 0644))

	points, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, points, 3, "the point without elevation is dropped")
	assert.Equal(t, []float64{100, 110, 120}, []float64{points[0].Ele, points[1].Ele, points[2].Ele})
	assert.InDelta(t, 24.0, points[0].Lat, 1e-9)
}

func TestParseGPX_RouteFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.gpx")
	require.NoError(t, os.WriteFile(path, []byte(testRouteGPX), 0644))

	points, err := ParseGPX(path)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 300.0, points[0].Ele)
	assert.True(t, points[0].Time.IsZero())

	stats := ComputeStatistics(points, Options{})
	assert.InDelta(t, 50.0, stats.TotalAscentMeters, 1e-9)
}

func TestParseFile_Unsupported(t *testing.T) {
	_, err := ParseFile("ride.tcx")
	assert.ErrorContains(t, err, "unsupported")
}

func TestParseFIT_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ride.fit")
	require.NoError(t, os.WriteFile(path, []byte("not a fit file"), 0644))

	_, err := ParseFile(path)
	assert.Error(t, err)
}

func TestWriteSlopesCSV_ImportsAsCatalogue(t *testing.T) {
	dir := t.TempDir()
	stats := ComputeStatistics(rampTrack(), Options{MinSegmentMeters: 2.0})

	path, err := WriteSlopesCSV(dir, "Ramp", "Testville", stats)
	require.NoError(t, err)

	climbs, err := catalog.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, climbs, 1)
	c := climbs[0]
	assert.Equal(t, "Ramp", c.Name)
	assert.Equal(t, "Testville", c.Location)
	assert.InDelta(t, stats.DistanceKm(), c.DistanceKm, 0.0005)
	assert.InDelta(t, stats.TotalAscentMeters, c.TotalAscentMeters, 0.005)
	assert.InDelta(t, stats.MaxGradientPct, c.MaxGradientPct, 0.005)
	assert.InDelta(t, stats.Histogram[7], c.Histogram[7], 0.0005)
}
