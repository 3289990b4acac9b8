package track

import (
	"fmt"
	"sort"

	"github.com/tkrajina/gpxgo/gpx"
)

// ParseGPX reads track points from a GPX file, falling back to route points when
// the file has no tracks. Points without elevation are dropped. When the file is
// timed, untimed points are dropped and the rest are ordered by time.
func ParseGPX(path string) ([]Point, error) {
	gpxFile, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing gpx: %w", err)
	}

	var raw []*gpx.GPXPoint
	for ti := range gpxFile.Tracks {
		for si := range gpxFile.Tracks[ti].Segments {
			seg := &gpxFile.Tracks[ti].Segments[si]
			for i := range seg.Points {
				raw = append(raw, &seg.Points[i])
			}
		}
	}
	if len(raw) == 0 {
		for ri := range gpxFile.Routes {
			route := &gpxFile.Routes[ri]
			for i := range route.Points {
				raw = append(raw, &route.Points[i])
			}
		}
	}

	timed := false
	for _, p := range raw {
		if !p.Timestamp.IsZero() {
			timed = true
			break
		}
	}

	points := make([]Point, 0, len(raw))
	for _, p := range raw {
		if !p.Elevation.NotNull() {
			continue
		}
		if timed && p.Timestamp.IsZero() {
			continue
		}
		points = append(points, Point{
			Lat:  p.Point.Latitude,
			Lng:  p.Point.Longitude,
			Ele:  p.Elevation.Value(),
			Time: p.Timestamp,
		})
	}

	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	if timed {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Time.Before(points[j].Time)
		})
	}
	return points, nil
}
