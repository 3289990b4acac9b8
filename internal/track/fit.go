package track

import (
	"fmt"
	"math"
	"os"

	"github.com/tormoder/fit"
)

// ParseFIT reads activity records that carry a position, an altitude and a
// timestamp
func ParseFIT(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fit file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding fit file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("reading fit activity: %w", err)
	}

	points := make([]Point, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil || rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		if rec.Timestamp.IsZero() || fit.IsBaseTime(rec.Timestamp) {
			continue
		}
		alt, ok := recordAltitude(rec)
		if !ok {
			continue
		}
		points = append(points, Point{
			Lat:  rec.PositionLat.Degrees(),
			Lng:  rec.PositionLong.Degrees(),
			Ele:  alt,
			Time: rec.Timestamp.UTC(),
		})
	}

	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	return points, nil
}

// recordAltitude prefers the enhanced altitude field
func recordAltitude(rec *fit.RecordMsg) (float64, bool) {
	alt := rec.GetEnhancedAltitudeScaled()
	if !math.IsNaN(alt) && !math.IsInf(alt, 0) {
		return alt, true
	}
	alt = rec.GetAltitudeScaled()
	if !math.IsNaN(alt) && !math.IsInf(alt, 0) {
		return alt, true
	}
	return 0, false
}
