package analysis

import (
	"math"

	"climbcheck/internal/store"
)

// MinSustainedKm is the shortest distance at a gradient that counts as a sustained
// effort. Shorter stretches are punchy and do not define the climb.
const MinSustainedKm = 0.2

// SustainedRatio scans the gradient-distance histogram for the hardest gradient the
// rider has to hold for at least MinSustainedKm and returns the power needed for it
// at speedMps divided by FTP.
//
// Histogram distance is capped at totalDistanceKm when that is positive. When no
// threshold clears the floor the climb is described by its average and fallback is
// returned.
func SustainedRatio(histogram map[int]float64, r Rider, speedMps, ftpWatts, totalDistanceKm, fallback float64) float64 {
	ftp := floorAt(ftpWatts, minFTPWatts)

	best := 0.0
	found := false
	for _, threshold := range store.GradientThresholds {
		km := histogram[threshold]
		if totalDistanceKm > 0 {
			km = math.Min(km, totalDistanceKm)
		}
		if !(km >= MinSustainedKm) {
			continue
		}

		ratio := Power(float64(threshold), speedMps, r) / ftp
		if !found || ratio > best {
			best = ratio
			found = true
		}
	}

	if !found {
		return fallback
	}
	return best
}
