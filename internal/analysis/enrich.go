package analysis

import (
	"math"

	"climbcheck/internal/store"
)

// EnrichedClimb holds the derived metrics of one climb for one rider.
// It is recomputed whenever the rider or catalogue changes and never persisted.
type EnrichedClimb struct {
	Name     string
	Location string
	Climb    store.Climb

	MinSpeedMps       float64
	AveragePowerWatts float64
	PeakPowerWatts    float64
	AverageFtpRatio   float64
	PeakFtpRatio      float64
	SustainedFtpRatio float64
	ClimbTimeSeconds  float64

	Suitability       Suitability
	BurstWarningRatio *float64 // set only when PeakFtpRatio > BurstRatio
}

// DifficultyRatio is the ratio the suitability tier was derived from
func (e EnrichedClimb) DifficultyRatio() float64 {
	return math.Max(e.AverageFtpRatio, e.SustainedFtpRatio)
}

// EnrichOne derives all metrics for a climb. The peak gradient is evaluated at the
// same minimum speed: the rider is not assumed to speed up on the steepest part.
func EnrichOne(c store.Climb, r Rider) EnrichedClimb {
	e := EnrichedClimb{
		Name:     c.Name,
		Location: c.Location,
		Climb:    c,
	}

	e.MinSpeedMps = MinSpeed(r)
	e.AveragePowerWatts = Power(c.AvgGradientPct, e.MinSpeedMps, r)
	e.PeakPowerWatts = Power(c.MaxGradientPct, e.MinSpeedMps, r)

	if e.MinSpeedMps > 0 {
		e.ClimbTimeSeconds = c.DistanceKm * 1000 / e.MinSpeedMps
	}

	ftp := floorAt(r.FTPWatts, minFTPWatts)
	e.AverageFtpRatio = e.AveragePowerWatts / ftp
	e.PeakFtpRatio = e.PeakPowerWatts / ftp
	e.SustainedFtpRatio = SustainedRatio(c.Histogram, r, e.MinSpeedMps, ftp, c.DistanceKm, e.AverageFtpRatio)

	e.Suitability = Classify(e.DifficultyRatio())
	e.BurstWarningRatio = BurstWarning(e.PeakFtpRatio)

	return e
}

// EnrichAll enriches a whole catalogue, preserving order
func EnrichAll(climbs []store.Climb, r Rider) []EnrichedClimb {
	out := make([]EnrichedClimb, len(climbs))
	for i, c := range climbs {
		out[i] = EnrichOne(c, r)
	}
	return out
}
