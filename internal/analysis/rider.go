package analysis

import (
	"math"

	"climbcheck/internal/store"
)

// Physical constants used by the power model
const (
	Gravity           = 9.80665 // m/s²
	DefaultCrr        = 0.0045  // rolling resistance coefficient
	DefaultCdA        = 0.32    // drag coefficient × frontal area, m²
	DefaultAirDensity = 1.226   // kg/m³
)

// Profile clamps
const (
	MinSystemMassKg  = 40.0 // rider + bike + cargo
	MinCadenceRpm    = 30.0 // below this a rider dismounts
	MinClimbSpeedMps = 0.7  // ≈2.5 km/h, below this the bike is walked
	minFTPWatts      = 1.0
	minTeeth         = 1.0
	minWheelMm       = 1.0
)

// Physics holds the aerodynamic and rolling-resistance parameters.
// Zero fields fall back to the defaults.
type Physics struct {
	Crr        float64
	CdA        float64
	AirDensity float64
}

// DefaultPhysics returns the engine's road-bike defaults
func DefaultPhysics() Physics {
	return Physics{
		Crr:        DefaultCrr,
		CdA:        DefaultCdA,
		AirDensity: DefaultAirDensity,
	}
}

func (p Physics) resolved() Physics {
	d := DefaultPhysics()
	if p.Crr > 0 {
		d.Crr = p.Crr
	}
	if p.CdA > 0 {
		d.CdA = p.CdA
	}
	if p.AirDensity > 0 {
		d.AirDensity = p.AirDensity
	}
	return d
}

// Rider is a normalized rider profile. Every field is within its usable range, so
// consuming functions never divide by zero.
type Rider struct {
	FTPWatts             float64
	TotalMassKg          float64
	FrontChainringTeeth  float64
	RearSprocketTeeth    float64
	WheelCircumferenceMm float64
	MinCadenceRpm        float64
	Physics              Physics
}

// NormalizeRider clamps a stored profile into a Rider. It is the only place the
// profile's floors are applied; engine functions re-check at use sites anyway.
func NormalizeRider(p store.RiderProfile, physics Physics) Rider {
	return Rider{
		FTPWatts:             floorAt(p.FTPWatts, minFTPWatts),
		TotalMassKg:          floorAt(p.TotalMassKg(), MinSystemMassKg),
		FrontChainringTeeth:  floorAt(p.FrontChainringTeeth, minTeeth),
		RearSprocketTeeth:    floorAt(p.RearSprocketTeeth, minTeeth),
		WheelCircumferenceMm: floorAt(p.WheelCircumferenceMm, minWheelMm),
		MinCadenceRpm:        floorAt(p.MinCadenceRpm, MinCadenceRpm),
		Physics:              physics.resolved(),
	}
}

// floorAt returns max(v, min), treating NaN as min
func floorAt(v, min float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	return v
}
