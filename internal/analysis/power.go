package analysis

import "math"

// MinSpeed returns the slowest speed the rider can hold while still pedaling:
// lowest gear at minimum cadence, floored at MinClimbSpeedMps
func MinSpeed(r Rider) float64 {
	ratio := floorAt(r.FrontChainringTeeth, minTeeth) / floorAt(r.RearSprocketTeeth, minTeeth)
	circumferenceM := floorAt(r.WheelCircumferenceMm, minWheelMm) / 1000
	cadence := floorAt(r.MinCadenceRpm, MinCadenceRpm)

	speed := GearSpeed(cadence, ratio, circumferenceM)
	return math.Max(speed, MinClimbSpeedMps)
}

// Power returns the steady-state power in watts needed to hold speedMps on gradePct.
// Descents are treated as flat: the model targets climbing effort, not recovery.
//
//	P = (Crr·m·G + m·G·g)·v + ½·ρ·CdA·v²·v
func Power(gradePct, speedMps float64, r Rider) float64 {
	g := floorAt(GradeFraction(gradePct), 0)
	m := floorAt(r.TotalMassKg, MinSystemMassKg)
	v := floorAt(speedMps, 0)
	phys := r.Physics.resolved()

	fRoll := phys.Crr * m * Gravity
	fGravity := m * Gravity * g
	fAero := 0.5 * phys.AirDensity * phys.CdA * v * v

	return (fRoll+fGravity)*v + fAero*v
}
