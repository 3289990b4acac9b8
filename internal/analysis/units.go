package analysis

import "fmt"

// GearSpeed returns road speed in m/s for a cadence (rpm), gear ratio
// (front/rear teeth) and wheel circumference in meters
func GearSpeed(cadenceRpm, gearRatio, circumferenceM float64) float64 {
	return cadenceRpm * gearRatio * circumferenceM / 60
}

// GradeFraction converts a percent grade to rise/run
func GradeFraction(gradePct float64) float64 {
	return gradePct / 100
}

// MpsToKmh converts meters per second to kilometers per hour
func MpsToKmh(mps float64) float64 {
	return mps * 3.6
}

// FormatDuration formats seconds as h:mm:ss, or m:ss under an hour
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0:00"
	}
	total := int(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
