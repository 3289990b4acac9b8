package tui

import (
	"fmt"

	"climbcheck/internal/config"
)

const (
	kmPerMile    = 1.609344
	feetPerMeter = 3.28084
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}

// FormatDistance formats a distance in kilometres to the user's preferred unit
func (u Units) FormatDistance(km float64) string {
	return u.FormatDistanceValue(km) + " " + u.DistanceLabel()
}

// FormatDistanceValue returns just the numeric distance value (no unit label)
func (u Units) FormatDistanceValue(km float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f", km/kmPerMile)
	}
	return fmt.Sprintf("%.1f", km)
}

// DistanceValue converts kilometres to the preferred unit
func (u Units) DistanceValue(km float64) float64 {
	if u.IsMiles() {
		return km / kmPerMile
	}
	return km
}

// FormatSpeed formats a speed in m/s as km/h or mph
func (u Units) FormatSpeed(mps float64) string {
	kmh := mps * 3.6
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mph", kmh/kmPerMile)
	}
	return fmt.Sprintf("%.1f km/h", kmh)
}

// FormatElevation formats metres as m or ft
func (u Units) FormatElevation(m float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.0f ft", m*feetPerMeter)
	}
	return fmt.Sprintf("%.0f m", m)
}

// ElevationValue converts metres to the preferred unit
func (u Units) ElevationValue(m float64) float64 {
	if u.IsMiles() {
		return m * feetPerMeter
	}
	return m
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// ElevationLabel returns "ft" or "m"
func (u Units) ElevationLabel() string {
	if u.IsMiles() {
		return "ft"
	}
	return "m"
}
