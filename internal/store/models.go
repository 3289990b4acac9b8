package store

import "time"

// GradientThresholds are the histogram buckets a climb record may carry, in percent.
// Each bucket holds the cumulative distance in km at or above that gradient.
var GradientThresholds = []int{3, 5, 7, 10, 13, 17, 20, 25, 30, 40}

// Climb represents one catalogued climb
type Climb struct {
	ID                int64           `db:"id"`
	Position          int             `db:"position"` // order within the imported catalogue
	Name              string          `db:"name"`
	Location          string          `db:"location"`
	DistanceKm        float64         `db:"distance_km"`
	TotalAscentMeters float64         `db:"ascent_m"`
	AvgGradientPct    float64         `db:"avg_gradient"`
	MaxGradientPct    float64         `db:"max_gradient"`
	Histogram         map[int]float64 `db:"-"`          // threshold -> km at or above
	PathGroupID       string          `db:"path_group"` // empty when no elevation trace exists
}

// DistanceAtOrAbove returns the histogram distance for a threshold, 0 when absent.
func (c Climb) DistanceAtOrAbove(threshold int) float64 {
	if c.Histogram == nil {
		return 0
	}
	return c.Histogram[threshold]
}

// CatalogueImport records one atomic replacement of the climb catalogue
type CatalogueImport struct {
	ID         string    `db:"id"` // uuid
	Source     string    `db:"source"`
	ClimbCount int       `db:"climb_count"`
	ImportedAt time.Time `db:"imported_at"`
}

// RiderProfile is the persisted rider configuration. Values are stored as entered;
// clamping into physically usable ranges happens in analysis.NormalizeRider.
type RiderProfile struct {
	FTPWatts             float64 `json:"ftpWatts" yaml:"ftp_watts"`
	RiderWeightKg        float64 `json:"riderWeightKg" yaml:"rider_weight_kg"`
	BikeWeightKg         float64 `json:"bikeWeightKg" yaml:"bike_weight_kg"`
	CargoWeightKg        float64 `json:"cargoWeightKg" yaml:"cargo_weight_kg"`
	FrontChainringTeeth  float64 `json:"frontChainringTeeth" yaml:"front_chainring_teeth"`
	RearSprocketTeeth    float64 `json:"rearSprocketTeeth" yaml:"rear_sprocket_teeth"`
	WheelCircumferenceMm float64 `json:"wheelCircumferenceMm" yaml:"wheel_circumference_mm"`
	MinCadenceRpm        float64 `json:"minCadenceRpm" yaml:"min_cadence_rpm"`
}

// TotalMassKg sums rider, bike and cargo weight with negative parts treated as zero
func (p RiderProfile) TotalMassKg() float64 {
	total := 0.0
	for _, w := range []float64{p.RiderWeightKg, p.BikeWeightKg, p.CargoWeightKg} {
		if w > 0 {
			total += w
		}
	}
	return total
}
