package analysis

import "strings"

// Suitability is the three-tier difficulty of a climb for a rider
type Suitability int

const (
	Friendly Suitability = iota
	Challenging
	Brutal
)

// Classification thresholds on the FTP ratio
const (
	FriendlyMaxRatio    = 0.85
	ChallengingMaxRatio = 1.05
	BurstRatio          = 1.2
)

// Classify maps an FTP ratio to a tier. Band edges belong to the easier tier.
func Classify(ratio float64) Suitability {
	switch {
	case ratio <= FriendlyMaxRatio:
		return Friendly
	case ratio <= ChallengingMaxRatio:
		return Challenging
	default:
		return Brutal
	}
}

// BurstWarning returns the peak ratio when it exceeds BurstRatio, nil otherwise
func BurstWarning(peakRatio float64) *float64 {
	if peakRatio > BurstRatio {
		r := peakRatio
		return &r
	}
	return nil
}

// String returns the tier's display label
func (s Suitability) String() string {
	switch s {
	case Friendly:
		return "Friendly"
	case Challenging:
		return "Challenging"
	case Brutal:
		return "Brutal"
	default:
		return "Unknown"
	}
}

// Description returns a human-readable assessment of the tier
func (s Suitability) Description() string {
	switch s {
	case Friendly:
		return "Comfortably below threshold"
	case Challenging:
		return "Around threshold, pace it carefully"
	case Brutal:
		return "Above sustainable power for this gearing"
	default:
		return ""
	}
}

// ParseSuitability parses a tier label case-insensitively
func ParseSuitability(s string) (Suitability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "friendly", "easy":
		return Friendly, true
	case "challenging", "hard":
		return Challenging, true
	case "brutal", "infeasible":
		return Brutal, true
	default:
		return 0, false
	}
}
