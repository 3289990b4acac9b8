package service

import (
	"sort"
	"strings"

	"climbcheck/internal/analysis"
	"climbcheck/internal/store"
)

// SortOrder selects how Query orders climbs
type SortOrder int

const (
	SortCatalogue SortOrder = iota
	SortName
	SortDistance
	SortDifficulty
)

var sortNames = []string{"catalogue", "name", "distance", "difficulty"}

func (o SortOrder) String() string {
	if int(o) < 0 || int(o) >= len(sortNames) {
		return "unknown"
	}
	return sortNames[o]
}

// Next cycles to the following sort order
func (o SortOrder) Next() SortOrder {
	return SortOrder((int(o) + 1) % len(sortNames))
}

// ParseSortOrder accepts the names returned by SortOrder.String
func ParseSortOrder(s string) (SortOrder, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range sortNames {
		if s == name {
			return SortOrder(i), true
		}
	}
	return SortCatalogue, false
}

// Filter narrows and orders a Query
type Filter struct {
	Search      string                // case-insensitive substring of name or location
	Suitability *analysis.Suitability // nil keeps every tier
	Sort        SortOrder
}

// Query returns enriched climbs matching f. The result is a copy.
func (s *ClimbService) Query(f Filter) []analysis.EnrichedClimb {
	snap := s.Snapshot()
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]analysis.EnrichedClimb, 0, len(snap.Climbs))
	for _, c := range snap.Climbs {
		if f.Suitability != nil && c.Suitability != *f.Suitability {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Location), needle) {
			continue
		}
		result = append(result, c)
	}

	switch f.Sort {
	case SortName:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	case SortDistance:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Climb.DistanceKm < result[j].Climb.DistanceKm
		})
	case SortDifficulty:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].DifficultyRatio() < result[j].DifficultyRatio()
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Climb.Position < result[j].Climb.Position
		})
	}
	return result
}

// Find returns the enriched climb with the given name, ignoring case
func (s *ClimbService) Find(name string) (*analysis.EnrichedClimb, error) {
	want := strings.TrimSpace(name)
	for _, c := range s.Snapshot().Climbs {
		if strings.EqualFold(c.Name, want) {
			return &c, nil
		}
	}
	return nil, store.ErrClimbNotFound
}

// CountBySuitability tallies the enriched batch per tier
func (s *ClimbService) CountBySuitability() map[analysis.Suitability]int {
	counts := map[analysis.Suitability]int{}
	for _, c := range s.Snapshot().Climbs {
		counts[c.Suitability]++
	}
	return counts
}
