package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"climbcheck/internal/analysis"
	"climbcheck/internal/catalog"
	"climbcheck/internal/store"
)

// Snapshot is an immutable view of the enriched catalogue
type Snapshot struct {
	Status catalog.Status
	Rider  store.RiderProfile
	Import *store.CatalogueImport
	Climbs []analysis.EnrichedClimb
}

// ClimbService owns the catalogue, the rider profile and the enriched batch
type ClimbService struct {
	store    *store.Store
	physics  analysis.Physics
	defaults store.RiderProfile
	pathsDir string
	logger   *log.Logger

	mu       sync.RWMutex
	status   catalog.Status
	rider    store.RiderProfile
	imported *store.CatalogueImport
	raw      []store.Climb
	enriched []analysis.EnrichedClimb

	subscribers *listeners[Snapshot]
}

// NewClimbService creates a climb service. defaults is the rider used until a
// profile has been saved.
func NewClimbService(db *store.Store, physics analysis.Physics, defaults store.RiderProfile, logger *log.Logger) *ClimbService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ClimbService{
		store:       db,
		physics:     physics,
		defaults:    defaults,
		rider:       defaults,
		logger:      logger,
		subscribers: newListeners[Snapshot](),
	}
}

// SetPathsDir sets the directory holding per-climb elevation traces
func (s *ClimbService) SetPathsDir(dir string) {
	s.mu.Lock()
	s.pathsDir = dir
	s.mu.Unlock()
}

// Subscribe registers fn for snapshot changes and returns an unsubscribe func
func (s *ClimbService) Subscribe(fn func(Snapshot)) func() {
	return s.subscribers.add(fn)
}

// Snapshot returns the current state
func (s *ClimbService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ClimbService) snapshotLocked() Snapshot {
	return Snapshot{
		Status: s.status,
		Rider:  s.rider,
		Import: s.imported,
		Climbs: s.enriched,
	}
}

// Status returns the catalogue load state
func (s *ClimbService) Status() catalog.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Rider returns the active rider profile
func (s *ClimbService) Rider() store.RiderProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rider
}

// Load reads the stored catalogue and rider profile and enriches the batch.
// It returns store.ErrNoCatalogue when nothing has been imported yet.
func (s *ClimbService) Load() error {
	s.begin()

	rider, err := s.store.GetRiderProfile(s.defaults)
	switch {
	case errors.Is(err, store.ErrNoRiderProfile):
		rider = &s.defaults
	case err != nil:
		s.fail(err)
		return fmt.Errorf("loading rider profile: %w", err)
	}

	imported, err := s.store.LatestImport()
	if err != nil {
		s.fail(err)
		if errors.Is(err, store.ErrNoCatalogue) {
			return err
		}
		return fmt.Errorf("loading catalogue: %w", err)
	}

	climbs, err := s.store.ListClimbs()
	if err != nil {
		s.fail(err)
		return fmt.Errorf("loading climbs: %w", err)
	}

	s.mu.Lock()
	s.rider = *rider
	s.imported = imported
	s.raw = climbs
	s.swapLocked(len(climbs), nil)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Printf("loaded %d climbs from %s", len(climbs), imported.Source)
	s.subscribers.notify(snap)
	return nil
}

// Import parses a catalogue CSV and replaces the stored catalogue with it. A
// failed import leaves the previous catalogue in place.
func (s *ClimbService) Import(path string) (*store.CatalogueImport, error) {
	prev := s.begin()

	climbs, err := catalog.LoadFile(path)
	if err == nil {
		var imported *store.CatalogueImport
		imported, err = s.store.ReplaceClimbs(path, climbs)
		if err == nil {
			// reread so the batch carries its stored ids
			climbs, err = s.store.ListClimbs()
		}
		if err == nil {
			s.mu.Lock()
			s.imported = imported
			s.raw = climbs
			s.swapLocked(len(climbs), nil)
			snap := s.snapshotLocked()
			s.mu.Unlock()

			s.logger.Printf("imported %d climbs from %s (batch %s)", len(climbs), path, imported.ID)
			s.subscribers.notify(snap)
			return imported, nil
		}
		err = fmt.Errorf("storing catalogue: %w", err)
	}

	s.logger.Printf("import of %s failed: %v", path, err)
	if prev.Ready() {
		// keep serving the previous batch
		s.mu.Lock()
		s.status = prev
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.subscribers.notify(snap)
	} else {
		s.fail(err)
	}
	return nil, err
}

// SetRider persists p and re-enriches the catalogue for it
func (s *ClimbService) SetRider(p store.RiderProfile) error {
	if err := s.store.SaveRiderProfile(p); err != nil {
		return fmt.Errorf("saving rider profile: %w", err)
	}
	s.logger.Printf("rider profile saved (ftp %.0f W, %.1f kg total)", p.FTPWatts, p.TotalMassKg())
	s.OverrideRider(p)
	return nil
}

// OverrideRider re-enriches the catalogue for p without saving it
func (s *ClimbService) OverrideRider(p store.RiderProfile) {
	s.mu.Lock()
	s.rider = p
	if s.status.Ready() {
		s.enriched = analysis.EnrichAll(s.raw, analysis.NormalizeRider(p, s.physics))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subscribers.notify(snap)
}

// begin moves to loading and returns the previous status
func (s *ClimbService) begin() catalog.Status {
	s.mu.Lock()
	prev := s.status
	s.status = s.status.Begin()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subscribers.notify(snap)
	return prev
}

func (s *ClimbService) fail(err error) {
	s.mu.Lock()
	s.status = s.status.Finish(0, err)
	s.enriched = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subscribers.notify(snap)
}

// swapLocked finishes the load and replaces the enriched batch in one step.
// Callers hold s.mu.
func (s *ClimbService) swapLocked(count int, err error) {
	s.status = s.status.Finish(count, err)
	if !s.status.Ready() {
		s.enriched = nil
		return
	}
	s.enriched = analysis.EnrichAll(s.raw, analysis.NormalizeRider(s.rider, s.physics))
}
