package service

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climbcheck/internal/analysis"
	"climbcheck/internal/catalog"
	"climbcheck/internal/store"
	"climbcheck/internal/track"
)

const testCatalogue = `name,location,distance_km,ascent_m,avg_gradient,max_gradient,over_3,over_10,path_group
Flat Road,Riverside,5,50,1,2,0,0,
Steep Wall,Hill Town,2,300,15,20,2,1.5,wall
Middle Climb,Riverside,8,500,6,9,6,0,
`

func testRider() store.RiderProfile {
	return store.RiderProfile{
		FTPWatts:             240,
		RiderWeightKg:        60,
		BikeWeightKg:         9,
		CargoWeightKg:        3,
		FrontChainringTeeth:  34,
		RearSprocketTeeth:    32,
		WheelCircumferenceMm: 2096,
		MinCadenceRpm:        70,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestService(t *testing.T) (*ClimbService, *store.Store) {
	t.Helper()
	db := store.NewTestStore(t)
	return NewClimbService(db, analysis.DefaultPhysics(), testRider(), nil), db
}

func importTestCatalogue(t *testing.T, svc *ClimbService) {
	t.Helper()
	path := writeFile(t, t.TempDir(), "climbs.csv", testCatalogue)
	_, err := svc.Import(path)
	require.NoError(t, err)
}

func TestClimbService_LoadWithoutCatalogue(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Load()
	assert.ErrorIs(t, err, store.ErrNoCatalogue)
	assert.Equal(t, catalog.StateError, svc.Status().State)
	assert.Empty(t, svc.Snapshot().Climbs)
}

func TestClimbService_Import(t *testing.T) {
	svc, db := newTestService(t)

	var mu sync.Mutex
	var states []catalog.LoadState
	unsubscribe := svc.Subscribe(func(s Snapshot) {
		mu.Lock()
		states = append(states, s.Status.State)
		mu.Unlock()
	})
	defer unsubscribe()

	path := writeFile(t, t.TempDir(), "climbs.csv", testCatalogue)
	imported, err := svc.Import(path)
	require.NoError(t, err)
	assert.Equal(t, 3, imported.ClimbCount)
	assert.NotEmpty(t, imported.ID)

	snap := svc.Snapshot()
	assert.True(t, snap.Status.Ready())
	assert.Equal(t, "3 climbs loaded", snap.Status.Message)
	require.Len(t, snap.Climbs, 3)
	assert.Equal(t, "Flat Road", snap.Climbs[0].Name)
	assert.Equal(t, analysis.Friendly, snap.Climbs[0].Suitability)
	assert.Equal(t, analysis.Brutal, snap.Climbs[1].Suitability)

	mu.Lock()
	assert.Equal(t, []catalog.LoadState{catalog.StateLoading, catalog.StateReady}, states)
	mu.Unlock()

	stored, err := db.ListClimbs()
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestClimbService_FailedImportKeepsPrevious(t *testing.T) {
	svc, db := newTestService(t)
	importTestCatalogue(t, svc)
	before := svc.Snapshot().Import

	bad := writeFile(t, t.TempDir(), "bad.csv", "name,location,distance_km\nA,B,1\n")
	_, err := svc.Import(bad)

	var missing *catalog.MissingColumnError
	require.True(t, errors.As(err, &missing), "got %v", err)

	snap := svc.Snapshot()
	assert.True(t, snap.Status.Ready())
	assert.Len(t, snap.Climbs, 3)
	assert.Equal(t, before.ID, snap.Import.ID)

	stored, err := db.ListClimbs()
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestClimbService_FailedFirstImport(t *testing.T) {
	svc, _ := newTestService(t)

	bad := writeFile(t, t.TempDir(), "bad.csv", "name,location,distance_km,ascent_m,avg_gradient,max_gradient\nA,B,x,1,1,1\n")
	_, err := svc.Import(bad)

	var rowErr *catalog.RowError
	require.True(t, errors.As(err, &rowErr), "got %v", err)
	assert.Equal(t, 2, rowErr.Line)
	assert.Equal(t, catalog.StateError, svc.Status().State)
	assert.Empty(t, svc.Snapshot().Climbs)
}

func TestClimbService_LoadRestoresStoredState(t *testing.T) {
	svc, db := newTestService(t)
	importTestCatalogue(t, svc)

	stronger := testRider()
	stronger.FTPWatts = 400
	require.NoError(t, svc.SetRider(stronger))

	reopened := NewClimbService(db, analysis.DefaultPhysics(), testRider(), nil)
	require.NoError(t, reopened.Load())

	assert.Equal(t, 400.0, reopened.Rider().FTPWatts)
	require.Len(t, reopened.Snapshot().Climbs, 3)
	assert.Equal(t, svc.Snapshot().Climbs, reopened.Snapshot().Climbs)
}

func TestClimbService_SetRider(t *testing.T) {
	svc, db := newTestService(t)
	importTestCatalogue(t, svc)

	wall, err := svc.Find("steep wall")
	require.NoError(t, err)
	assert.Equal(t, analysis.Brutal, wall.Suitability)

	stronger := testRider()
	stronger.FTPWatts = 400
	require.NoError(t, svc.SetRider(stronger))

	wall, err = svc.Find("Steep Wall")
	require.NoError(t, err)
	assert.Equal(t, analysis.Friendly, wall.Suitability)

	saved, err := db.GetRiderProfile(testRider())
	require.NoError(t, err)
	assert.Equal(t, stronger, *saved)
}

func TestClimbService_OverrideRiderDoesNotPersist(t *testing.T) {
	svc, db := newTestService(t)
	importTestCatalogue(t, svc)

	stronger := testRider()
	stronger.FTPWatts = 400
	svc.OverrideRider(stronger)

	assert.Equal(t, 400.0, svc.Rider().FTPWatts)
	wall, err := svc.Find("Steep Wall")
	require.NoError(t, err)
	assert.Equal(t, analysis.Friendly, wall.Suitability)

	_, err = db.GetRiderProfile(testRider())
	assert.ErrorIs(t, err, store.ErrNoRiderProfile)
}

func TestClimbService_RiderBeforeCatalogue(t *testing.T) {
	svc, _ := newTestService(t)

	svc.OverrideRider(testRider())
	assert.Empty(t, svc.Snapshot().Climbs, "nothing is enriched until the catalogue is ready")
}

func TestClimbService_Query(t *testing.T) {
	svc, _ := newTestService(t)
	importTestCatalogue(t, svc)

	names := func(climbs []analysis.EnrichedClimb) []string {
		var out []string
		for _, c := range climbs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Flat Road", "Steep Wall", "Middle Climb"}, names(svc.Query(Filter{})))
	assert.Equal(t, []string{"Steep Wall"}, names(svc.Query(Filter{Search: "WALL"})))
	assert.Equal(t, []string{"Flat Road", "Middle Climb"}, names(svc.Query(Filter{Search: "riverside"})))

	brutal := analysis.Brutal
	assert.Equal(t, []string{"Steep Wall"}, names(svc.Query(Filter{Suitability: &brutal})))

	assert.Equal(t, []string{"Flat Road", "Middle Climb", "Steep Wall"}, names(svc.Query(Filter{Sort: SortName})))
	assert.Equal(t, []string{"Steep Wall", "Flat Road", "Middle Climb"}, names(svc.Query(Filter{Sort: SortDistance})))
	assert.Equal(t, []string{"Flat Road", "Middle Climb", "Steep Wall"}, names(svc.Query(Filter{Sort: SortDifficulty})))

	assert.Empty(t, svc.Query(Filter{Search: "nowhere"}))
}

func TestClimbService_QueryReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t)
	importTestCatalogue(t, svc)

	result := svc.Query(Filter{})
	result[0].Name = "changed"
	assert.Equal(t, "Flat Road", svc.Snapshot().Climbs[0].Name)
}

func TestClimbService_Find(t *testing.T) {
	svc, _ := newTestService(t)
	importTestCatalogue(t, svc)

	_, err := svc.Find("Missing")
	assert.ErrorIs(t, err, store.ErrClimbNotFound)

	counts := svc.CountBySuitability()
	assert.Equal(t, 3, counts[analysis.Friendly]+counts[analysis.Challenging]+counts[analysis.Brutal])
	assert.Equal(t, 1, counts[analysis.Brutal])
}

func TestClimbService_Detail(t *testing.T) {
	svc, _ := newTestService(t)
	importTestCatalogue(t, svc)

	pathsDir := t.TempDir()
	svc.SetPathsDir(pathsDir)

	// no trace file yet
	detail, err := svc.Detail("Steep Wall")
	require.NoError(t, err)
	assert.Nil(t, detail.Elevation)
	require.Len(t, detail.Histogram, len(store.GradientThresholds))
	assert.Equal(t, 3, detail.Histogram[0].Threshold)
	assert.Equal(t, 100.0, detail.Histogram[0].Percent)
	assert.Equal(t, 1.5, detail.Histogram[3].DistanceKm)
	assert.Equal(t, 75.0, detail.Histogram[3].Percent)

	var points []track.Point
	for i := 0; i < 300; i++ {
		points = append(points, track.Point{Lat: 24 + float64(i)*0.0001, Lng: 121, Ele: 100 + float64(i)})
	}
	written, err := track.WritePathsCSV(pathsDir, points)
	require.NoError(t, err)
	require.NoError(t, os.Rename(written, filepath.Join(pathsDir, "wall.csv")))

	detail, err = svc.Detail("Steep Wall")
	require.NoError(t, err)
	require.Len(t, detail.Elevation, ElevationChartPoints)
	assert.Equal(t, 100.0, detail.Elevation[0].Ele)
	assert.Equal(t, 399.0, detail.Elevation[len(detail.Elevation)-1].Ele)

	flat, err := svc.Detail("Flat Road")
	require.NoError(t, err)
	assert.Nil(t, flat.Elevation, "a climb without a path group has no trace")
}

func TestClimbService_ElevationBadTrace(t *testing.T) {
	svc, _ := newTestService(t)
	pathsDir := t.TempDir()
	svc.SetPathsDir(pathsDir)
	writeFile(t, pathsDir, "broken.csv", "lat,lng,ele\n1,2\n")

	_, err := svc.Elevation(store.Climb{Name: "Broken", PathGroupID: "broken"})
	assert.Error(t, err)
}

func TestListeners(t *testing.T) {
	l := newListeners[int]()
	var first, second []int
	removeFirst := l.add(func(v int) { first = append(first, v) })
	l.add(func(v int) { second = append(second, v) })

	l.notify(1)
	removeFirst()
	l.notify(2)

	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{1, 2}, second)
	assert.Panics(t, func() { l.add(nil) })
}

func TestListeners_RemoveDuringNotify(t *testing.T) {
	l := newListeners[int]()
	var calls int
	var remove func()
	remove = l.add(func(int) {
		calls++
		remove()
	})

	l.notify(1)
	l.notify(2)
	assert.Equal(t, 1, calls)
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, "difficulty", SortDifficulty.String())
	assert.Equal(t, SortName, SortCatalogue.Next())
	assert.Equal(t, SortCatalogue, SortDifficulty.Next())
	assert.Equal(t, "unknown", SortOrder(9).String())

	o, ok := ParseSortOrder(" Distance ")
	assert.True(t, ok)
	assert.Equal(t, SortDistance, o)
	_, ok = ParseSortOrder("altitude")
	assert.False(t, ok)
}
