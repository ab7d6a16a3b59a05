package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	state   models.PersistedState
	saves   int
	clears  int
	saveErr error
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = models.PersistedState{}
	m.clears++
	return nil
}

func (m *memStore) Save(s models.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = s
	m.saves++
	return nil
}

func (m *memStore) Load() (models.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *memStore) *FarmService {
	t.Helper()
	n := 0
	svc, err := NewFarmService(store,
		WithRandom(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("f%d", n)
		}),
	)
	require.NoError(t, err)
	return svc
}

func drawSquare(t *testing.T, svc *FarmService, minLng, minLat, size float64) {
	t.Helper()
	for _, c := range []models.Coordinate{
		{Lng: minLng, Lat: minLat},
		{Lng: minLng, Lat: minLat + size},
		{Lng: minLng + size, Lat: minLat + size},
		{Lng: minLng + size, Lat: minLat},
	} {
		_, err := svc.AddVertex(c)
		require.NoError(t, err)
	}
}

// withFarmAndPaddock builds farm f1 (10x10) holding paddock f2
func withFarmAndPaddock(t *testing.T, svc *FarmService) {
	t.Helper()
	_, err := svc.Transition(models.StateDrawingFarm)
	require.NoError(t, err)
	drawSquare(t, svc, 0, 0, 10)
	_, err = svc.CompleteFarm("Home")
	require.NoError(t, err)

	_, err = svc.Transition(models.StateDrawingPaddock)
	require.NoError(t, err)
	drawSquare(t, svc, 2, 2, 3)
	_, err = svc.CompletePaddock(models.PaddockDetails{Name: "North Flat", Capacity: 50})
	require.NoError(t, err)
}

func TestNewFarmServiceEmpty(t *testing.T) {
	svc := newTestService(t, &memStore{})

	snap := svc.Snapshot()
	assert.Equal(t, models.StateInitial, snap.AppState)
	assert.Equal(t, []models.AppState{models.StateDrawingFarm}, snap.NextStates)
	assert.Empty(t, svc.Livestock())
}

func TestDrawingPersists(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	withFarmAndPaddock(t, svc)

	assert.Equal(t, models.StatePaddockMode, store.state.AppState)
	assert.Equal(t, "f1", store.state.SelectedFarmID)
	assert.Len(t, store.state.Collection.Features, 2)

	records := svc.Livestock()
	require.Len(t, records, 1)
	assert.Equal(t, "f2", records[0].PaddockID)
	assert.Equal(t, fixedNow, records[0].LastUpdated)
	assert.GreaterOrEqual(t, records[0].Count, 20)
	assert.LessOrEqual(t, records[0].Count, 620)
}

func TestDraftIsNotPersisted(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	_, err := svc.Transition(models.StateDrawingFarm)
	require.NoError(t, err)
	saves := store.saves

	snap, err := svc.AddVertex(models.Coordinate{Lng: 1, Lat: 2})
	require.NoError(t, err)
	assert.Len(t, snap.Draft, 1)
	snap, err = svc.UndoVertex()
	require.NoError(t, err)
	assert.Empty(t, snap.Draft)
	assert.Equal(t, saves, store.saves)
}

func TestRestartRestoresAndRegenerates(t *testing.T) {
	store := &memStore{}
	withFarmAndPaddock(t, newTestService(t, store))

	restarted := newTestService(t, store)
	snap := restarted.Snapshot()
	assert.Equal(t, 1, snap.FarmCount)
	assert.Equal(t, 1, snap.PaddockCount)
	assert.Equal(t, "f1", snap.SelectedFarmID)
	assert.Len(t, restarted.Livestock(), 1)
}

func TestDeleteFeatureRegeneratesLivestock(t *testing.T) {
	svc := newTestService(t, &memStore{})
	withFarmAndPaddock(t, svc)

	require.NoError(t, svc.DeleteFeature("f2"))
	assert.Empty(t, svc.Livestock())
	assert.ErrorIs(t, svc.DeleteFeature("f2"), session.ErrFeatureNotFound)

	require.NoError(t, svc.DeleteFeature("f1"))
	assert.Equal(t, models.StateInitial, svc.Snapshot().AppState)
}

func TestPaddocksForFarm(t *testing.T) {
	svc := newTestService(t, &memStore{})
	withFarmAndPaddock(t, svc)

	paddocks, err := svc.PaddocksForFarm("f1")
	require.NoError(t, err)
	require.Len(t, paddocks, 1)
	assert.Equal(t, "North Flat", paddocks[0].Name)

	_, err = svc.PaddocksForFarm("f2")
	assert.ErrorIs(t, err, session.ErrNotAFarm)
	_, err = svc.PaddocksForFarm("nope")
	assert.ErrorIs(t, err, session.ErrFeatureNotFound)
}

func TestRenderedCollections(t *testing.T) {
	svc := newTestService(t, &memStore{})
	assert.Empty(t, svc.HeatmapCollection().Features)

	withFarmAndPaddock(t, svc)
	assert.Len(t, svc.PolygonCollection().Features, 2)
	assert.Len(t, svc.LabelCollection().Features, 1)

	livestock := svc.LivestockCollection()
	require.Len(t, livestock.Features, 1)
	assert.Equal(t, models.Coordinate{Lng: 3.2, Lat: 3.2}, livestock.Features[0].Geometry.Coordinates)

	heat := svc.HeatmapCollection()
	assert.NotEmpty(t, heat.Features)
}

func TestRegenerateLivestockKeepsOneRecordPerPaddock(t *testing.T) {
	svc := newTestService(t, &memStore{})
	withFarmAndPaddock(t, svc)

	for i := 0; i < 5; i++ {
		records := svc.RegenerateLivestock()
		require.Len(t, records, 1)
		assert.Contains(t, []models.LivestockType{models.LivestockCattle, models.LivestockSheep}, records[0].Type)
		assert.NotEqual(t, models.StatusQuarantine, records[0].Status)
	}
}

func TestResetClearsStore(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	withFarmAndPaddock(t, svc)

	require.NoError(t, svc.Reset())
	assert.Equal(t, 1, store.clears)
	assert.Empty(t, store.state.Collection.Features)
	assert.Empty(t, store.state.SelectedFarmID)
	assert.Equal(t, models.StateInitial, store.state.AppState)
	assert.Empty(t, svc.Livestock())
}

func TestPersistFailureIsReported(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	store.saveErr = errors.New("disk full")

	_, err := svc.Transition(models.StateDrawingFarm)
	assert.ErrorContains(t, err, "disk full")
}

func TestValidatePaddock(t *testing.T) {
	farm := models.Ring{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 10}, {Lng: 4, Lat: 10}, {Lng: 4, Lat: 3}, {Lng: 6, Lat: 3}, {Lng: 6, Lat: 10}, {Lng: 10, Lat: 10}, {Lng: 10, Lat: 0}}
	bridge := models.Ring{{Lng: 2, Lat: 5}, {Lng: 2, Lat: 6}, {Lng: 8, Lat: 6}, {Lng: 8, Lat: 5}}
	inner := models.Ring{{Lng: 1, Lat: 1}, {Lng: 1, Lat: 2}, {Lng: 2, Lat: 2}, {Lng: 1, Lat: 1}}

	v, err := ValidatePaddock(bridge, farm)
	require.NoError(t, err)
	assert.True(t, v.Within)
	assert.False(t, v.StrictWithin)

	v, err = ValidatePaddock(inner, farm)
	require.NoError(t, err)
	assert.Equal(t, Validation{Within: true, StrictWithin: true}, v)

	_, err = ValidatePaddock(inner[:2], farm)
	assert.ErrorIs(t, err, session.ErrTooFewVertices)
}

func TestConcurrentAccess(t *testing.T) {
	svc := newTestService(t, &memStore{})
	withFarmAndPaddock(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RegenerateLivestock()
			svc.HeatmapCollection()
			svc.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, svc.Livestock(), 1)
}
