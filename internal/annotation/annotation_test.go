package annotation

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRandom returns queued values, each reduced modulo n
type scriptedRandom struct {
	values []int
	calls  []int
}

func (s *scriptedRandom) IntN(n int) int {
	s.calls = append(s.calls, n)
	v := s.values[0] % n
	s.values = s.values[1:]
	return v
}

func square(minLng, minLat, size float64) models.Ring {
	return models.Ring{
		{Lng: minLng, Lat: minLat},
		{Lng: minLng, Lat: minLat + size},
		{Lng: minLng + size, Lat: minLat + size},
		{Lng: minLng + size, Lat: minLat},
		{Lng: minLng, Lat: minLat},
	}
}

func sampleCollection() models.PolygonCollection {
	return models.PolygonCollection{Features: []models.Feature{
		&models.Farm{ID: "farm-1", Name: "Home", Ring: square(0, 0, 10)},
		&models.Paddock{ID: "p-1", ParentID: "farm-1", Ring: square(1, 1, 2), PaddockDetails: models.PaddockDetails{Name: "East Paddock"}},
		&models.Farm{ID: "farm-2", Name: "Lease", Ring: square(20, 20, 10)},
		&models.Paddock{ID: "p-2", ParentID: "farm-2", Ring: square(21, 21, 2), PaddockDetails: models.PaddockDetails{Name: "north"}},
		&models.Paddock{ID: "p-3", ParentID: "farm-1", Ring: square(5, 5, 2), PaddockDetails: models.PaddockDetails{Name: "7 Field"}},
	}}
}

func TestFilters(t *testing.T) {
	c := sampleCollection()

	farms := FarmBoundaries(c)
	require.Len(t, farms, 2)
	assert.Equal(t, "farm-1", farms[0].ID)
	assert.Equal(t, "farm-2", farms[1].ID)

	paddocks := PaddocksForFarm(c, "farm-1")
	require.Len(t, paddocks, 2)
	assert.Equal(t, "p-1", paddocks[0].ID)
	assert.Equal(t, "p-3", paddocks[1].ID)

	assert.Len(t, Paddocks(c), 3)
	assert.Empty(t, PaddocksForFarm(c, "missing"))
	assert.Empty(t, FarmBoundaries(models.PolygonCollection{}))
}

func TestInitials(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"East Paddock", "E P"},
		{"  ", ""},
		{"", ""},
		{"7 Field", "F"},
		{"north  creek\tflat", "N C F"},
		{"émile block", "É B"},
		{"#1 (old) yard", "Y"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q", tc.name), func(t *testing.T) {
			assert.Equal(t, tc.expected, Initials(tc.name))
		})
	}
}

func TestMockLivestockRanges(t *testing.T) {
	var features []models.Feature
	features = append(features, &models.Farm{ID: "farm", Ring: square(0, 0, 100)})
	for i := 0; i < 50; i++ {
		features = append(features, &models.Paddock{ID: fmt.Sprintf("p-%d", i), ParentID: "farm", Ring: square(float64(i), 0, 1)})
	}
	c := models.PolygonCollection{Features: features}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := MockLivestock(c, rand.New(rand.NewPCG(1, 2)), now)
	second := MockLivestock(c, rand.New(rand.NewPCG(3, 4)), now)

	require.Len(t, first, 50)
	require.Len(t, second, 50)

	differs := false
	for i, r := range first {
		assert.Equal(t, fmt.Sprintf("p-%d", i), r.PaddockID)
		assert.GreaterOrEqual(t, r.Count, 20)
		assert.LessOrEqual(t, r.Count, 620)
		assert.Contains(t, []models.LivestockType{models.LivestockCattle, models.LivestockSheep}, r.Type)
		assert.NotEqual(t, models.StatusQuarantine, r.Status)
		assert.Equal(t, now, r.LastUpdated)

		if r.Count != second[i].Count || r.Type != second[i].Type {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds should produce different herds")
}

func TestMockLivestockDrawOrder(t *testing.T) {
	c := models.PolygonCollection{Features: []models.Feature{
		&models.Paddock{ID: "a", Ring: square(0, 0, 1)},
		&models.Paddock{ID: "b", Ring: square(2, 0, 1)},
	}}
	rng := &scriptedRandom{values: []int{0, 1, 3, 600, 0, 2}}

	records := MockLivestock(c, rng, time.Time{})
	require.Len(t, records, 2)

	assert.Equal(t, []int{601, 2, 4, 601, 2, 4}, rng.calls)
	assert.Equal(t, models.LivestockRecord{PaddockID: "a", Count: 20, Type: models.LivestockSheep, Status: models.StatusMedication}, records[0])
	assert.Equal(t, models.LivestockRecord{PaddockID: "b", Count: 620, Type: models.LivestockCattle, Status: models.StatusBreeding}, records[1])
}

func TestMockLivestockNoPaddocks(t *testing.T) {
	rng := &scriptedRandom{}
	records := MockLivestock(models.PolygonCollection{Features: []models.Feature{&models.Farm{ID: "f"}}}, rng, time.Now())
	assert.Empty(t, records)
	assert.Empty(t, rng.calls)
}

func TestLivestockAnnotations(t *testing.T) {
	c := sampleCollection()
	records := []models.LivestockRecord{
		{PaddockID: "p-3", Count: 42, Type: models.LivestockSheep, Status: models.StatusAttention},
		{PaddockID: "unknown", Count: 9},
	}

	annotations := LivestockAnnotations(c, records)
	require.Len(t, annotations, 3)

	// p-1 has no record and falls back to the default herd
	assert.Equal(t, models.LivestockAnnotation{
		PaddockID:  "p-1",
		Coordinate: models.Coordinate{Lng: 1.8, Lat: 1.8},
		Count:      0,
		Type:       models.LivestockCattle,
		Status:     models.StatusHealthy,
	}, annotations[0])

	assert.Equal(t, "p-2", annotations[1].PaddockID)
	assert.Equal(t, 0, annotations[1].Count)

	assert.Equal(t, "p-3", annotations[2].PaddockID)
	assert.Equal(t, 42, annotations[2].Count)
	assert.Equal(t, models.LivestockSheep, annotations[2].Type)
	assert.Equal(t, models.StatusAttention, annotations[2].Status)
	assert.InDelta(t, 5.8, annotations[2].Coordinate.Lng, 1e-9)
	assert.InDelta(t, 5.8, annotations[2].Coordinate.Lat, 1e-9)
}

func TestRecordIndexFirstWins(t *testing.T) {
	index := RecordIndex([]models.LivestockRecord{
		{PaddockID: "a", Count: 1},
		{PaddockID: "a", Count: 2},
	})
	assert.Equal(t, 1, index["a"].Count)
}
