// Package annotation derives per-paddock labels and livestock annotations
// from a polygon collection.
package annotation

import (
	"strings"
	"time"
	"unicode"

	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/spatial"
)

// RandomSource is the randomness used by mock generation. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

const (
	mockMinCount   = 20
	mockCountRange = 601 // 20..620 inclusive
)

var (
	mockTypes    = []models.LivestockType{models.LivestockCattle, models.LivestockSheep}
	mockStatuses = []models.LivestockStatus{
		models.StatusHealthy,
		models.StatusAttention,
		models.StatusBreeding,
		models.StatusMedication,
	}
)

// FarmBoundaries returns the farm features in collection order
func FarmBoundaries(c models.PolygonCollection) []*models.Farm {
	var farms []*models.Farm
	for _, f := range c.Features {
		if farm, ok := f.(*models.Farm); ok {
			farms = append(farms, farm)
		}
	}
	return farms
}

// Paddocks returns every paddock feature in collection order
func Paddocks(c models.PolygonCollection) []*models.Paddock {
	var paddocks []*models.Paddock
	for _, f := range c.Features {
		if p, ok := f.(*models.Paddock); ok {
			paddocks = append(paddocks, p)
		}
	}
	return paddocks
}

// PaddocksForFarm returns the paddocks whose ParentID equals farmID
func PaddocksForFarm(c models.PolygonCollection, farmID string) []*models.Paddock {
	var paddocks []*models.Paddock
	for _, p := range Paddocks(c) {
		if p.ParentID == farmID {
			paddocks = append(paddocks, p)
		}
	}
	return paddocks
}

// Initials takes the uppercased first letter of each whitespace-separated word.
// Words that do not start with a letter are dropped.
func Initials(name string) string {
	var letters []string
	for _, word := range strings.Fields(name) {
		first := unicode.ToUpper([]rune(word)[0])
		if !unicode.IsLetter(first) {
			continue
		}
		letters = append(letters, string(first))
	}
	return strings.Join(letters, " ")
}

// MockLivestock synthesizes one record per paddock, in paddock order.
// For each paddock the count is drawn first, then the type, then the status.
func MockLivestock(c models.PolygonCollection, rng RandomSource, now time.Time) []models.LivestockRecord {
	paddocks := Paddocks(c)
	records := make([]models.LivestockRecord, 0, len(paddocks))

	for _, p := range paddocks {
		count := mockMinCount + rng.IntN(mockCountRange)
		kind := mockTypes[rng.IntN(len(mockTypes))]
		status := mockStatuses[rng.IntN(len(mockStatuses))]

		records = append(records, models.LivestockRecord{
			PaddockID:   p.ID,
			Count:       count,
			Type:        kind,
			Status:      status,
			LastUpdated: now,
		})
	}

	return records
}

// RecordIndex maps paddock id to its record. The first record for an id wins.
func RecordIndex(records []models.LivestockRecord) map[string]models.LivestockRecord {
	index := make(map[string]models.LivestockRecord, len(records))
	for _, r := range records {
		if _, exists := index[r.PaddockID]; !exists {
			index[r.PaddockID] = r
		}
	}
	return index
}

// LivestockAnnotations emits exactly one annotation per paddock at its centroid.
// Paddocks without a record get count 0, cattle, healthy.
func LivestockAnnotations(c models.PolygonCollection, records []models.LivestockRecord) []models.LivestockAnnotation {
	index := RecordIndex(records)
	paddocks := Paddocks(c)
	annotations := make([]models.LivestockAnnotation, 0, len(paddocks))

	for _, p := range paddocks {
		a := models.LivestockAnnotation{
			PaddockID:  p.ID,
			Coordinate: spatial.Centroid(p.Ring),
			Type:       models.LivestockCattle,
			Status:     models.StatusHealthy,
		}
		if r, ok := index[p.ID]; ok {
			a.Count = r.Count
			a.Type = r.Type
			a.Status = r.Status
		}
		annotations = append(annotations, a)
	}

	return annotations
}
