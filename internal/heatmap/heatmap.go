// Package heatmap builds the synthetic livestock density field over a farm boundary.
package heatmap

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jengzang/paddock-backend-go/internal/annotation"
	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/spatial"
)

// Field parameters. They define the look of the density layer and must not drift.
const (
	GridSize = 25
	Category = "livestock-density"

	headForFullDensity = 10.0

	insideFloor      = 0.8
	insideProximity  = 0.2
	insideDecay      = 500.0
	insideVariation  = 0.1
	insideFrequency  = 0.5
	outsideWeight    = 0.6
	outsideDecay     = 200.0
	minInfluence     = 0.001
	grazingAmplitude = 5.0
	grazingFreqI     = 0.3
	grazingFreqJ     = 0.2
	maxNoise         = 5
)

// Generator produces heatmap points. The zero value is not usable; use New.
type Generator struct {
	rng annotation.RandomSource
}

// Option configures a Generator
type Option func(*Generator)

// WithRandom sets the source for background noise values
func WithRandom(rng annotation.RandomSource) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// New creates a generator. Without WithRandom the noise is time-seeded.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return g
}

// paddockSample is the per-paddock data reused for every grid sample
type paddockSample struct {
	ring     models.Ring
	centroid models.Coordinate
	count    int
	base     float64
}

// Generate samples a (GridSize+1)x(GridSize+1) grid over the first farm's bounding box
// and returns a point for every sample inside that farm. It returns nil when the
// collection has no farm or there are no livestock records.
func (g *Generator) Generate(c models.PolygonCollection, records []models.LivestockRecord) []models.HeatmapPoint {
	farms := annotation.FarmBoundaries(c)
	if len(farms) == 0 || len(records) == 0 {
		return nil
	}
	farm := farms[0]

	index := annotation.RecordIndex(records)
	paddocks := annotation.Paddocks(c)
	samples := make([]paddockSample, len(paddocks))
	for k, p := range paddocks {
		count := index[p.ID].Count
		samples[k] = paddockSample{
			ring:     p.Ring,
			centroid: spatial.Centroid(p.Ring),
			count:    count,
			base:     baseDensity(count),
		}
	}

	minLng, minLat, maxLng, maxLat := spatial.BoundingBox(farm.Ring)
	lngStep := (maxLng - minLng) / GridSize
	latStep := (maxLat - minLat) / GridSize

	var points []models.HeatmapPoint
	for i := 0; i <= GridSize; i++ {
		for j := 0; j <= GridSize; j++ {
			at := models.Coordinate{
				Lng: minLng + float64(i)*lngStep,
				Lat: minLat + float64(j)*latStep,
			}
			if !spatial.PointInPolygon(at, farm.Ring) {
				continue
			}

			points = append(points, models.HeatmapPoint{
				ID:         fmt.Sprintf("heatmap-%d-%d", i, j),
				Coordinate: at,
				Value:      g.sampleValue(at, i, j, samples),
				Category:   Category,
			})
		}
	}

	return points
}

func (g *Generator) sampleValue(at models.Coordinate, i, j int, samples []paddockSample) int {
	fi, fj := float64(i), float64(j)
	density := 0.0
	totalInfluence := 0.0

	for _, s := range samples {
		dist := spatial.PlanarDistance(at, s.centroid)

		if spatial.PointInPolygon(at, s.ring) {
			proximity := math.Exp(-dist * insideDecay)
			variation := math.Sin(fi*insideFrequency) * math.Cos(fj*insideFrequency)
			density = s.base * (insideFloor + insideProximity*proximity) * (1 + insideVariation*variation)
			totalInfluence = 1
			break
		}

		if s.count > 0 {
			influence := math.Exp(-dist * outsideDecay)
			density += s.base * outsideWeight * influence
			totalInfluence += influence
		}
	}

	if totalInfluence <= minInfluence {
		return g.rng.IntN(maxNoise + 1)
	}

	grazing := grazingAmplitude * math.Sin(fi*grazingFreqI+fj*grazingFreqJ)
	return int(math.Round(clamp(density/totalInfluence+grazing, 0, 100)))
}

// baseDensity scales a head count so that 10 head is 100%
func baseDensity(count int) float64 {
	return clamp(float64(count)/headForFullDensity*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Collection wraps points as features for a density layer. Intensity is value/100.
func Collection(points []models.HeatmapPoint) models.FeatureCollection {
	features := make([]models.GeoFeature, 0, len(points))
	for _, p := range points {
		features = append(features, models.NewPointFeature(p.ID, p.Coordinate, map[string]any{
			"value":     p.Value,
			"category":  p.Category,
			"intensity": p.Intensity(),
		}))
	}
	return models.NewFeatureCollection(features)
}
