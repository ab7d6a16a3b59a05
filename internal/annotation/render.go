package annotation

import (
	"math"

	"github.com/jengzang/paddock-backend-go/internal/models"
	"github.com/jengzang/paddock-backend-go/internal/spatial"
)

// PolygonFeatures renders every farm and paddock for fill and outline layers
func PolygonFeatures(c models.PolygonCollection) models.FeatureCollection {
	features := make([]models.GeoFeature, 0, len(c.Features))

	for _, f := range c.Features {
		ring := f.FeatureRing()
		props := map[string]any{
			"name":            f.FeatureName(),
			"type":            string(f.Kind()),
			"areaHectares":    round2(spatial.RingAreaHectares(ring)),
			"perimeterMeters": round2(spatial.RingPerimeterMeters(ring)),
		}
		if p, ok := f.(*models.Paddock); ok {
			props["parentId"] = p.ParentID
			props["initials"] = Initials(p.Name)
			props["purpose"] = p.Purpose
			props["capacity"] = p.Capacity
			props["notes"] = p.Notes
		}
		features = append(features, models.NewPolygonFeature(f.FeatureID(), ring, props))
	}

	return models.NewFeatureCollection(features)
}

// LabelFeatures places one text label per paddock at its centroid
func LabelFeatures(c models.PolygonCollection) models.FeatureCollection {
	paddocks := Paddocks(c)
	features := make([]models.GeoFeature, 0, len(paddocks))

	for _, p := range paddocks {
		features = append(features, models.NewPointFeature(p.ID, spatial.Centroid(p.Ring), map[string]any{
			"name":     p.Name,
			"initials": Initials(p.Name),
		}))
	}

	return models.NewFeatureCollection(features)
}

// AnnotationFeatures renders livestock annotations as points
func AnnotationFeatures(annotations []models.LivestockAnnotation) models.FeatureCollection {
	features := make([]models.GeoFeature, 0, len(annotations))

	for _, a := range annotations {
		features = append(features, models.NewPointFeature(a.PaddockID, a.Coordinate, map[string]any{
			"paddockId": a.PaddockID,
			"count":     a.Count,
			"type":      string(a.Type),
			"status":    string(a.Status),
		}))
	}

	return models.NewFeatureCollection(features)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
