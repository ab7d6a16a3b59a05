package models

// FeatureCollection is the render shape consumed by map layers
type FeatureCollection struct {
	Type     string       `json:"type"`
	Features []GeoFeature `json:"features"`
}

// GeoFeature is a single renderable feature
type GeoFeature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry is a GeoJSON geometry. Coordinates is a Coordinate for points and []Ring for polygons.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// NewFeatureCollection wraps features, never returning a nil feature list
func NewFeatureCollection(features []GeoFeature) FeatureCollection {
	if features == nil {
		features = []GeoFeature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// NewPointFeature builds a Point feature
func NewPointFeature(id string, at Coordinate, props map[string]any) GeoFeature {
	return GeoFeature{
		Type:       "Feature",
		ID:         id,
		Properties: props,
		Geometry:   Geometry{Type: "Point", Coordinates: at},
	}
}

// NewPolygonFeature builds a single-ring Polygon feature
func NewPolygonFeature(id string, ring Ring, props map[string]any) GeoFeature {
	return GeoFeature{
		Type:       "Feature",
		ID:         id,
		Properties: props,
		Geometry:   Geometry{Type: "Polygon", Coordinates: []Ring{ring}},
	}
}
