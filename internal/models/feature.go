package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownFeatureType is returned when a decoded feature carries a type other than farm or paddock
var ErrUnknownFeatureType = errors.New("unknown feature type")

// Coordinate is a longitude/latitude pair, no altitude
type Coordinate struct {
	Lng float64
	Lat float64
}

// MarshalJSON encodes the coordinate as a GeoJSON position [lng, lat]
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lng, c.Lat})
}

// UnmarshalJSON decodes a GeoJSON position, ignoring any altitude
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pos []float64
	if err := json.Unmarshal(data, &pos); err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	if len(pos) < 2 {
		return fmt.Errorf("invalid position: need 2 values, got %d", len(pos))
	}
	c.Lng, c.Lat = pos[0], pos[1]
	return nil
}

// Ring is an ordered sequence of coordinates. Closed rings repeat the first vertex at the end.
type Ring []Coordinate

// FeatureKind discriminates the Feature variants
type FeatureKind string

const (
	KindFarm    FeatureKind = "farm"
	KindPaddock FeatureKind = "paddock"
)

// Feature is a named shape owning exactly one ring. Only *Farm and *Paddock implement it.
type Feature interface {
	FeatureID() string
	FeatureName() string
	FeatureRing() Ring
	Kind() FeatureKind
	isFeature()
}

// Farm is a top-level farm boundary
type Farm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Ring Ring   `json:"ring"`
}

func (f *Farm) FeatureID() string   { return f.ID }
func (f *Farm) FeatureName() string { return f.Name }
func (f *Farm) FeatureRing() Ring   { return f.Ring }
func (f *Farm) Kind() FeatureKind   { return KindFarm }
func (f *Farm) isFeature()          {}

// PaddockDetails holds the editable paddock metadata
type PaddockDetails struct {
	Name     string `json:"name"`
	Purpose  string `json:"purpose,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Paddock is a grazing sub-region. ParentID is a back-reference to the owning farm.
type Paddock struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Ring     Ring   `json:"ring"`
	PaddockDetails
}

func (p *Paddock) FeatureID() string   { return p.ID }
func (p *Paddock) FeatureName() string { return p.Name }
func (p *Paddock) FeatureRing() Ring   { return p.Ring }
func (p *Paddock) Kind() FeatureKind   { return KindPaddock }
func (p *Paddock) isFeature()          {}

// PolygonCollection is the ordered source of truth for drawn shapes.
// Insertion order is display order.
type PolygonCollection struct {
	Features []Feature
}

// Find returns the feature with the given id
func (c PolygonCollection) Find(id string) (Feature, bool) {
	for _, f := range c.Features {
		if f.FeatureID() == id {
			return f, true
		}
	}
	return nil, false
}

// Filter returns a new collection with the features keep accepts, order preserved
func (c PolygonCollection) Filter(keep func(Feature) bool) PolygonCollection {
	out := make([]Feature, 0, len(c.Features))
	for _, f := range c.Features {
		if keep(f) {
			out = append(out, f)
		}
	}
	return PolygonCollection{Features: out}
}

// Append returns a new collection with f added at the end
func (c PolygonCollection) Append(f Feature) PolygonCollection {
	out := make([]Feature, len(c.Features), len(c.Features)+1)
	copy(out, c.Features)
	return PolygonCollection{Features: append(out, f)}
}

// stored wire shape of one polygon feature
type polygonFeatureJSON struct {
	Type       string              `json:"type"`
	ID         string              `json:"id"`
	Properties featurePropsJSON    `json:"properties"`
	Geometry   polygonGeometryJSON `json:"geometry"`
}

type featurePropsJSON struct {
	Name     string      `json:"name"`
	Type     FeatureKind `json:"type"`
	ParentID string      `json:"parentId,omitempty"`
	Purpose  string      `json:"purpose,omitempty"`
	Capacity int         `json:"capacity,omitempty"`
	Notes    string      `json:"notes,omitempty"`
}

type polygonGeometryJSON struct {
	Type        string `json:"type"`
	Coordinates []Ring `json:"coordinates"`
}

type polygonCollectionJSON struct {
	Type     string               `json:"type"`
	Features []polygonFeatureJSON `json:"features"`
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection of polygons
func (c PolygonCollection) MarshalJSON() ([]byte, error) {
	out := polygonCollectionJSON{
		Type:     "FeatureCollection",
		Features: make([]polygonFeatureJSON, 0, len(c.Features)),
	}
	for _, f := range c.Features {
		feature := polygonFeatureJSON{
			Type: "Feature",
			ID:   f.FeatureID(),
			Properties: featurePropsJSON{
				Name: f.FeatureName(),
				Type: f.Kind(),
			},
			Geometry: polygonGeometryJSON{
				Type:        "Polygon",
				Coordinates: []Ring{f.FeatureRing()},
			},
		}
		if p, ok := f.(*Paddock); ok {
			feature.Properties.ParentID = p.ParentID
			feature.Properties.Purpose = p.Purpose
			feature.Properties.Capacity = p.Capacity
			feature.Properties.Notes = p.Notes
		}
		out.Features = append(out.Features, feature)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a GeoJSON FeatureCollection into farm and paddock variants
func (c *PolygonCollection) UnmarshalJSON(data []byte) error {
	var in polygonCollectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	features := make([]Feature, 0, len(in.Features))
	for _, f := range in.Features {
		var ring Ring
		if len(f.Geometry.Coordinates) > 0 {
			ring = f.Geometry.Coordinates[0]
		}

		switch f.Properties.Type {
		case KindFarm:
			features = append(features, &Farm{ID: f.ID, Name: f.Properties.Name, Ring: ring})
		case KindPaddock:
			features = append(features, &Paddock{
				ID:       f.ID,
				ParentID: f.Properties.ParentID,
				Ring:     ring,
				PaddockDetails: PaddockDetails{
					Name:     f.Properties.Name,
					Purpose:  f.Properties.Purpose,
					Capacity: f.Properties.Capacity,
					Notes:    f.Properties.Notes,
				},
			})
		default:
			return fmt.Errorf("feature %q: %w: %q", f.ID, ErrUnknownFeatureType, f.Properties.Type)
		}
	}

	c.Features = features
	return nil
}
