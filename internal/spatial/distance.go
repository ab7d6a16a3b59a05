package spatial

import (
	"github.com/golang/geo/s2"
	"github.com/jengzang/paddock-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	SquareMetersPerHa = 10000.0
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// RingPerimeterMeters sums the great-circle length of every ring edge,
// including the wrap-around edge of an open ring
func RingPerimeterMeters(ring models.Ring) float64 {
	vertices := distinctVertices(ring)
	if len(vertices) < 2 {
		return 0
	}

	var total float64
	for i := range vertices {
		a, b := vertices[i], vertices[(i+1)%len(vertices)]
		total += HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
	}
	return total
}

// RingAreaSquareMeters calculates the spherical area enclosed by a ring.
// Winding order does not matter; the smaller of the two regions is used.
func RingAreaSquareMeters(ring models.Ring) float64 {
	vertices := distinctVertices(ring)
	if len(vertices) < 3 {
		return 0
	}

	points := make([]s2.Point, len(vertices))
	for i, c := range vertices {
		points[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lng))
	}

	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop.Area() * EarthRadiusMeters * EarthRadiusMeters
}

// RingAreaHectares is RingAreaSquareMeters in hectares
func RingAreaHectares(ring models.Ring) float64 {
	return RingAreaSquareMeters(ring) / SquareMetersPerHa
}

// distinctVertices drops consecutive duplicates and the closing vertex
func distinctVertices(ring models.Ring) models.Ring {
	out := make(models.Ring, 0, len(ring))
	for _, c := range ring {
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
