package spatial

import (
	"math"

	"github.com/jengzang/paddock-backend-go/internal/models"
)

// Centroid calculates the arithmetic mean of all ring vertices.
// The closing vertex of a closed ring is counted again, so this is not the
// mean of distinct vertices and not an area-weighted centroid.
func Centroid(ring models.Ring) models.Coordinate {
	if len(ring) == 0 {
		return models.Coordinate{}
	}

	var sumLng, sumLat float64
	for _, c := range ring {
		sumLng += c.Lng
		sumLat += c.Lat
	}

	return models.Coordinate{
		Lng: sumLng / float64(len(ring)),
		Lat: sumLat / float64(len(ring)),
	}
}

// BoundingBox calculates the bounding box of a ring
// Returns (minLng, minLat, maxLng, maxLat)
func BoundingBox(ring models.Ring) (float64, float64, float64, float64) {
	if len(ring) == 0 {
		return 0, 0, 0, 0
	}

	minLng, maxLng := ring[0].Lng, ring[0].Lng
	minLat, maxLat := ring[0].Lat, ring[0].Lat

	for _, c := range ring[1:] {
		if c.Lng < minLng {
			minLng = c.Lng
		}
		if c.Lng > maxLng {
			maxLng = c.Lng
		}
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
	}

	return minLng, minLat, maxLng, maxLat
}

// ClosedRing appends the first coordinate to the end of an open coordinate list.
// Already-closed input gets a second closing vertex.
func ClosedRing(coords []models.Coordinate) models.Ring {
	if len(coords) == 0 {
		return models.Ring{}
	}

	ring := make(models.Ring, len(coords), len(coords)+1)
	copy(ring, coords)
	return append(ring, coords[0])
}

// PointInPolygon checks if a point is inside a ring using ray casting (even-odd rule).
// x is longitude, y is latitude. Points on the boundary fall on whichever side
// the crossing arithmetic puts them.
func PointInPolygon(point models.Coordinate, ring models.Ring) bool {
	if len(ring) < 3 {
		return false
	}

	x, y := point.Lng, point.Lat
	inside := false
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat

		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PaddockWithinFarm reports whether every paddock vertex lies inside the farm.
// Only vertices are tested: a paddock edge that leaves a concave farm between
// two inside vertices is still reported as within.
func PaddockWithinFarm(paddock, farm models.Ring) bool {
	for _, c := range paddock {
		if !PointInPolygon(c, farm) {
			return false
		}
	}
	return true
}

// PaddockWithinFarmStrict is PaddockWithinFarm plus an edge test: it also fails
// when any paddock edge properly crosses a farm edge.
func PaddockWithinFarmStrict(paddock, farm models.Ring) bool {
	if len(paddock) == 0 || !PaddockWithinFarm(paddock, farm) {
		return false
	}

	for i := range paddock {
		a, b := paddock[i], paddock[(i+1)%len(paddock)]
		for k := range farm {
			c, d := farm[k], farm[(k+1)%len(farm)]
			if segmentsCross(a, b, c, d) {
				return false
			}
		}
	}

	return true
}

// segmentsCross reports a proper crossing of segments ab and cd.
// Touching endpoints and collinear overlaps do not count.
func segmentsCross(a, b, c, d models.Coordinate) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)

	return d1*d2 < 0 && d3*d4 < 0
}

// orientation returns the sign of the cross product (q-p) x (r-p)
func orientation(p, q, r models.Coordinate) float64 {
	v := (q.Lng-p.Lng)*(r.Lat-p.Lat) - (q.Lat-p.Lat)*(r.Lng-p.Lng)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// PlanarDistance treats longitude/latitude deltas as Euclidean distance in degrees
func PlanarDistance(a, b models.Coordinate) float64 {
	dLng := a.Lng - b.Lng
	dLat := a.Lat - b.Lat
	return math.Sqrt(dLng*dLng + dLat*dLat)
}
