package geo

import (
	"math"

	"github.com/peregrine-games/globecore/common"
)

// Point is a geographic coordinate in degrees.
type Point struct {
	LatDeg float64
	LngDeg float64
}

// Vertex is a single polygon ring vertex, ordered (longitude, latitude)
// to match the region boundary data format.
type Vertex struct {
	LngDeg float64
	LatDeg float64
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ToCartesian converts spherical angles and a distance from the sphere center
// into world-space Cartesian coordinates using the module-wide convention:
// +Y up, sphere center at origin. The returned vector always has length dist.
//
// Parameters:
//   - latRad, lngRad: geographic angles in radians
//   - dist: distance from the sphere center in globe radii
//
// Returns:
//   - common.Vec3: the Cartesian position
func ToCartesian(latRad, lngRad, dist float64) common.Vec3 {
	cosLat := math.Cos(latRad)
	return common.Vec3{
		X: cosLat * math.Cos(lngRad) * dist,
		Y: math.Sin(latRad) * dist,
		Z: cosLat * math.Sin(lngRad) * dist,
	}
}

// FromCartesian inverts ToCartesian, recovering the geographic coordinate of a
// world-space point. The point is normalized first, so any distance from the
// origin maps to the same coordinate. asin input is clamped against float
// noise just outside [-1, 1].
//
// Parameters:
//   - p: world-space position (must not be the zero vector)
//
// Returns:
//   - Point: the geographic coordinate in degrees
func FromCartesian(p common.Vec3) Point {
	n := p.Normalize()
	lat := math.Asin(common.Clamp(n.Y, -1, 1))
	lng := math.Atan2(n.Z, n.X)
	return Point{LatDeg: Degrees(lat), LngDeg: Degrees(lng)}
}

// GreatCircleDeg returns the great-circle angular distance between two
// geographic points via the Haversine formula. Both inputs and the result are
// degrees — the result is an angle at the sphere center, not a physical
// length; callers scale by their own radius as needed.
//
// Parameters:
//   - lat1, lng1: first point in degrees
//   - lat2, lng2: second point in degrees
//
// Returns:
//   - float64: angular distance in degrees, in [0, 180]
func GreatCircleDeg(lat1, lng1, lat2, lng2 float64) float64 {
	lat1r := Radians(lat1)
	lat2r := Radians(lat2)
	dLat := Radians(lat2 - lat1)
	dLng := Radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return Degrees(c)
}

// PointInPolygon reports whether a geographic point lies inside a simple
// polygon ring using the crossing-number test. The ring wraps implicitly from
// the last vertex back to the first; no closing duplicate is required.
// Rings with fewer than 3 vertices never contain anything.
//
// Edges whose two vertices share a latitude contribute no crossings: the test
// latitude must lie strictly between the edge's vertex latitudes, which a
// horizontal edge cannot satisfy. Containment on the boundary of such an edge
// is therefore decided by the ring's remaining edges.
//
// Parameters:
//   - p: the point to test, in degrees
//   - ring: ordered (lng, lat) polygon vertices
//
// Returns:
//   - bool: true if the point is inside the ring
func PointInPolygon(p Point, ring []Vertex) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		vi, vj := ring[i], ring[j]
		if (vi.LatDeg > p.LatDeg) != (vj.LatDeg > p.LatDeg) {
			// Longitude of the edge at the test latitude.
			t := (p.LatDeg - vi.LatDeg) / (vj.LatDeg - vi.LatDeg)
			crossLng := vi.LngDeg + t*(vj.LngDeg-vi.LngDeg)
			if p.LngDeg < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
