package uniforms

import (
	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/geo"
)

// SunDirection converts a subsolar point to a unit world-space direction
// pointing from the globe center toward the sun. Feed the result to
// Bridge.Build for day/night shading.
//
// Parameters:
//   - latDeg: subsolar latitude in degrees, positive north
//   - lngDeg: subsolar longitude in degrees, positive east
//
// Returns:
//   - common.Vec3: a unit direction vector toward the sun
func SunDirection(latDeg, lngDeg float64) common.Vec3 {
	return geo.ToCartesian(geo.Radians(latDeg), geo.Radians(lngDeg), 1.0)
}
