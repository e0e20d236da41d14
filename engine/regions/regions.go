package regions

import (
	"math"

	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/geo"
)

// Region identifies one of the fixed playable regions.
type Region int

const (
	RegionNorthAmerica Region = iota
	RegionSouthAmerica
	RegionEurope
	RegionAfrica
	RegionAsia
	RegionOceania
	RegionPacific
)

// Preset holds the per-region camera parameters consumed when a game mode
// starts: where the camera centers, how high it sits, how far the player may
// pan from center, and an optional field-of-view override.
type Preset struct {
	// CenterLat and CenterLng are the region's focus coordinate in degrees.
	CenterLat float64
	CenterLng float64
	// Altitude is the default camera distance in globe radii.
	Altitude float64
	// PanBoundLat and PanBoundLng are the maximum pan offsets from center in
	// degrees. Longitude offsets are measured as shortest angular deltas, so
	// bounds behave correctly across the date line.
	PanBoundLat float64
	PanBoundLng float64
	// FovOverride is a field of view in radians replacing the camera default,
	// or 0 to keep the default.
	FovOverride float64
}

// presets is the static configuration table. Values are gameplay tuning, not
// derived data.
var presets = map[Region]Preset{
	RegionNorthAmerica: {CenterLat: 42, CenterLng: -100, Altitude: 2.4, PanBoundLat: 28, PanBoundLng: 42},
	RegionSouthAmerica: {CenterLat: -18, CenterLng: -60, Altitude: 2.4, PanBoundLat: 32, PanBoundLng: 30},
	RegionEurope:       {CenterLat: 50, CenterLng: 12, Altitude: 2.0, PanBoundLat: 20, PanBoundLng: 28, FovOverride: 32 * math.Pi / 180},
	RegionAfrica:       {CenterLat: 2, CenterLng: 22, Altitude: 2.6, PanBoundLat: 36, PanBoundLng: 32},
	RegionAsia:         {CenterLat: 34, CenterLng: 95, Altitude: 2.8, PanBoundLat: 34, PanBoundLng: 50},
	RegionOceania:      {CenterLat: -26, CenterLng: 140, Altitude: 2.2, PanBoundLat: 24, PanBoundLng: 36},
	// Spans the date line: center 180°, bounds reach into both hemispheres.
	RegionPacific: {CenterLat: 0, CenterLng: 180, Altitude: 3.0, PanBoundLat: 40, PanBoundLng: 55},
}

// Lookup returns the camera preset for a region.
//
// Parameters:
//   - r: the region
//
// Returns:
//   - Preset: the region's preset
//   - bool: false if the region is unknown
func Lookup(r Region) (Preset, bool) {
	p, ok := presets[r]
	return p, ok
}

// InBounds reports whether a geographic point lies within the preset's pan
// bounds around its center. The longitude check uses the shortest angular
// delta rather than naive subtraction, so a Pacific region centered on the
// date line accepts points on either side of ±180°.
//
// Parameters:
//   - p: the preset
//   - latDeg, lngDeg: the point to test in degrees
//
// Returns:
//   - bool: true if the point is inside the pan bounds
func (p Preset) InBounds(latDeg, lngDeg float64) bool {
	if math.Abs(latDeg-p.CenterLat) > p.PanBoundLat {
		return false
	}
	dLng := geo.Degrees(common.WrapAngle(geo.Radians(lngDeg - p.CenterLng)))
	return math.Abs(dLng) <= p.PanBoundLng
}

// ClampToBounds constrains a geographic point to the preset's pan bounds,
// returning the nearest in-bounds coordinate. Longitude clamping works on the
// wrapped delta so the result stays on the short side of the date line.
//
// Parameters:
//   - latDeg, lngDeg: the point to constrain in degrees
//
// Returns:
//   - float64: clamped latitude in degrees
//   - float64: clamped longitude in degrees, normalized to (−180, 180]
func (p Preset) ClampToBounds(latDeg, lngDeg float64) (float64, float64) {
	lat := common.Clamp(latDeg, p.CenterLat-p.PanBoundLat, p.CenterLat+p.PanBoundLat)

	dLng := geo.Degrees(common.WrapAngle(geo.Radians(lngDeg - p.CenterLng)))
	dLng = common.Clamp(dLng, -p.PanBoundLng, p.PanBoundLng)
	lng := geo.Degrees(common.WrapAngle(geo.Radians(p.CenterLng + dLng)))

	return lat, lng
}

// Fov returns the preset's field of view in radians, falling back to the
// provided default when no override is configured.
//
// Parameters:
//   - defaultFov: the camera's default field of view in radians
//
// Returns:
//   - float64: the field of view to use
func (p Preset) Fov(defaultFov float64) float64 {
	return common.Coalesce(p.FovOverride, defaultFov)
}
