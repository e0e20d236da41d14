package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartesianRoundTrip(t *testing.T) {
	// Sweep latitudes short of the poles (longitude is undefined there)
	// and the full longitude range. Forward conversion then inverse must
	// recover the original coordinate.
	for lat := -85.0; lat <= 85.0; lat += 17.0 {
		for lng := -175.0; lng <= 180.0; lng += 25.0 {
			p := ToCartesian(Radians(lat), Radians(lng), 1.0)
			got := FromCartesian(p)
			assert.InDelta(t, lat, got.LatDeg, 1e-9, "lat round trip for (%v, %v)", lat, lng)
			assert.InDelta(t, lng, got.LngDeg, 1e-9, "lng round trip for (%v, %v)", lat, lng)
		}
	}
}

func TestToCartesianConvention(t *testing.T) {
	tests := []struct {
		name                string
		latDeg, lngDeg      float64
		wantX, wantY, wantZ float64
	}{
		{"equator prime meridian", 0, 0, 1, 0, 0},
		{"north pole", 90, 0, 0, 1, 0},
		{"south pole", -90, 0, 0, -1, 0},
		{"equator 90E", 0, 90, 0, 0, 1},
		{"equator date line", 0, 180, -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ToCartesian(Radians(tt.latDeg), Radians(tt.lngDeg), 1.0)
			assert.InDelta(t, tt.wantX, p.X, 1e-12)
			assert.InDelta(t, tt.wantY, p.Y, 1e-12)
			assert.InDelta(t, tt.wantZ, p.Z, 1e-12)
		})
	}
}

func TestToCartesianPreservesDistance(t *testing.T) {
	for _, d := range []float64{1.0, 1.4, 3.2} {
		p := ToCartesian(Radians(37.5), Radians(-122.2), d)
		assert.InDelta(t, d, p.Length(), 1e-12)
	}
}

func TestGreatCircleIdentityAndSymmetry(t *testing.T) {
	assert.Zero(t, GreatCircleDeg(48.8, 2.3, 48.8, 2.3))

	d1 := GreatCircleDeg(48.8, 2.3, 35.7, 139.7)
	d2 := GreatCircleDeg(35.7, 139.7, 48.8, 2.3)
	assert.InDelta(t, d1, d2, 1e-12)
}

func TestGreatCircleKnownValues(t *testing.T) {
	// Quarter circle from equator to pole.
	assert.InDelta(t, 90.0, GreatCircleDeg(0, 0, 90, 0), 1e-9)
	// Antipodes.
	assert.InDelta(t, 180.0, GreatCircleDeg(0, 0, 0, 180), 1e-9)
	// One degree of longitude along the equator is one degree of arc.
	assert.InDelta(t, 1.0, GreatCircleDeg(0, 10, 0, 11), 1e-9)
	// At 60N a degree of longitude is half a degree of arc (cos 60 = 0.5).
	assert.InDelta(t, 0.5, GreatCircleDeg(60, 10, 60, 11), 1e-3)
}

func TestPointInPolygon(t *testing.T) {
	quad := []Vertex{
		{LngDeg: 0, LatDeg: 0},
		{LngDeg: 10, LatDeg: 1},
		{LngDeg: 11, LatDeg: 9},
		{LngDeg: -1, LatDeg: 10},
	}

	// Centroid of the quad is inside.
	cx, cy := 0.0, 0.0
	for _, v := range quad {
		cx += v.LngDeg
		cy += v.LatDeg
	}
	centroid := Point{LngDeg: cx / 4, LatDeg: cy / 4}
	require.True(t, PointInPolygon(centroid, quad))

	// Far outside the bounding box.
	assert.False(t, PointInPolygon(Point{LngDeg: 120, LatDeg: -45}, quad))
	assert.False(t, PointInPolygon(Point{LngDeg: -60, LatDeg: 60}, quad))
}

func TestPointInPolygonDegenerateRings(t *testing.T) {
	assert.False(t, PointInPolygon(Point{}, nil))
	assert.False(t, PointInPolygon(Point{}, []Vertex{{0, 0}}))
	assert.False(t, PointInPolygon(Point{}, []Vertex{{-1, -1}, {1, 1}}))
}

func TestPointInPolygonHorizontalEdge(t *testing.T) {
	// Rectangle with horizontal top and bottom edges. Points strictly
	// inside and outside must still classify; the horizontal edges
	// themselves contribute no crossings.
	rect := []Vertex{
		{LngDeg: 0, LatDeg: 0},
		{LngDeg: 10, LatDeg: 0},
		{LngDeg: 10, LatDeg: 5},
		{LngDeg: 0, LatDeg: 5},
	}
	assert.True(t, PointInPolygon(Point{LngDeg: 5, LatDeg: 2.5}, rect))
	assert.False(t, PointInPolygon(Point{LngDeg: 15, LatDeg: 2.5}, rect))
	assert.False(t, PointInPolygon(Point{LngDeg: 5, LatDeg: 7}, rect))
}

func TestWrapHelpers(t *testing.T) {
	assert.InDelta(t, 0.0, Radians(0), 1e-15)
	assert.InDelta(t, math.Pi, Radians(180), 1e-12)
	assert.InDelta(t, 180.0, Degrees(math.Pi), 1e-12)
}
