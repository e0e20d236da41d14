package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peregrine-games/globecore/engine/geo"
)

const frameDt = 1.0 / 60.0

func TestFirstUpdateSnapsToTargets(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 45, 90, true, 1, 0.5)

	s := cam.Snapshot()
	assert.InDelta(t, geo.Radians(45), s.LatRad, 1e-12)
	assert.InDelta(t, geo.Radians(90), s.LngRad, 1e-12)
	assert.InDelta(t, 1.6, s.Distance, 1e-12)
	assert.InDelta(t, 55*math.Pi/180, s.Fov, 1e-12)
	assert.InDelta(t, 0.5, s.HeadingRad, 1e-12)
}

func TestResetRearmsSnap(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 10, 10, false, 0, 0)
	cam.Update(frameDt, 80, 170, true, 1, 2)
	cam.Reset()

	// After a reset, the next update snaps again instead of easing.
	cam.Update(frameDt, -30, -60, true, 0, 1)
	s := cam.Snapshot()
	assert.InDelta(t, geo.Radians(-30), s.LatRad, 1e-12)
	assert.InDelta(t, geo.Radians(-60), s.LngRad, 1e-12)
	assert.InDelta(t, 1.6, s.Distance, 1e-12)
}

func TestDistanceConvergesMonotonically(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 0, 0, false, 0, 0) // snap to the high preset

	target := 1.6
	prev := cam.Snapshot().Distance
	require.Greater(t, prev, target)

	// Ten simulated seconds at 60 fps, constant low-altitude target.
	for i := 0; i < 600; i++ {
		cam.Update(frameDt, 0, 0, true, 0, 0)
		d := cam.Snapshot().Distance
		assert.LessOrEqual(t, d, prev, "distance must not overshoot or reverse")
		assert.GreaterOrEqual(t, d, target, "distance must not undershoot the preset")
		prev = d
	}
	assert.InDelta(t, target, prev, 1e-3)
}

func TestLongitudeTakesShortestPathAcrossDateLine(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 0, 179, false, 0, 0) // snap to 179E

	cam.Update(frameDt, 0, -179, false, 0, 0)
	lng := geo.Degrees(cam.Snapshot().LngRad)

	// One eased step toward -179 through the date line: the longitude must
	// move past 179 (or wrap negative), never back toward zero.
	moved := lng > 179 || lng < -179
	assert.True(t, moved, "longitude moved the long way around: %v", lng)

	// With enough updates it settles at -179, never having left the 2° gap.
	for i := 0; i < 600; i++ {
		cam.Update(frameDt, 0, -179, false, 0, 0)
		l := geo.Degrees(cam.Snapshot().LngRad)
		inGap := l >= 179 || l <= -179
		require.True(t, inGap, "longitude left the short path: %v", l)
	}
	assert.InDelta(t, -179, geo.Degrees(cam.Snapshot().LngRad), 1e-2)
}

func TestPositionLengthEqualsDistance(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 12, 34, false, 0.3, 1.1)
	for i := 0; i < 200; i++ {
		cam.Update(frameDt, 12+float64(i)*0.1, 34-float64(i)*0.2, i%2 == 0, 0.5, float64(i)*0.05)
		s := cam.Snapshot()
		assert.InDelta(t, s.Distance, s.Position.Length(), 1e-12)
	}
}

func TestUpVectorUnitAndOrthogonal(t *testing.T) {
	cam := NewGlobeCamera()
	headings := []float64{0, 0.7, math.Pi / 2, math.Pi, -2.1}
	for _, h := range headings {
		cam.Reset()
		cam.Update(frameDt, 47, 8, false, 0, h)
		s := cam.Snapshot()

		assert.InDelta(t, 1.0, s.Up.Length(), 1e-12, "heading %v", h)
		forward := s.Position.Scale(-1).Normalize()
		assert.InDelta(t, 0.0, s.Up.Dot(forward), 1e-9, "up not orthogonal to forward at heading %v", h)
	}
}

func TestUpVectorStaysUnitAtPoles(t *testing.T) {
	cam := NewGlobeCamera()
	for _, lat := range []float64{90, -90} {
		for _, h := range []float64{0, 1.2, math.Pi} {
			cam.Reset()
			cam.Update(frameDt, lat, 0, false, 0, h)
			s := cam.Snapshot()
			assert.InDelta(t, 1.0, s.Up.Length(), 1e-12, "lat %v heading %v", lat, h)
		}
	}
}

func TestLowAltitudeScenario(t *testing.T) {
	cam := NewGlobeCamera()
	for i := 0; i < 900; i++ {
		cam.Update(frameDt, 0, 0, true, 0, 0)
	}
	s := cam.Snapshot()
	assert.InDelta(t, 1.6, s.Distance, 1e-3)
	assert.InDelta(t, 1.6, s.Position.X, 1e-3)
	assert.InDelta(t, 0.0, s.Position.Y, 1e-6)
	assert.InDelta(t, 0.0, s.Position.Z, 1e-6)
}

func TestInputsAreClamped(t *testing.T) {
	cam := NewGlobeCamera()
	cam.Update(frameDt, 123, 0, false, 7, 0) // lat and speed out of range
	s := cam.Snapshot()
	assert.InDelta(t, geo.Radians(90), s.LatRad, 1e-12)
	assert.InDelta(t, 55*math.Pi/180, s.Fov, 1e-12)
}

func TestCustomPresets(t *testing.T) {
	cam := NewGlobeCamera(
		WithAltitudePresets(5, 2),
		WithFovPresets(0.4, 0.9),
		WithEaseRates(8, 2, 4),
	)
	cam.Update(frameDt, 0, 0, false, 0, 0)
	s := cam.Snapshot()
	assert.InDelta(t, 5.0, s.Distance, 1e-12)
	assert.InDelta(t, 0.4, s.Fov, 1e-12)
}
