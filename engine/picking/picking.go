// Package picking maps 2D screen taps back onto the globe. Unprojection is
// the exact mathematical inverse of the camera's spherical→Cartesian
// conversion: a tap on the rendered globe recovers the geographic coordinate
// the camera projected there.
package picking

import (
	"math"

	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/camera"
	"github.com/peregrine-games/globecore/engine/geo"
)

// Unproject casts a ray from a screen point through the camera's view frustum
// and intersects it with the globe. Screen coordinates are pixels with the
// origin at the top-left. A miss — the ray clears the globe, or the globe is
// behind the camera — is an expected outcome, not an error.
//
// Parameters:
//   - screenX, screenY: tap position in pixels
//   - width, height: viewport size in pixels
//   - snap: the camera state the frame was rendered with
//
// Returns:
//   - geo.Point: the geographic coordinate under the tap, in degrees
//   - bool: false if the ray missed the globe or the viewport was degenerate
func Unproject(screenX, screenY float64, width, height int, snap camera.Snapshot) (geo.Point, bool) {
	if width <= 0 || height <= 0 {
		return geo.Point{}, false
	}

	// Screen → NDC with vertical flip: x spans [-aspect, aspect], y spans
	// [-1, 1] with +1 at the top of the screen.
	aspect := float64(width) / float64(height)
	ndcX := (2*screenX/float64(width) - 1) * aspect
	ndcY := 1 - 2*screenY/float64(height)

	// Local ray on the image plane at z = -1, scaled by the FOV half-angle.
	tanHalf := math.Tan(snap.Fov / 2)
	localX := ndcX * tanHalf
	localY := ndcY * tanHalf

	forward, right, trueUp, ok := cameraBasis(snap.Position, snap.Up)
	if !ok {
		return geo.Point{}, false
	}

	dir := right.Scale(localX).
		Add(trueUp.Scale(localY)).
		Add(forward).
		Normalize()

	t, hit := intersectGlobe(snap.Position, dir)
	if !hit {
		return geo.Point{}, false
	}

	hitPoint := snap.Position.Add(dir.Scale(t))
	return geo.FromCartesian(hitPoint), true
}

// cameraBasis builds the orthonormal camera frame from the position and up
// vector. The camera always looks at the sphere center. If the stored up is
// parallel to the view direction, the basis is rebuilt against the world up;
// only a camera at the origin itself is unrecoverable.
func cameraBasis(position, up common.Vec3) (forward, right, trueUp common.Vec3, ok bool) {
	forward = position.Scale(-1).Normalize()
	if forward.Length() < common.Epsilon {
		return forward, right, trueUp, false
	}

	right = forward.Cross(up)
	if right.Length() < common.Epsilon {
		right = forward.Cross(common.WorldUp)
		if right.Length() < common.Epsilon {
			// Looking straight along world up; any horizontal axis works.
			right = common.Vec3{X: 1}
		}
	}
	right = right.Normalize()
	trueUp = right.Cross(forward)
	return forward, right, trueUp, true
}

// intersectGlobe solves |origin + t·dir|² = GlobeRadius² for the smallest
// non-negative t. dir must be unit length.
func intersectGlobe(origin, dir common.Vec3) (float64, bool) {
	// Quadratic at² + bt + c with a = 1 for a unit direction.
	b := 2 * origin.Dot(dir)
	c := origin.Dot(origin) - common.GlobeRadius*common.GlobeRadius

	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := math.Sqrt(disc)
	t0 := (-b - sqrtDisc) / 2
	t1 := (-b + sqrtDisc) / 2

	switch {
	case t0 >= 0:
		return t0, true
	case t1 >= 0:
		return t1, true
	default:
		// Both roots behind the camera.
		return 0, false
	}
}
