package common

// World-space constants shared between the camera, the hit tester, and the
// shader uniform contract. Distances are expressed in globe radii, so the
// globe surface sits at 1.0 from the origin.
const (
	// GlobeRadius is the render sphere's radius. Camera altitude presets and
	// ray-sphere intersection both use this constant; it also ships to the GPU
	// at scalar index 12 of the frame uniform contract.
	GlobeRadius = 1.0

	// CloudShellRadius is the outer radius of the cloud layer shell, scalar
	// index 13 of the frame uniform contract.
	CloudShellRadius = 1.03

	// Epsilon is the tolerance used for degenerate-geometry checks
	// (zero-length vectors, parallel basis vectors, pole singularities).
	Epsilon = 1e-9
)

// WorldUp is the fixed +Y up axis, the fallback orientation when a
// heading-aligned up vector degenerates at the poles.
var WorldUp = Vec3{X: 0, Y: 1, Z: 0}
