package camera

import (
	"math"
	"sync"

	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/geo"
)

// Snapshot is an immutable copy of the camera's render-relevant state for a
// single frame. The hit tester and the uniform bridge consume snapshots so
// they never race the camera's per-frame mutation.
type Snapshot struct {
	// Position is the Cartesian camera position; its length always equals Distance.
	Position common.Vec3
	// Up is the heading-aligned unit up vector.
	Up common.Vec3
	// Fov is the vertical field of view in radians.
	Fov float64
	// Distance is the camera's distance from the sphere center in globe radii.
	Distance float64
	// LatRad and LngRad are the camera's orbital angles in radians.
	LatRad float64
	LngRad float64
	// HeadingRad is the bearing used to align the up vector, clockwise from north.
	HeadingRad float64
}

// globeCameraImpl is the single implementation of GlobeCamera.
// The camera orbits directly above the tracked vehicle: its orbital angles
// chase the vehicle's geographic position, its distance snaps between two
// altitude presets, and its field of view widens with speed. All easing uses
// the frame-rate-independent factor 1 − e^(−rate·dt).
type globeCameraImpl struct {
	mu *sync.Mutex

	distance   float64
	latRad     float64
	lngRad     float64
	headingRad float64
	fov        float64

	position common.Vec3
	up       common.Vec3

	// firstUpdate forces a hard snap to target values on the first Update call
	// so a new session never shows a visible fly-in from the defaults.
	firstUpdate bool

	// Altitude presets in globe radii, selected by the low-altitude flag.
	highAltitude float64
	lowAltitude  float64

	// FOV presets in radians; speedFraction interpolates between them.
	narrowFov float64
	wideFov   float64

	// Ease rates in 1/seconds. Altitude and FOV transitions are tuned
	// independently of the orbital tracking rate.
	altitudeRate float64
	fovRate      float64
	trackRate    float64
}

// GlobeCamera owns the orbital camera state for one active game view.
// It is a single-writer state machine: only the owning render loop may call
// Update, once per rendered frame. Renderers and hit testers read consistent
// state through Snapshot.
type GlobeCamera interface {
	// Update advances the camera toward the vehicle's telemetry for one frame.
	// Never fails; all inputs are clamped to visually bounded values.
	//
	// Parameters:
	//   - dt: elapsed time since the previous frame in seconds
	//   - vehicleLatDeg, vehicleLngDeg: vehicle position in degrees
	//   - lowAltitude: selects the low altitude preset instead of the high one
	//   - speedFraction: vehicle speed in [0, 1]; faster widens the field of view
	//   - headingRad: vehicle bearing in radians, clockwise from north
	Update(dt, vehicleLatDeg, vehicleLngDeg float64, lowAltitude bool, speedFraction, headingRad float64)

	// Snapshot returns a copy of the camera state for this frame.
	//
	// Returns:
	//   - Snapshot: the current camera state
	Snapshot() Snapshot

	// Reset returns the camera to its initial defaults and re-arms the
	// first-update snap, as when a new game session starts.
	Reset()
}

var _ GlobeCamera = &globeCameraImpl{}

// NewGlobeCamera creates a GlobeCamera with default altitude, FOV, and easing
// presets, optionally overridden by builder options.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - GlobeCamera: the newly created camera
func NewGlobeCamera(options ...GlobeCameraOption) GlobeCamera {
	c := &globeCameraImpl{
		mu: &sync.Mutex{},

		highAltitude: 3.0,
		lowAltitude:  1.6,
		narrowFov:    35.0 * math.Pi / 180,
		wideFov:      55.0 * math.Pi / 180,

		altitudeRate: 1.5,
		fovRate:      3.0,
		trackRate:    4.0,
	}
	for _, option := range options {
		option(c)
	}
	c.resetLocked()
	return c
}

func (c *globeCameraImpl) Update(dt, vehicleLatDeg, vehicleLngDeg float64, lowAltitude bool, speedFraction, headingRad float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Targets derived from telemetry.
	targetLat := geo.Radians(common.Clamp(vehicleLatDeg, -90, 90))
	targetLng := common.WrapAngle(geo.Radians(vehicleLngDeg))
	targetDistance := c.highAltitude
	if lowAltitude {
		targetDistance = c.lowAltitude
	}
	targetFov := common.Lerp(c.narrowFov, c.wideFov, common.Clamp(speedFraction, 0, 1))
	targetHeading := common.WrapAngle(headingRad)

	if c.firstUpdate {
		c.latRad = targetLat
		c.lngRad = targetLng
		c.distance = targetDistance
		c.fov = targetFov
		c.headingRad = targetHeading
		c.firstUpdate = false
	} else {
		kTrack := common.EaseFactor(c.trackRate, dt)
		kAlt := common.EaseFactor(c.altitudeRate, dt)
		kFov := common.EaseFactor(c.fovRate, dt)

		// Latitude never wraps; longitude and heading take the shortest
		// angular path so tracking through the date line moves 2° instead
		// of 358° the long way around.
		c.latRad = common.Lerp(c.latRad, targetLat, kTrack)
		c.lngRad = common.LerpAngle(c.lngRad, targetLng, kTrack)
		c.headingRad = common.LerpAngle(c.headingRad, targetHeading, kTrack)
		c.distance = common.Lerp(c.distance, targetDistance, kAlt)
		c.fov = common.Lerp(c.fov, targetFov, kFov)
	}

	c.distance = common.Clamp(c.distance, c.lowAltitude, c.highAltitude)
	c.fov = common.Clamp(c.fov, c.narrowFov, c.wideFov)

	// Derived state is recomputed from the eased angles every frame, never
	// incrementally drifted, so |position| == distance holds exactly.
	c.position = geo.ToCartesian(c.latRad, c.lngRad, c.distance)
	c.up = c.headingUp()
}

// headingUp blends the local North and East tangents at the camera's orbital
// position by the heading bearing, keeping the rendered horizon aligned with
// the direction of travel. Falls back to the fixed world up when the blend
// degenerates at the poles. Caller must hold the mutex.
func (c *globeCameraImpl) headingUp() common.Vec3 {
	sinLat := math.Sin(c.latRad)
	cosLat := math.Cos(c.latRad)
	sinLng := math.Sin(c.lngRad)
	cosLng := math.Cos(c.lngRad)

	east := common.Vec3{X: -sinLng, Y: 0, Z: cosLng}
	north := common.Vec3{X: -sinLat * cosLng, Y: cosLat, Z: -sinLat * sinLng}

	up := north.Scale(math.Cos(c.headingRad)).Add(east.Scale(math.Sin(c.headingRad)))
	if up.Length() < common.Epsilon {
		return common.WorldUp
	}
	return up.Normalize()
}

func (c *globeCameraImpl) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Position:   c.position,
		Up:         c.up,
		Fov:        c.fov,
		Distance:   c.distance,
		LatRad:     c.latRad,
		LngRad:     c.lngRad,
		HeadingRad: c.headingRad,
	}
}

func (c *globeCameraImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// resetLocked restores the initial defaults and re-arms the first-update snap.
// Caller must hold the mutex (or own the camera exclusively during construction).
func (c *globeCameraImpl) resetLocked() {
	c.latRad = 0
	c.lngRad = 0
	c.headingRad = 0
	c.distance = c.highAltitude
	c.fov = c.narrowFov
	c.position = geo.ToCartesian(0, 0, c.distance)
	c.up = common.WorldUp
	c.firstUpdate = true
}
