// Package uniforms translates camera, lighting, timing, and quality state
// into the exact parameter list the globe GPU program expects. The scalar
// ordering and texture slots form a versioned wire contract with the paired
// WGSL program; both sides must agree out-of-band.
package uniforms

import (
	"fmt"
	"log"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/camera"
	"github.com/peregrine-games/globecore/engine/quality"
	"github.com/peregrine-games/globecore/engine/resources"
)

// ScalarCount is the length of the ordered scalar list.
const ScalarCount = 15

// Scalar indices of the frame uniform contract. Reordering any of these is a
// breaking protocol change against the paired GPU program.
const (
	IdxViewportWidth  = 0
	IdxViewportHeight = 1
	IdxCameraPosX     = 2
	IdxCameraPosY     = 3
	IdxCameraPosZ     = 4
	IdxCameraUpX      = 5
	IdxCameraUpY      = 6
	IdxCameraUpZ      = 7
	IdxSunDirX        = 8
	IdxSunDirY        = 9
	IdxSunDirZ        = 10
	IdxElapsedTime    = 11
	IdxGlobeRadius    = 12
	IdxCloudRadius    = 13
	IdxFov            = 14
)

// Status tags a bridge result. Callers must check it: NotReady and Failed
// both mean "draw the flat fallback this frame" and carry no frame data.
type Status int

const (
	// StatusReady means Frame is fully populated.
	StatusReady Status = iota
	// StatusNotReady means resources are still loading. Expected at startup.
	StatusNotReady
	// StatusFailed means configuration hit an unexpected error; rendering
	// stays on the fallback. The error is available on Result.Err.
	StatusFailed
)

// Frame is the fully assembled per-frame GPU input: the ordered scalar list,
// the four texture slots (nil = unbound), and the quality preset. It is a
// value object rebuilt from scratch every frame, never partially updated.
type Frame struct {
	Scalars  [ScalarCount]float32
	Textures [resources.SlotCount]*wgpu.TextureView
	Sampler  *wgpu.Sampler
	Quality  quality.Parameters
}

// Result is the tagged outcome of one Build call.
type Result struct {
	Status Status
	Frame  Frame
	Err    error
}

// bridgeImpl is the single implementation of Bridge.
type bridgeImpl struct {
	res resources.GlobeResources

	// failureLogOnce keeps an unexpected per-frame configuration failure from
	// flooding the log at 60 calls per second; it is reported once per session.
	failureLogOnce sync.Once
}

// Bridge assembles the globe program's frame inputs. It never panics out of
// the render loop: missing resources yield NotReady and unexpected failures
// are caught, logged once, and yield Failed.
type Bridge interface {
	// Build assembles the frame inputs for one draw call.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//   - snap: the camera state for this frame
	//   - sunDir: unit sun direction in world space
	//   - elapsed: elapsed session time in seconds
	//   - params: the quality preset for this frame
	//
	// Returns:
	//   - Result: Ready with a populated Frame, or NotReady/Failed
	Build(width, height int, snap camera.Snapshot, sunDir common.Vec3, elapsed float64, params quality.Parameters) Result
}

var _ Bridge = &bridgeImpl{}

// NewBridge creates a Bridge reading texture and program state from the given
// resource owner.
//
// Parameters:
//   - res: the resource owner supplying program readiness and texture views
//
// Returns:
//   - Bridge: the newly created bridge
func NewBridge(res resources.GlobeResources) Bridge {
	return &bridgeImpl{res: res}
}

func (b *bridgeImpl) Build(width, height int, snap camera.Snapshot, sunDir common.Vec3, elapsed float64, params quality.Parameters) (result Result) {
	// A panic while assembling uniforms must not take down the frame loop.
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("uniform configuration failed: %v", r)
			b.failureLogOnce.Do(func() {
				log.Printf("[UniformBridge] %v (further occurrences suppressed)", err)
			})
			result = Result{Status: StatusFailed, Err: err}
		}
	}()

	if b.res == nil || !b.res.Ready() {
		return Result{Status: StatusNotReady}
	}

	var frame Frame
	frame.Scalars[IdxViewportWidth] = float32(width)
	frame.Scalars[IdxViewportHeight] = float32(height)
	frame.Scalars[IdxCameraPosX] = float32(snap.Position.X)
	frame.Scalars[IdxCameraPosY] = float32(snap.Position.Y)
	frame.Scalars[IdxCameraPosZ] = float32(snap.Position.Z)
	frame.Scalars[IdxCameraUpX] = float32(snap.Up.X)
	frame.Scalars[IdxCameraUpY] = float32(snap.Up.Y)
	frame.Scalars[IdxCameraUpZ] = float32(snap.Up.Z)
	frame.Scalars[IdxSunDirX] = float32(sunDir.X)
	frame.Scalars[IdxSunDirY] = float32(sunDir.Y)
	frame.Scalars[IdxSunDirZ] = float32(sunDir.Z)
	frame.Scalars[IdxElapsedTime] = float32(elapsed)
	frame.Scalars[IdxGlobeRadius] = float32(common.GlobeRadius)
	frame.Scalars[IdxCloudRadius] = float32(common.CloudShellRadius)
	frame.Scalars[IdxFov] = float32(snap.Fov)

	for slot := resources.Slot(0); slot < resources.SlotCount; slot++ {
		frame.Textures[slot] = b.res.TextureView(slot)
	}
	frame.Sampler = b.res.Sampler()
	frame.Quality = params

	return Result{Status: StatusReady, Frame: frame}
}
