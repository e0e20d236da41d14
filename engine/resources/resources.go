// Package resources owns the GPU program and map textures the globe shader
// consumes. The owner is explicitly constructed and handed to the render-loop
// owner — there is no ambient global registry — so lifetime and disposal stay
// visible and testable.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/peregrine-games/globecore/common"
)

// Slot identifies one of the four fixed texture slots of the globe shader
// contract. Slot order is part of the GPU wire contract and must not change.
type Slot int

const (
	// SlotBaseColor is the satellite/base-color imagery. Required.
	SlotBaseColor Slot = iota
	// SlotHeight is the terrain relief map. Required.
	SlotHeight
	// SlotShoreline is the shoreline distance field. Optional.
	SlotShoreline
	// SlotNightLights is the night-side city lights map. Optional.
	SlotNightLights

	// SlotCount is the number of texture slots in the contract.
	SlotCount
)

// requiredSlots are the slots that gate readiness. The remaining slots merely
// leave their binding on the placeholder texture when absent.
var requiredSlots = [...]Slot{SlotBaseColor, SlotHeight}

// Source describes where one texture's image data comes from: embedded bytes
// or a file path. PNG and JPEG are supported.
type Source struct {
	// Path is the image file path (used when Data is empty).
	Path string
	// Data contains raw embedded image bytes.
	Data []byte
}

// Uploader creates GPU-side texture resources from staged pixel data. The
// renderer implements this; resources never touches the device directly.
type Uploader interface {
	// CreateTextureView uploads staged RGBA pixels and returns a texture view.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - staging: the pixel data and dimensions
	//
	// Returns:
	//   - *wgpu.TextureView: the created view
	//   - error: error if creation fails
	CreateTextureView(label string, staging common.TextureStagingData) (*wgpu.TextureView, error)

	// CreateSampler creates a sampler from the staged configuration.
	//
	// Parameters:
	//   - staging: sampler parameters; zero fields use renderer defaults
	//
	// Returns:
	//   - *wgpu.Sampler: the created sampler
	//   - error: error if creation fails
	CreateSampler(staging common.SamplerStagingData) (*wgpu.Sampler, error)

	// RegisterGlobeProgram compiles the globe WGSL program and builds its
	// render pipeline.
	//
	// Parameters:
	//   - source: WGSL source for the globe program
	//
	// Returns:
	//   - error: error if compilation or pipeline creation fails
	RegisterGlobeProgram(source string) error
}

// globeResourcesImpl is the single implementation of GlobeResources.
type globeResourcesImpl struct {
	mu *sync.Mutex

	uploader Uploader
	pool     worker.DynamicWorkerPool

	views   [SlotCount]*wgpu.TextureView
	sampler *wgpu.Sampler

	programReady bool
	loadStarted  bool
	failure      error

	// generation increments whenever the bound texture set changes so the
	// renderer knows to rebuild its bind group.
	generation uint64

	loadWorkers int
}

// GlobeResources is the dependency-injected owner of the globe program and
// its map textures. Loading is the one asynchronous operation in the module:
// LoadAsync returns immediately and the render path polls Ready each frame,
// drawing a flat fallback until the required resources arrive. There is no
// cancellation — a failed load leaves the session on the fallback until an
// explicit Reload.
type GlobeResources interface {
	// LoadAsync starts decoding and uploading in the background: the program
	// compiles first, then each provided texture decodes off-thread and
	// uploads. Missing sources leave their slot unbound. Calling while a load
	// is already in flight is a no-op.
	//
	// Parameters:
	//   - programSource: WGSL source for the globe program
	//   - sources: texture sources keyed by slot; absent slots stay unbound
	LoadAsync(programSource string, sources map[Slot]Source)

	// Reload clears failure state and starts a fresh load. Explicit — loads
	// are never retried automatically.
	//
	// Parameters:
	//   - programSource: WGSL source for the globe program
	//   - sources: texture sources keyed by slot
	Reload(programSource string, sources map[Slot]Source)

	// Ready reports whether the program and all required textures are loaded.
	Ready() bool

	// Err returns the first load failure, or nil. A non-nil error means the
	// session stays on the fallback render until Reload.
	Err() error

	// TextureView returns the view bound at a slot, or nil if unbound.
	//
	// Parameters:
	//   - slot: the texture slot
	//
	// Returns:
	//   - *wgpu.TextureView: the view or nil
	TextureView(slot Slot) *wgpu.TextureView

	// Sampler returns the shared map sampler, or nil before loading.
	Sampler() *wgpu.Sampler

	// Generation returns a counter that increments whenever the bound
	// texture set changes. Renderers compare it to rebuild bind groups.
	Generation() uint64

	// Release frees all GPU resources. Only called at shutdown.
	Release()
}

var _ GlobeResources = &globeResourcesImpl{}

// NewGlobeResources creates a GlobeResources owner backed by the given
// uploader. The worker pool for background decodes is created immediately;
// workers idle out between loads.
//
// Parameters:
//   - uploader: the GPU-side resource factory (usually the renderer)
//   - options: functional options to configure the owner
//
// Returns:
//   - GlobeResources: the newly created resource owner
func NewGlobeResources(uploader Uploader, options ...GlobeResourcesOption) GlobeResources {
	r := &globeResourcesImpl{
		mu:          &sync.Mutex{},
		uploader:    uploader,
		loadWorkers: 2,
	}
	for _, option := range options {
		option(r)
	}
	// Queue of 8 holds a full reload (program + 4 textures) with headroom.
	r.pool = worker.NewDynamicWorkerPool(r.loadWorkers, 8, 1*time.Second)
	return r
}

func (r *globeResourcesImpl) LoadAsync(programSource string, sources map[Slot]Source) {
	r.mu.Lock()
	if r.loadStarted {
		r.mu.Unlock()
		return
	}
	r.loadStarted = true
	r.mu.Unlock()

	r.pool.SubmitTask(worker.Task{
		ID: int(SlotCount),
		Do: func() (any, error) {
			r.loadProgram(programSource)
			return nil, nil
		},
	})

	for slot := Slot(0); slot < SlotCount; slot++ {
		src, ok := sources[slot]
		if !ok {
			continue
		}
		slotCap, srcCap := slot, src
		r.pool.SubmitTask(worker.Task{
			ID: int(slotCap),
			Do: func() (any, error) {
				r.loadTexture(slotCap, srcCap)
				return nil, nil
			},
		})
	}
}

func (r *globeResourcesImpl) Reload(programSource string, sources map[Slot]Source) {
	r.mu.Lock()
	r.loadStarted = false
	r.failure = nil
	r.programReady = false
	r.mu.Unlock()
	r.LoadAsync(programSource, sources)
}

// loadProgram compiles the globe program and creates the shared sampler.
// Runs on a worker goroutine.
func (r *globeResourcesImpl) loadProgram(source string) {
	if err := r.uploader.RegisterGlobeProgram(source); err != nil {
		r.fail(fmt.Errorf("globe program registration failed: %w", err))
		return
	}

	sampler, err := r.uploader.CreateSampler(common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeClampToEdge,
	})
	if err != nil {
		r.fail(fmt.Errorf("map sampler creation failed: %w", err))
		return
	}

	r.mu.Lock()
	r.sampler = sampler
	r.programReady = true
	r.generation++
	r.mu.Unlock()
}

// loadTexture decodes one image source and uploads it to its slot.
// Runs on a worker goroutine.
func (r *globeResourcesImpl) loadTexture(slot Slot, src Source) {
	staging, err := decodeImage(src)
	if err != nil {
		r.fail(fmt.Errorf("texture slot %d decode failed: %w", slot, err))
		return
	}

	view, err := r.uploader.CreateTextureView(fmt.Sprintf("globe_map_%d", slot), staging)
	if err != nil {
		r.fail(fmt.Errorf("texture slot %d upload failed: %w", slot, err))
		return
	}

	r.mu.Lock()
	if old := r.views[slot]; old != nil {
		old.Release()
	}
	r.views[slot] = view
	r.generation++
	r.mu.Unlock()
}

// fail records the first load failure. Later loads keep the original cause.
func (r *globeResourcesImpl) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure == nil {
		r.failure = err
		log.Printf("[Resources] load failed, rendering will stay on fallback: %v", err)
	}
}

func (r *globeResourcesImpl) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.programReady || r.failure != nil {
		return false
	}
	for _, slot := range requiredSlots {
		if r.views[slot] == nil {
			return false
		}
	}
	return true
}

func (r *globeResourcesImpl) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failure
}

func (r *globeResourcesImpl) TextureView(slot Slot) *wgpu.TextureView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	return r.views[slot]
}

func (r *globeResourcesImpl) Sampler() *wgpu.Sampler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampler
}

func (r *globeResourcesImpl) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

func (r *globeResourcesImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.views {
		if v != nil {
			v.Release()
			r.views[i] = nil
		}
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	r.programReady = false
}

// decodeImage decodes a PNG or JPEG source to raw RGBA staging data,
// from embedded bytes or a file on disk.
func decodeImage(src Source) (common.TextureStagingData, error) {
	var img image.Image
	var err error

	switch {
	case len(src.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(src.Data))
		if err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case src.Path != "":
		file, fileErr := os.Open(src.Path)
		if fileErr != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", src.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", src.Path, err)
		}
	default:
		return common.TextureStagingData{}, fmt.Errorf("texture source has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
