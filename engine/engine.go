// Package engine coordinates the globe frame pipeline: a fixed-rate tick
// loop feeding vehicle telemetry into the camera, and a render loop that
// samples the camera, assembles GPU uniforms, and draws either the globe or
// the flat fallback. Window events (resize, tap) are bridged into the
// pipeline here.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/peregrine-games/globecore/engine/camera"
	"github.com/peregrine-games/globecore/engine/geo"
	"github.com/peregrine-games/globecore/engine/picking"
	"github.com/peregrine-games/globecore/engine/quality"
	"github.com/peregrine-games/globecore/engine/renderer"
	"github.com/peregrine-games/globecore/engine/resources"
	"github.com/peregrine-games/globecore/engine/uniforms"
	"github.com/peregrine-games/globecore/engine/window"
)

// statsLogInterval is how often the render loop logs frame statistics.
const statsLogInterval = 5 * time.Second

type globeEngine struct {
	mu *sync.Mutex

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window    window.Window
	renderer  renderer.GlobeRenderer
	resources resources.GlobeResources
	camera    camera.GlobeCamera
	governor  quality.Governor
	bridge    uniforms.Bridge

	engineTickRate   time.Duration
	tickRateChannel  chan time.Duration
	renderFrameLimit time.Duration

	tickCallback func(deltaTime float64)
	tapCallback  func(hit geo.Point, ok bool)

	subsolarLat float64
	subsolarLng float64

	startTime time.Time
}

// GlobeEngine owns the tick and render loops and the glue between window
// input and the globe scene.
type GlobeEngine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Camera returns the globe camera. Drive it from the tick callback.
	//
	// Returns:
	//   - camera.GlobeCamera: the camera instance
	Camera() camera.GlobeCamera

	// Governor returns the render quality governor.
	//
	// Returns:
	//   - quality.Governor: the governor instance
	Governor() quality.Governor

	// Resources returns the globe resource owner.
	//
	// Returns:
	//   - resources.GlobeResources: the resource owner
	Resources() resources.GlobeResources

	// SetTickRate sets the engine tick rate in ticks per second. Takes effect
	// immediately on a running engine.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers the function called each engine tick. Use it
	// to feed vehicle telemetry into the camera.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float64))

	// SetTapCallback registers the function called when a tap on the window
	// has been unprojected against the globe.
	//
	// Parameters:
	//   - callback: function receiving the surface point and whether the tap hit the globe
	SetTapCallback(callback func(hit geo.Point, ok bool))

	// SetSubsolarPoint sets the point on the globe directly beneath the sun,
	// which drives day/night shading.
	//
	// Parameters:
	//   - latDeg: subsolar latitude in degrees
	//   - lngDeg: subsolar longitude in degrees
	SetSubsolarPoint(latDeg, lngDeg float64)

	// Run starts the tick and render loops and blocks in the window message
	// loop until the window closes.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple
	// times; subsequent calls are no-ops.
	Quit()
}

var _ GlobeEngine = &globeEngine{}

// NewGlobeEngine creates a new engine from the provided options. The window,
// renderer, resources, camera, and governor options are required; missing
// ones cause a panic since the loops cannot run without them.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - GlobeEngine: the newly created engine
func NewGlobeEngine(options ...EngineBuilderOption) GlobeEngine {
	e := &globeEngine{
		mu:              &sync.Mutex{},
		quitChannel:     make(chan struct{}),
		tickRateChannel: make(chan time.Duration, 1),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil || e.renderer == nil || e.resources == nil || e.camera == nil || e.governor == nil {
		panic("engine requires a window, renderer, resources, camera, and governor")
	}

	e.bridge = uniforms.NewBridge(e.resources)

	e.window.SetResizeCallback(func(width, height int) {
		if width > 0 && height > 0 {
			e.renderer.ConfigureSurface(width, height)
		}
	})

	e.window.SetTapCallback(func(x, y float64) {
		if e.tapCallback == nil {
			return
		}
		hit, ok := picking.Unproject(x, y, e.window.Width(), e.window.Height(), e.camera.Snapshot())
		e.tapCallback(hit, ok)
	})

	return e
}

func (e *globeEngine) Window() window.Window {
	return e.window
}

func (e *globeEngine) Camera() camera.GlobeCamera {
	return e.camera
}

func (e *globeEngine) Governor() quality.Governor {
	return e.governor
}

func (e *globeEngine) Resources() resources.GlobeResources {
	return e.resources
}

func (e *globeEngine) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := time.Second / time.Duration(tps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	if !running {
		e.engineTickRate = newRate
		return
	}

	// Non-blocking send; replace any pending update.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *globeEngine) SetTickCallback(callback func(deltaTime float64)) {
	e.tickCallback = callback
}

func (e *globeEngine) SetTapCallback(callback func(hit geo.Point, ok bool)) {
	e.tapCallback = callback
}

func (e *globeEngine) SetSubsolarPoint(latDeg, lngDeg float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subsolarLat = latDeg
	e.subsolarLng = lngDeg
}

func (e *globeEngine) Run() {
	e.mu.Lock()
	e.running = true
	e.startTime = time.Now()
	e.mu.Unlock()

	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()

	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
}

func (e *globeEngine) Quit() {
	e.signalQuit()
}

func (e *globeEngine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleTick runs the fixed-rate tick loop. Fires the tick callback and
// listens for dynamic rate changes. Exits when the quit channel is closed.
func (e *globeEngine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(lastTick).Seconds()
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop: measure the frame time, feed the
// governor, assemble uniforms, and draw the globe or the fallback. Recovers
// from panics to avoid crashing the process and signals quit on recovery.
func (e *globeEngine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	lastStatsLog := time.Now()
	frames := 0

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := now.Sub(lastRender).Seconds()
			lastRender = now

			e.governor.RecordFrameTime(dt)
			e.renderOnce()
			frames++

			if since := time.Since(lastStatsLog); since >= statsLogInterval {
				fps := float64(frames) / since.Seconds()
				log.Printf("[Engine] %.1f fps, quality %s", fps, e.governor.Level())
				lastStatsLog = time.Now()
				frames = 0
			}

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderOnce assembles one frame's uniforms and issues the draw. NotReady and
// Failed both fall back to the flat frame so the window never freezes while
// resources load or after an assembly fault.
func (e *globeEngine) renderOnce() {
	e.mu.Lock()
	sunLat, sunLng := e.subsolarLat, e.subsolarLng
	elapsed := time.Since(e.startTime).Seconds()
	e.mu.Unlock()

	result := e.bridge.Build(
		e.window.Width(),
		e.window.Height(),
		e.camera.Snapshot(),
		uniforms.SunDirection(sunLat, sunLng),
		elapsed,
		e.governor.Parameters(),
	)

	var err error
	if result.Status == uniforms.StatusReady {
		err = e.renderer.RenderFrame(result.Frame)
	} else {
		err = e.renderer.RenderFallback()
	}
	if err != nil {
		// Swapchain acquisition can fail transiently mid-resize; skip the frame.
		log.Printf("[Engine] frame skipped: %v", err)
	}
}
