package engine

import (
	"time"

	"github.com/peregrine-games/globecore/engine/camera"
	"github.com/peregrine-games/globecore/engine/quality"
	"github.com/peregrine-games/globecore/engine/renderer"
	"github.com/peregrine-games/globecore/engine/resources"
	"github.com/peregrine-games/globecore/engine/window"
)

// EngineBuilderOption is a functional option for configuring a GlobeEngine.
// Use the With* functions to create options that are applied directly to the
// engine instance.
type EngineBuilderOption func(*globeEngine)

// WithWindow sets the window the engine drives. Required.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *globeEngine) {
		e.window = w
	}
}

// WithRenderer sets the globe renderer. Required.
//
// Parameters:
//   - r: a pre-configured GlobeRenderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.GlobeRenderer) EngineBuilderOption {
	return func(e *globeEngine) {
		e.renderer = r
	}
}

// WithResources sets the globe resource owner. Required.
//
// Parameters:
//   - r: a pre-configured GlobeResources instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResources(r resources.GlobeResources) EngineBuilderOption {
	return func(e *globeEngine) {
		e.resources = r
	}
}

// WithCamera sets the globe camera. Required.
//
// Parameters:
//   - c: a pre-configured GlobeCamera instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.GlobeCamera) EngineBuilderOption {
	return func(e *globeEngine) {
		e.camera = c
	}
}

// WithGovernor sets the render quality governor. Required.
//
// Parameters:
//   - g: a pre-configured Governor instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGovernor(g quality.Governor) EngineBuilderOption {
	return func(e *globeEngine) {
		e.governor = g
	}
}

// WithTickRate sets the engine tick rate in ticks per second. Values <= 0
// are treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(tps float64) EngineBuilderOption {
	return func(e *globeEngine) {
		if tps <= 0 {
			tps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(tps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per
// second. Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *globeEngine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithSubsolarPoint sets the initial subsolar point driving day/night shading.
//
// Parameters:
//   - latDeg: subsolar latitude in degrees
//   - lngDeg: subsolar longitude in degrees
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSubsolarPoint(latDeg, lngDeg float64) EngineBuilderOption {
	return func(e *globeEngine) {
		e.subsolarLat = latDeg
		e.subsolarLng = lngDeg
	}
}
