package renderer

import "github.com/cogentcore/webgpu/wgpu"

type rendererOptions struct {
	presentMode          wgpu.PresentMode
	fallbackColor        wgpu.Color
	forceFallbackAdapter bool
}

func defaultRendererOptions() *rendererOptions {
	return &rendererOptions{
		presentMode: wgpu.PresentModeFifo,
		// Deep space blue-black, also the flat fallback frame color.
		fallbackColor: wgpu.Color{R: 0.008, G: 0.012, B: 0.03, A: 1.0},
	}
}

// GlobeRendererOption is a functional option applied to a renderer during
// construction via NewGlobeRenderer.
type GlobeRendererOption func(*rendererOptions)

// WithPresentMode sets the surface present mode which controls how frames are
// delivered to the display. The default is VSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GlobeRendererOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) GlobeRendererOption {
	return func(o *rendererOptions) {
		switch mode {
		case PresentModeUncapped:
			o.presentMode = wgpu.PresentModeImmediate
		case PresentModeVSync:
			fallthrough
		default:
			o.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithFallbackColor sets the clear color used for fallback frames and as the
// background of globe frames.
//
// Parameters:
//   - r, g, b: the color channels in linear [0, 1]
//
// Returns:
//   - GlobeRendererOption: a function that applies the fallback color option to a renderer
func WithFallbackColor(r, g, b float64) GlobeRendererOption {
	return func(o *rendererOptions) {
		o.fallbackColor = wgpu.Color{R: r, G: g, B: b, A: 1.0}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter
// instead of hardware GPU acceleration. Requires a software Vulkan ICD to be
// installed on the system (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GlobeRendererOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) GlobeRendererOption {
	return func(o *rendererOptions) {
		o.forceFallbackAdapter = force
	}
}
