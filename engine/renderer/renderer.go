// Package renderer owns the WebGPU device and draws the globe as a
// single fullscreen pass. The globe program raymarches the sphere in the
// fragment stage, so there are no vertex or index buffers; each frame is one
// three-vertex draw with a uniform block and the texture slots bound at
// group 0.
package renderer

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/peregrine-games/globecore/common"
	"github.com/peregrine-games/globecore/engine/resources"
	"github.com/peregrine-games/globecore/engine/uniforms"
)

// PresentMode controls how finished frames are delivered to the display.
type PresentMode int

const (
	// PresentModeUncapped presents frames as fast as the GPU produces them.
	PresentModeUncapped PresentMode = iota
	// PresentModeVSync locks presentation to the display refresh rate.
	PresentModeVSync
)

// uniformBlockFloats is the length in float32 of the GPU uniform block: the
// ordered scalar list, four quality knobs, and one pad float to keep the
// block a multiple of 16 bytes.
const uniformBlockFloats = uniforms.ScalarCount + 4 + 1

// Bindings of the globe program's single bind group. The WGSL side declares
// the same layout at @group(0).
const (
	bindingUniforms    = 0
	bindingBaseColor   = 1
	bindingHeight      = 2
	bindingShoreline   = 3
	bindingNightLights = 4
	bindingSampler     = 5
)

type globeRendererImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	renderPassDescriptor *wgpu.RenderPassDescriptor
	presentMode          wgpu.PresentMode

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	uniformBuffer   *wgpu.Buffer

	// Cached bind group plus the view pointers it was built from; the group
	// is rebuilt whenever a texture slot or the sampler changes identity
	// (resource generation bump).
	bindGroup     *wgpu.BindGroup
	boundViews    [resources.SlotCount]*wgpu.TextureView
	boundSampler  *wgpu.Sampler
	placeholder   *wgpu.TextureView
	fallbackColor wgpu.Color

	forceFallbackAdapter bool
}

// GlobeRenderer draws the globe scene and uploads its GPU resources. It also
// satisfies resources.Uploader so the resource owner can stage textures and
// the globe program through it.
type GlobeRenderer interface {
	resources.Uploader

	// ConfigureSurface (re)configures the swapchain for the given pixel size.
	// Must be called once before the first frame and again on every resize.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	ConfigureSurface(width, height int)

	// RenderFrame draws one globe frame from fully assembled inputs.
	//
	// Parameters:
	//   - frame: the scalar block, texture views, sampler, and quality preset
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired or
	//     the frame could not be submitted
	RenderFrame(frame uniforms.Frame) error

	// RenderFallback draws a flat clear-color frame. Used while resources are
	// loading and whenever uniform assembly fails.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	RenderFallback() error

	// Release frees the GPU resources owned by the renderer. The renderer is
	// unusable afterwards.
	Release()
}

var _ GlobeRenderer = &globeRendererImpl{}
var _ resources.Uploader = &globeRendererImpl{}

// NewGlobeRenderer creates the WebGPU instance, surface, adapter, device, and
// queue for a globe renderer. Panics if the adapter or device cannot be
// acquired, since nothing can render without them.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to render into
//   - opts: optional renderer configuration
//
// Returns:
//   - GlobeRenderer: the newly created renderer
func NewGlobeRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, opts ...GlobeRendererOption) GlobeRenderer {
	runtime.LockOSThread()

	options := defaultRendererOptions()
	for _, opt := range opts {
		opt(options)
	}

	r := &globeRendererImpl{
		mu:                   &sync.Mutex{},
		instance:             wgpu.CreateInstance(nil),
		presentMode:          options.presentMode,
		fallbackColor:        options.fallbackColor,
		forceFallbackAdapter: options.forceFallbackAdapter,
	}
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		panic(err)
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Globe Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	r.device = device
	r.queue = device.GetQueue()

	return r
}

func (r *globeRendererImpl) ConfigureSurface(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	r.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       nil, // set per-frame to the swapchain view
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.fallbackColor,
			},
		},
	}
}

// RegisterGlobeProgram compiles the globe WGSL source and builds the render
// pipeline around it: one bind group, a fullscreen-triangle vertex stage with
// no buffers, and no depth attachment.
func (r *globeRendererImpl) RegisterGlobeProgram(source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.surfaceFormat == nil {
		return fmt.Errorf("surface not configured before program registration")
	}

	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Globe Program",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile globe program: %w", err)
	}

	layout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Globe Bind Group Layout",
		Entries: globeBindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("failed to create globe bind group layout: %w", err)
	}
	r.bindGroupLayout = layout

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Globe Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("failed to create globe pipeline layout: %w", err)
	}

	pipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Globe Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create globe render pipeline: %w", err)
	}
	r.pipeline = pipeline

	if r.uniformBuffer == nil {
		buf, bufErr := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Globe Uniform Buffer",
			Size:  uint64(uniformBlockFloats * 4),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if bufErr != nil {
			return fmt.Errorf("failed to create globe uniform buffer: %w", bufErr)
		}
		r.uniformBuffer = buf
	}

	// A program swap invalidates any bind group built against the old layout.
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}

	log.Printf("[Renderer] globe program registered")
	return nil
}

func (r *globeRendererImpl) CreateTextureView(label string, staging common.TextureStagingData) (*wgpu.TextureView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createTextureViewLocked(label, staging)
}

func (r *globeRendererImpl) createTextureViewLocked(label string, staging common.TextureStagingData) (*wgpu.TextureView, error) {
	tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	return tex.CreateView(nil)
}

func (r *globeRendererImpl) CreateSampler(staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Globe Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
		Compare:       staging.Compare,
	})
}

func (r *globeRendererImpl) RenderFrame(frame uniforms.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pipeline == nil {
		return r.renderClearLocked()
	}

	r.queue.WriteBuffer(r.uniformBuffer, 0, packUniformBlock(frame))

	if err := r.ensureBindGroupLocked(frame); err != nil {
		return err
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	r.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(r.renderPassDescriptor)
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *globeRendererImpl) RenderFallback() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderClearLocked()
}

func (r *globeRendererImpl) renderClearLocked() error {
	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	r.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(r.renderPassDescriptor)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

// ensureBindGroupLocked rebuilds the bind group when any texture slot or the
// sampler changed identity since the last frame. Unbound optional slots are
// substituted with a shared 1x1 placeholder view, since every declared
// binding must hold a resource.
func (r *globeRendererImpl) ensureBindGroupLocked(frame uniforms.Frame) error {
	if r.bindGroup != nil && r.boundViews == frame.Textures && r.boundSampler == frame.Sampler {
		return nil
	}

	if r.placeholder == nil {
		view, err := r.createTextureViewLocked("Globe Placeholder", common.TextureStagingData{
			Pixels: []byte{0, 0, 0, 255},
			Width:  1,
			Height: 1,
		})
		if err != nil {
			return fmt.Errorf("failed to create placeholder texture: %w", err)
		}
		r.placeholder = view
	}

	viewFor := func(slot resources.Slot) *wgpu.TextureView {
		if frame.Textures[slot] != nil {
			return frame.Textures[slot]
		}
		return r.placeholder
	}

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Globe Bind Group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: bindingUniforms, Buffer: r.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: bindingBaseColor, TextureView: viewFor(resources.SlotBaseColor)},
			{Binding: bindingHeight, TextureView: viewFor(resources.SlotHeight)},
			{Binding: bindingShoreline, TextureView: viewFor(resources.SlotShoreline)},
			{Binding: bindingNightLights, TextureView: viewFor(resources.SlotNightLights)},
			{Binding: bindingSampler, Sampler: frame.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create globe bind group: %w", err)
	}

	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	r.bindGroup = bindGroup
	r.boundViews = frame.Textures
	r.boundSampler = frame.Sampler
	return nil
}

func (r *globeRendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.placeholder != nil {
		r.placeholder.Release()
		r.placeholder = nil
	}
	if r.uniformBuffer != nil {
		r.uniformBuffer.Release()
		r.uniformBuffer = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}

// packUniformBlock flattens a frame into the GPU uniform block: the ordered
// scalar list followed by the quality knobs as floats, padded to a 16-byte
// multiple.
func packUniformBlock(frame uniforms.Frame) []byte {
	block := make([]float32, uniformBlockFloats)
	copy(block, frame.Scalars[:])

	block[uniforms.ScalarCount] = float32(frame.Quality.CloudIterations)
	block[uniforms.ScalarCount+1] = boolToFloat(frame.Quality.FoamEnabled)
	block[uniforms.ScalarCount+2] = float32(frame.Quality.AtmosphereQuality)
	block[uniforms.ScalarCount+3] = boolToFloat(frame.Quality.CityLightsEnabled)

	return common.SliceToBytes(block)
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// globeBindGroupLayoutEntries declares group 0 of the globe program: the
// uniform block, the four texture slots, and the shared sampler.
func globeBindGroupLayoutEntries() []wgpu.BindGroupLayoutEntry {
	textureEntry := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		}
	}

	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    bindingUniforms,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(uniformBlockFloats * 4),
			},
		},
		textureEntry(bindingBaseColor),
		textureEntry(bindingHeight),
		textureEntry(bindingShoreline),
		textureEntry(bindingNightLights),
		{
			Binding:    bindingSampler,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}
