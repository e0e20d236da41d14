package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peregrine-games/globecore/common"
)

// fakeUploader records calls instead of touching a GPU device.
type fakeUploader struct {
	mu sync.Mutex

	programs     []string
	textures     map[string]common.TextureStagingData
	samplers     []common.SamplerStagingData
	failTextures bool
	failProgram  bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{textures: make(map[string]common.TextureStagingData)}
}

func (f *fakeUploader) CreateTextureView(label string, staging common.TextureStagingData) (*wgpu.TextureView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTextures {
		return nil, fmt.Errorf("device lost")
	}
	f.textures[label] = staging
	return &wgpu.TextureView{}, nil
}

func (f *fakeUploader) CreateSampler(staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samplers = append(f.samplers, staging)
	return &wgpu.Sampler{}, nil
}

func (f *fakeUploader) RegisterGlobeProgram(source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProgram {
		return fmt.Errorf("shader compile error")
	}
	f.programs = append(f.programs, source)
	return nil
}

// pngBytes encodes a small solid-color PNG for decode tests.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadAsyncBecomesReady(t *testing.T) {
	up := newFakeUploader()
	res := NewGlobeResources(up)

	res.LoadAsync("// globe wgsl", map[Slot]Source{
		SlotBaseColor: {Data: pngBytes(t, 4, 4)},
		SlotHeight:    {Data: pngBytes(t, 2, 2)},
	})

	require.Eventually(t, res.Ready, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, res.Err())
	assert.NotNil(t, res.TextureView(SlotBaseColor))
	assert.NotNil(t, res.TextureView(SlotHeight))
	assert.Nil(t, res.TextureView(SlotShoreline), "absent optional slot stays unbound")
	assert.Nil(t, res.TextureView(SlotNightLights))
	assert.NotNil(t, res.Sampler())

	up.mu.Lock()
	defer up.mu.Unlock()
	assert.Equal(t, []string{"// globe wgsl"}, up.programs)
	staged := up.textures["globe_map_0"]
	assert.Equal(t, uint32(4), staged.Width)
	assert.Len(t, staged.Pixels, 4*4*4)

	// Map sampler: wrap longitude, clamp latitude, no depth comparison.
	require.Len(t, up.samplers, 1)
	assert.Equal(t, wgpu.AddressModeRepeat, up.samplers[0].AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, up.samplers[0].AddressModeV)
	assert.Zero(t, up.samplers[0].Compare)
}

func TestNotReadyWithoutRequiredTexture(t *testing.T) {
	up := newFakeUploader()
	res := NewGlobeResources(up)

	// Height map missing: program and base color alone must not be ready.
	res.LoadAsync("// globe wgsl", map[Slot]Source{
		SlotBaseColor: {Data: pngBytes(t, 4, 4)},
	})

	require.Eventually(t, func() bool {
		return res.TextureView(SlotBaseColor) != nil && res.Sampler() != nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, res.Ready())
}

func TestLoadFailureSticksUntilReload(t *testing.T) {
	up := newFakeUploader()
	up.failProgram = true
	res := NewGlobeResources(up)

	res.LoadAsync("// bad wgsl", nil)
	require.Eventually(t, func() bool { return res.Err() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, res.Ready())

	// LoadAsync after a failure is a no-op; recovery requires Reload.
	up.mu.Lock()
	up.failProgram = false
	up.mu.Unlock()
	res.LoadAsync("// good wgsl", nil)
	assert.Error(t, res.Err())

	res.Reload("// good wgsl", map[Slot]Source{
		SlotBaseColor: {Data: pngBytes(t, 2, 2)},
		SlotHeight:    {Data: pngBytes(t, 2, 2)},
	})
	require.Eventually(t, res.Ready, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, res.Err())
}

func TestDecodeFailureReported(t *testing.T) {
	up := newFakeUploader()
	res := NewGlobeResources(up)

	res.LoadAsync("// globe wgsl", map[Slot]Source{
		SlotBaseColor: {Data: []byte("not an image")},
	})
	require.Eventually(t, func() bool { return res.Err() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, res.Ready())
}

func TestGenerationTracksTextureChanges(t *testing.T) {
	up := newFakeUploader()
	res := NewGlobeResources(up)

	start := res.Generation()
	res.LoadAsync("// globe wgsl", map[Slot]Source{
		SlotBaseColor: {Data: pngBytes(t, 2, 2)},
		SlotHeight:    {Data: pngBytes(t, 2, 2)},
	})
	require.Eventually(t, res.Ready, 5*time.Second, 10*time.Millisecond)
	assert.Greater(t, res.Generation(), start)
}

func TestDecodeImageSources(t *testing.T) {
	staging, err := decodeImage(Source{Data: pngBytes(t, 3, 5)})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), staging.Width)
	assert.Equal(t, uint32(5), staging.Height)
	assert.Len(t, staging.Pixels, 3*5*4)

	_, err = decodeImage(Source{})
	assert.Error(t, err)

	_, err = decodeImage(Source{Path: "/nonexistent/map.png"})
	assert.Error(t, err)
}
