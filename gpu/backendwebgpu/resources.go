package backendwebgpu

import (
	"sync"

	"github.com/gogpu/wgpu/core"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// Texture wraps a wgpu core.TextureID. externallyOwned textures (imported
// from the host via Backend.ImportExternalTexture with adopted=false) are
// never dropped by Destroy: the host retains ownership.
type Texture struct {
	deviceID        core.DeviceID
	id              core.TextureID
	desc            gpu.TextureDescriptor
	externallyOwned bool
	destroyed       bool
}

func (t *Texture) Width() uint32           { return t.desc.Width }
func (t *Texture) Height() uint32          { return t.desc.Height }
func (t *Texture) Format() gpu.PixelFormat { return t.desc.Format }
func (t *Texture) MipLevelCount() uint32   { return t.desc.MipLevelCount }
func (t *Texture) SampleCount() uint32     { return t.desc.SampleCount }
func (t *Texture) Usage() gpu.TextureUsage { return t.desc.Usage }

func (t *Texture) ByteSize() uint64 {
	if t.desc.YUVFormat != gpu.YUVFormatUnknown {
		return uint64(t.desc.Width) * uint64(t.desc.Height) * 2
	}
	return uint64(t.desc.Width) * uint64(t.desc.Height) * uint64(t.desc.Format.BytesPerPixel())
}

// CreateView creates a texture view, the handle render passes and bind
// groups actually consume. Errors from the underlying driver are swallowed
// into a zero-value view: the gpu.Texture interface's CreateView cannot
// return an error, matching fakegpu's in-memory implementation.
func (t *Texture) CreateView() gpu.TextureView {
	viewID, err := core.CreateTextureView(t.deviceID, t.id, nil)
	if err != nil {
		return &TextureView{tex: t, err: err}
	}
	return &TextureView{id: viewID, tex: t}
}

func (t *Texture) Destroy() {
	if t.destroyed || t.externallyOwned {
		return
	}
	t.destroyed = true
	core.TextureDrop(t.id) //nolint:errcheck // Destroy has no error return
}

// TextureView is a sampled or render-attachable view into a Texture.
type TextureView struct {
	id  core.TextureViewID
	tex *Texture
	err error
}

func (v *TextureView) Origin() gpu.Origin { return gpu.OriginTopLeft }
func (v *TextureView) Width() uint32      { return v.tex.Width() }
func (v *TextureView) Height() uint32     { return v.tex.Height() }
func (v *TextureView) PlaneCount() int {
	if n := v.tex.desc.YUVFormat.PlaneCount(); n > 0 {
		return n
	}
	return 1
}
func (v *TextureView) Destroy() {
	if v.err != nil {
		return
	}
	core.TextureViewDrop(v.id) //nolint:errcheck // Destroy has no error return
}

// Opaque exposes the backend-native handle for use by encoder.go's
// attachment translation.
func (v *TextureView) Opaque() any { return v.id }

// Buffer wraps a wgpu core.BufferID.
type Buffer struct {
	mu     sync.Mutex
	id     core.BufferID
	size   uint64
	usage  gpu.BufferUsage
	mapped []byte
}

func (b *Buffer) Size() uint64           { return b.size }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }
func (b *Buffer) Opaque() any            { return b.id }

func (b *Buffer) MappedRange() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapped
}

func (b *Buffer) IsMapped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapped != nil
}

func (b *Buffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mapped == nil {
		return
	}
	core.BufferUnmap(b.id) //nolint:errcheck // Unmap has no error return
	b.mapped = nil
}

func (b *Buffer) Destroy() {
	core.BufferDrop(b.id) //nolint:errcheck // Destroy has no error return
}
