// Package fakegpu implements gpu.GPU entirely in memory, with no real
// driver underneath. It exists so the resource cache, task graph, and ops
// compositor can be exercised end-to-end (spec §8 scenarios) without a
// real GPU device present, mirroring how gogpu-gg's backend/native
// package backs its own tests with a software rasterizer instead of a
// live driver.
package fakegpu

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// GPU is an in-memory gpu.GPU implementation for tests.
type GPU struct {
	caps   gpu.ShaderCaps
	limits gpu.Limits
	queue  *Queue
}

// New creates a fake GPU with reasonable default caps and limits.
func New() *GPU {
	g := &GPU{
		caps: gpu.ShaderCaps{
			VersionDeclString:   "#version 310 es",
			MaxFragmentSamplers: 16,
			MaxUBOSize:          65536,
			UBOOffsetAlignment:  256,
		},
		limits: gpu.Limits{
			MaxTextureSize:      8192,
			MaxSampleCount:      4,
			MaxFragmentSamplers: 16,
			MaxUBOSize:          65536,
			UBOOffsetAlignment:  256,
		},
	}
	g.queue = &Queue{gpu: g}
	return g
}

func (g *GPU) Backend() gpu.Backend  { return gpu.BackendGL }
func (g *GPU) Caps() *gpu.ShaderCaps { return &g.caps }
func (g *GPU) Limits() gpu.Limits    { return g.limits }

func (g *GPU) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("fakegpu: create texture: %w", gpu.ErrInvalidDescriptor)
	}
	return &Texture{desc: desc, pixels: make([]byte, textureByteSize(desc))}, nil
}

func (g *GPU) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("fakegpu: create buffer: %w", gpu.ErrInvalidDescriptor)
	}
	return &Buffer{data: make([]byte, size), usage: usage}, nil
}

func (g *GPU) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	return gpu.NewRenderPipeline(gpu.BackendGL, desc.Label, desc), nil
}

func (g *GPU) ImportExternalTexture(handle any, adopted bool) (gpu.Texture, error) {
	tex, ok := handle.(*Texture)
	if !ok {
		return nil, fmt.Errorf("fakegpu: import external texture: %w", gpu.ErrInvalidDescriptor)
	}
	return tex, nil
}

func (g *GPU) Queue() gpu.CommandQueue { return g.queue }

func (g *GPU) NewCommandEncoder(label string) (*gpu.CommandEncoder, error) {
	return gpu.WrapCommandEncoder(gpu.BackendGL, &encoder{gpu: g, label: label}, label), nil
}

func textureByteSize(desc gpu.TextureDescriptor) uint64 {
	if desc.YUVFormat != gpu.YUVFormatUnknown {
		return uint64(desc.Width) * uint64(desc.Height) * 2 // approximate plane-summed cost
	}
	return uint64(desc.Width) * uint64(desc.Height) * uint64(desc.Format.BytesPerPixel())
}

// Texture is an in-memory gpu.Texture.
type Texture struct {
	desc      gpu.TextureDescriptor
	pixels    []byte
	destroyed bool
}

func (t *Texture) Width() uint32            { return t.desc.Width }
func (t *Texture) Height() uint32           { return t.desc.Height }
func (t *Texture) Format() gpu.PixelFormat  { return t.desc.Format }
func (t *Texture) MipLevelCount() uint32    { return t.desc.MipLevelCount }
func (t *Texture) SampleCount() uint32      { return t.desc.SampleCount }
func (t *Texture) Usage() gpu.TextureUsage  { return t.desc.Usage }
func (t *Texture) ByteSize() uint64         { return uint64(len(t.pixels)) }
func (t *Texture) Destroy()                 { t.destroyed = true }
func (t *Texture) CreateView() gpu.TextureView {
	return &TextureView{tex: t}
}

// TextureView is an in-memory gpu.TextureView.
type TextureView struct {
	tex *Texture
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
func (v *TextureView) Destroy() {}

// Buffer is an in-memory gpu.Buffer.
type Buffer struct {
	mu      sync.Mutex
	data    []byte
	usage   gpu.BufferUsage
	mapped  bool
	destroy bool
}

func (b *Buffer) Size() uint64           { return uint64(len(b.data)) }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }

func (b *Buffer) MappedRange() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mapped {
		return nil
	}
	return b.data
}

func (b *Buffer) IsMapped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapped
}

func (b *Buffer) Map() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mapped = true
}

func (b *Buffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mapped = false
}

func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroy = true
}

// Queue is an in-memory gpu.CommandQueue that records submissions instead
// of executing them against a real driver.
type Queue struct {
	gpu *GPU

	mu        sync.Mutex
	submitted []*gpu.CommandBuffer
}

func (q *Queue) Submit(buf *gpu.CommandBuffer) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.submitted = append(q.submitted, buf)
	return nil
}

// Submitted returns every command buffer submitted so far, in submission
// order (spec P7: submit ordering).
func (q *Queue) Submitted() []*gpu.CommandBuffer {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*gpu.CommandBuffer, len(q.submitted))
	copy(out, q.submitted)
	return out
}

func (q *Queue) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("fakegpu: write buffer: %w", gpu.ErrNilResource)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("fakegpu: write buffer: %w", gpu.ErrCopyOutOfBounds)
	}
	copy(b.data[offset:], data)
	return nil
}

func (q *Queue) WriteTexture(texture gpu.Texture, rect gpu.Rect, pixels []byte, rowBytes uint32) error {
	t, ok := texture.(*Texture)
	if !ok {
		return fmt.Errorf("fakegpu: write texture: %w", gpu.ErrNilResource)
	}
	bpp := uint64(t.desc.Format.BytesPerPixel())
	for row := int32(0); row < rect.H; row++ {
		dstOff := (uint64(rect.Y+row)*uint64(t.desc.Width) + uint64(rect.X)) * bpp
		srcOff := uint64(row) * uint64(rowBytes)
		n := uint64(rect.W) * bpp
		if dstOff+n > uint64(len(t.pixels)) || srcOff+n > uint64(len(pixels)) {
			return fmt.Errorf("fakegpu: write texture: %w", gpu.ErrCopyOutOfBounds)
		}
		copy(t.pixels[dstOff:dstOff+n], pixels[srcOff:srcOff+n])
	}
	return nil
}

func (q *Queue) InsertSemaphore() (gpu.Semaphore, error) {
	return &semaphore{signaled: new(atomic.Bool)}, nil
}

func (q *Queue) WaitSemaphore(sem gpu.Semaphore) error { return nil }

func (q *Queue) WaitUntilCompleted() error { return nil }

type semaphore struct {
	signaled *atomic.Bool
}

func (s *semaphore) Wait(ctx context.Context) error {
	s.signaled.Store(true)
	return nil
}
