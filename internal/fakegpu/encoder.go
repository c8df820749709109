package fakegpu

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// encoder implements gpu.BackendEncoder entirely in memory.
type encoder struct {
	gpu   *GPU
	label string
}

func (e *encoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) (gpu.BackendRenderPass, error) {
	return &renderPass{desc: desc}, nil
}

func (e *encoder) CopyTextureToTexture(src, dst *gpu.ImageCopyTexture, size gpu.Extent3D) error {
	s, ok := src.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("fakegpu: copy texture to texture: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("fakegpu: copy texture to texture: %w", gpu.ErrNilResource)
	}
	bpp := uint64(d.desc.Format.BytesPerPixel())
	for row := uint32(0); row < size.Height; row++ {
		srcOff := (uint64(src.Origin.Y+int32(row))*uint64(s.desc.Width) + uint64(src.Origin.X)) * bpp
		dstOff := (uint64(dst.Origin.Y+int32(row))*uint64(d.desc.Width) + uint64(dst.Origin.X)) * bpp
		n := uint64(size.Width) * bpp
		if srcOff+n > uint64(len(s.pixels)) || dstOff+n > uint64(len(d.pixels)) {
			return fmt.Errorf("fakegpu: copy texture to texture: %w", gpu.ErrCopyOutOfBounds)
		}
		copy(d.pixels[dstOff:dstOff+n], s.pixels[srcOff:srcOff+n])
	}
	return nil
}

func (e *encoder) CopyTextureToBuffer(src *gpu.ImageCopyTexture, dst *gpu.ImageCopyBuffer, size gpu.Extent3D) error {
	s, ok := src.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("fakegpu: copy texture to buffer: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("fakegpu: copy texture to buffer: %w", gpu.ErrNilResource)
	}
	bpp := uint64(s.desc.Format.BytesPerPixel())
	rowBytes := uint64(dst.RowBytes)
	if rowBytes == 0 {
		rowBytes = uint64(size.Width) * bpp
	}
	for row := uint32(0); row < size.Height; row++ {
		srcOff := (uint64(src.Origin.Y+int32(row))*uint64(s.desc.Width) + uint64(src.Origin.X)) * bpp
		dstOff := dst.Offset + uint64(row)*rowBytes
		n := uint64(size.Width) * bpp
		if srcOff+n > uint64(len(s.pixels)) || dstOff+n > uint64(len(d.data)) {
			return fmt.Errorf("fakegpu: copy texture to buffer: %w", gpu.ErrCopyOutOfBounds)
		}
		copy(d.data[dstOff:dstOff+n], s.pixels[srcOff:srcOff+n])
	}
	return nil
}

func (e *encoder) CopyBufferToTexture(src *gpu.ImageCopyBuffer, dst *gpu.ImageCopyTexture, size gpu.Extent3D) error {
	s, ok := src.Buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("fakegpu: copy buffer to texture: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("fakegpu: copy buffer to texture: %w", gpu.ErrNilResource)
	}
	bpp := uint64(d.desc.Format.BytesPerPixel())
	rowBytes := uint64(src.RowBytes)
	if rowBytes == 0 {
		rowBytes = uint64(size.Width) * bpp
	}
	for row := uint32(0); row < size.Height; row++ {
		srcOff := src.Offset + uint64(row)*rowBytes
		dstOff := (uint64(dst.Origin.Y+int32(row))*uint64(d.desc.Width) + uint64(dst.Origin.X)) * bpp
		n := uint64(size.Width) * bpp
		if srcOff+n > uint64(len(s.data)) || dstOff+n > uint64(len(d.pixels)) {
			return fmt.Errorf("fakegpu: copy buffer to texture: %w", gpu.ErrCopyOutOfBounds)
		}
		copy(d.pixels[dstOff:dstOff+n], s.data[srcOff:srcOff+n])
	}
	return nil
}

func (e *encoder) CopyBufferToBuffer(src, dst gpu.Buffer, srcOffset, dstOffset, size uint64) error {
	s, ok := src.(*Buffer)
	if !ok {
		return fmt.Errorf("fakegpu: copy buffer to buffer: %w", gpu.ErrNilResource)
	}
	d, ok := dst.(*Buffer)
	if !ok {
		return fmt.Errorf("fakegpu: copy buffer to buffer: %w", gpu.ErrNilResource)
	}
	if srcOffset+size > uint64(len(s.data)) || dstOffset+size > uint64(len(d.data)) {
		return fmt.Errorf("fakegpu: copy buffer to buffer: %w", gpu.ErrCopyOutOfBounds)
	}
	copy(d.data[dstOffset:dstOffset+size], s.data[srcOffset:srcOffset+size])
	return nil
}

func (e *encoder) Finish() (any, error) {
	return e.label, nil
}

// renderPass implements gpu.BackendRenderPass entirely in memory,
// recording the calls made against it instead of executing them.
type renderPass struct {
	desc *gpu.RenderPassDescriptor

	Pipeline      *gpu.RenderPipeline
	VertexBuffers map[int]gpu.Buffer
	IndexBuffer   gpu.Buffer
	Uniforms      map[int]gpu.Buffer
	Textures      map[int]gpu.TextureView
	Scissor       gpu.Rect
	DrawCalls     int
	IndexedCalls  int
}

func (p *renderPass) SetPipeline(pl *gpu.RenderPipeline) error {
	p.Pipeline = pl
	return nil
}

func (p *renderPass) SetVertexBuffer(slot int, buf gpu.Buffer, offset uint64) error {
	if p.VertexBuffers == nil {
		p.VertexBuffers = make(map[int]gpu.Buffer)
	}
	p.VertexBuffers[slot] = buf
	return nil
}

func (p *renderPass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset uint64) error {
	p.IndexBuffer = buf
	return nil
}

func (p *renderPass) SetUniformBuffer(slot int, buf gpu.Buffer, offset, size uint64) error {
	if p.Uniforms == nil {
		p.Uniforms = make(map[int]gpu.Buffer)
	}
	p.Uniforms[slot] = buf
	return nil
}

func (p *renderPass) SetTexture(slot int, view gpu.TextureView, sampler gpu.SamplerDescriptor) error {
	if p.Textures == nil {
		p.Textures = make(map[int]gpu.TextureView)
	}
	p.Textures[slot] = view
	return nil
}

func (p *renderPass) SetScissorRect(rect gpu.Rect) error {
	p.Scissor = rect
	return nil
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex uint32) error {
	p.DrawCalls++
	return nil
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32) error {
	p.IndexedCalls++
	return nil
}

func (p *renderPass) End() error { return nil }
