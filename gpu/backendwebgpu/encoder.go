package backendwebgpu

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// encoder implements gpu.BackendEncoder against a real wgpu command encoder.
type encoder struct {
	id    core.CommandEncoderID
	label string
}

func (e *encoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) (gpu.BackendRenderPass, error) {
	rpID, err := core.BeginRenderPass(e.id, toWGPURenderPassDescriptor(desc))
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: begin render pass: %w", err)
	}
	return &renderPass{id: rpID}, nil
}

func (e *encoder) CopyTextureToTexture(src, dst *gpu.ImageCopyTexture, size gpu.Extent3D) error {
	s, ok := src.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy texture to texture: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy texture to texture: %w", gpu.ErrNilResource)
	}
	if err := core.CopyTextureToTexture(e.id,
		&types.ImageCopyTexture{Texture: s.id, Origin: toWGPUOrigin(src.Origin)},
		&types.ImageCopyTexture{Texture: d.id, Origin: toWGPUOrigin(dst.Origin)},
		toWGPUExtent(size),
	); err != nil {
		return fmt.Errorf("backendwebgpu: copy texture to texture: %w", err)
	}
	return nil
}

func (e *encoder) CopyTextureToBuffer(src *gpu.ImageCopyTexture, dst *gpu.ImageCopyBuffer, size gpu.Extent3D) error {
	s, ok := src.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy texture to buffer: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy texture to buffer: %w", gpu.ErrNilResource)
	}
	if err := core.CopyTextureToBuffer(e.id,
		&types.ImageCopyTexture{Texture: s.id, Origin: toWGPUOrigin(src.Origin)},
		&types.ImageCopyBuffer{Buffer: d.id, Offset: dst.Offset, BytesPerRow: dst.RowBytes},
		toWGPUExtent(size),
	); err != nil {
		return fmt.Errorf("backendwebgpu: copy texture to buffer: %w", err)
	}
	return nil
}

func (e *encoder) CopyBufferToTexture(src *gpu.ImageCopyBuffer, dst *gpu.ImageCopyTexture, size gpu.Extent3D) error {
	s, ok := src.Buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy buffer to texture: %w", gpu.ErrNilResource)
	}
	d, ok := dst.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy buffer to texture: %w", gpu.ErrNilResource)
	}
	if err := core.CopyBufferToTexture(e.id,
		&types.ImageCopyBuffer{Buffer: s.id, Offset: src.Offset, BytesPerRow: src.RowBytes},
		&types.ImageCopyTexture{Texture: d.id, Origin: toWGPUOrigin(dst.Origin)},
		toWGPUExtent(size),
	); err != nil {
		return fmt.Errorf("backendwebgpu: copy buffer to texture: %w", err)
	}
	return nil
}

func (e *encoder) CopyBufferToBuffer(src, dst gpu.Buffer, srcOffset, dstOffset, size uint64) error {
	s, ok := src.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy buffer to buffer: %w", gpu.ErrNilResource)
	}
	d, ok := dst.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: copy buffer to buffer: %w", gpu.ErrNilResource)
	}
	if err := core.CopyBufferToBuffer(e.id, s.id, srcOffset, d.id, dstOffset, size); err != nil {
		return fmt.Errorf("backendwebgpu: copy buffer to buffer: %w", err)
	}
	return nil
}

func (e *encoder) Finish() (any, error) {
	cmdID, err := core.FinishCommandEncoder(e.id, &types.CommandBufferDescriptor{Label: e.label})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: finish: %w", err)
	}
	return cmdID, nil
}

// renderPass implements gpu.BackendRenderPass against a real wgpu render
// pass recording.
type renderPass struct {
	id core.RenderPassID
}

func (p *renderPass) SetPipeline(pl *gpu.RenderPipeline) error {
	pipelineID, ok := pl.Opaque().(core.RenderPipelineID)
	if !ok {
		return fmt.Errorf("backendwebgpu: set pipeline: %w", gpu.ErrInvalidDescriptor)
	}
	if err := core.RenderPassSetPipeline(p.id, pipelineID); err != nil {
		return fmt.Errorf("backendwebgpu: set pipeline: %w", err)
	}
	return nil
}

func (p *renderPass) SetVertexBuffer(slot int, buf gpu.Buffer, offset uint64) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: set vertex buffer: %w", gpu.ErrNilResource)
	}
	if err := core.RenderPassSetVertexBuffer(p.id, uint32(slot), b.id, offset, b.size-offset); err != nil {
		return fmt.Errorf("backendwebgpu: set vertex buffer: %w", err)
	}
	return nil
}

func (p *renderPass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset uint64) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: set index buffer: %w", gpu.ErrNilResource)
	}
	if err := core.RenderPassSetIndexBuffer(p.id, b.id, toWGPUIndexFormat(format), offset, b.size-offset); err != nil {
		return fmt.Errorf("backendwebgpu: set index buffer: %w", err)
	}
	return nil
}

func (p *renderPass) SetUniformBuffer(slot int, buf gpu.Buffer, offset, size uint64) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: set uniform buffer: %w", gpu.ErrNilResource)
	}
	if err := core.RenderPassSetBindGroupBuffer(p.id, uint32(slot), b.id, offset, size); err != nil {
		return fmt.Errorf("backendwebgpu: set uniform buffer: %w", err)
	}
	return nil
}

func (p *renderPass) SetTexture(slot int, view gpu.TextureView, sampler gpu.SamplerDescriptor) error {
	v, ok := view.(*TextureView)
	if !ok {
		return fmt.Errorf("backendwebgpu: set texture: %w", gpu.ErrNilResource)
	}
	if err := core.RenderPassSetBindGroupTexture(p.id, uint32(slot), v.id); err != nil {
		return fmt.Errorf("backendwebgpu: set texture: %w", err)
	}
	return nil
}

func (p *renderPass) SetScissorRect(rect gpu.Rect) error {
	if err := core.RenderPassSetScissorRect(p.id, uint32(rect.X), uint32(rect.Y), uint32(rect.W), uint32(rect.H)); err != nil {
		return fmt.Errorf("backendwebgpu: set scissor rect: %w", err)
	}
	return nil
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex uint32) error {
	if err := core.RenderPassDraw(p.id, vertexCount, instanceCount, firstVertex, 0); err != nil {
		return fmt.Errorf("backendwebgpu: draw: %w", err)
	}
	return nil
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32) error {
	if err := core.RenderPassDrawIndexed(p.id, indexCount, instanceCount, firstIndex, baseVertex, 0); err != nil {
		return fmt.Errorf("backendwebgpu: draw indexed: %w", err)
	}
	return nil
}

func (p *renderPass) End() error {
	if err := core.EndRenderPass(p.id); err != nil {
		return fmt.Errorf("backendwebgpu: end render pass: %w", err)
	}
	return nil
}
