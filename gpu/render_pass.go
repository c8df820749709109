package gpu

import (
	"fmt"
	"sync"
)

// BackendRenderPass is implemented once per backend; RenderPass wraps it
// with the validation and state tracking every backend shares.
type BackendRenderPass interface {
	SetPipeline(p *RenderPipeline) error
	SetVertexBuffer(slot int, buf Buffer, offset uint64) error
	SetIndexBuffer(buf Buffer, format IndexFormat, offset uint64) error
	SetUniformBuffer(slot int, buf Buffer, offset uint64, size uint64) error
	SetTexture(slot int, view TextureView, sampler SamplerDescriptor) error
	SetScissorRect(rect Rect) error
	Draw(vertexCount, instanceCount, firstVertex uint32) error
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32) error
	End() error
}

// passStatus tracks whether a RenderPass may still receive commands.
type passStatus int

const (
	passActive passStatus = iota
	passEnded
)

// RenderPass records draw commands against a fixed set of attachments
// within the scope of a locked CommandEncoder (spec §4.1).
//
// RenderPass is NOT safe for concurrent use.
type RenderPass struct {
	mu      sync.Mutex
	impl    BackendRenderPass
	encoder *CommandEncoder
	status  passStatus
}

func (p *RenderPass) checkActiveLocked() error {
	if p.status == passEnded {
		return ErrPassEnded
	}
	return nil
}

// SetPipeline binds the render pipeline used by subsequent draw calls.
func (p *RenderPass) SetPipeline(pipeline *RenderPipeline) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set pipeline: %w", err)
	}
	if pipeline == nil {
		return fmt.Errorf("set pipeline: %w", ErrNilResource)
	}
	return p.impl.SetPipeline(pipeline)
}

// SetVertexBuffer binds buf at the given vertex input slot.
func (p *RenderPass) SetVertexBuffer(slot int, buf Buffer, offset uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set vertex buffer: %w", err)
	}
	if buf == nil {
		return fmt.Errorf("set vertex buffer: %w", ErrNilResource)
	}
	if buf.IsMapped() {
		return fmt.Errorf("set vertex buffer: %w", ErrBufferMapped)
	}
	return p.impl.SetVertexBuffer(slot, buf, offset)
}

// SetIndexBuffer binds buf as the index source for subsequent DrawIndexed calls.
func (p *RenderPass) SetIndexBuffer(buf Buffer, format IndexFormat, offset uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set index buffer: %w", err)
	}
	if buf == nil {
		return fmt.Errorf("set index buffer: %w", ErrNilResource)
	}
	if buf.IsMapped() {
		return fmt.Errorf("set index buffer: %w", ErrBufferMapped)
	}
	return p.impl.SetIndexBuffer(buf, format, offset)
}

// SetUniformBuffer binds a range of buf at the given uniform slot. offset
// must be a multiple of the backend's UBO offset alignment.
func (p *RenderPass) SetUniformBuffer(slot int, buf Buffer, offset, size uint64, alignment int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set uniform buffer: %w", err)
	}
	if buf == nil {
		return fmt.Errorf("set uniform buffer: %w", ErrNilResource)
	}
	if alignment > 0 && offset%uint64(alignment) != 0 {
		return fmt.Errorf("set uniform buffer: %w", ErrMisalignedUniformOffset)
	}
	return p.impl.SetUniformBuffer(slot, buf, offset, size)
}

// SetTexture binds view and sampler at the given fragment sampler slot.
func (p *RenderPass) SetTexture(slot int, view TextureView, sampler SamplerDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set texture: %w", err)
	}
	if view == nil {
		return fmt.Errorf("set texture: %w", ErrNilResource)
	}
	return p.impl.SetTexture(slot, view, sampler)
}

// SetScissorRect restricts subsequent draws to rect, in render-target pixel space.
func (p *RenderPass) SetScissorRect(rect Rect) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("set scissor rect: %w", err)
	}
	return p.impl.SetScissorRect(rect)
}

// Draw issues a non-indexed draw call.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return p.impl.Draw(vertexCount, instanceCount, firstVertex)
}

// DrawIndexed issues an indexed draw call.
func (p *RenderPass) DrawIndexed(indexCount, instanceCount uint32, firstIndex uint32, baseVertex int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkActiveLocked(); err != nil {
		return fmt.Errorf("draw indexed: %w", err)
	}
	return p.impl.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex)
}

// End closes the pass and unlocks its owning encoder for further recording.
func (p *RenderPass) End() error {
	p.mu.Lock()
	if err := p.checkActiveLocked(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("end: %w", err)
	}
	if err := p.impl.End(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("end: %w", err)
	}
	p.status = passEnded
	encoder := p.encoder
	p.mu.Unlock()

	return encoder.endRenderPass(p)
}
