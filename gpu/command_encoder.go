package gpu

import (
	"fmt"
	"sync"
)

// encoderStatus mirrors the WebGPU command-encoder state machine that every
// backend must expose identically (spec §4.1).
type encoderStatus int

const (
	encoderRecording encoderStatus = iota
	encoderLocked
	encoderFinished
	encoderConsumed
)

// BackendEncoder is implemented once per backend (gl, mtl, webgpu). It
// performs the actual recording; CommandEncoder wraps it with the uniform
// state machine and validation every backend shares.
type BackendEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) (BackendRenderPass, error)
	CopyTextureToTexture(src, dst *ImageCopyTexture, size Extent3D) error
	CopyTextureToBuffer(src *ImageCopyTexture, dst *ImageCopyBuffer, size Extent3D) error
	CopyBufferToTexture(src *ImageCopyBuffer, dst *ImageCopyTexture, size Extent3D) error
	CopyBufferToBuffer(src, dst Buffer, srcOffset, dstOffset, size uint64) error
	Finish() (any, error) // returns a backend-opaque command buffer handle
}

// CommandEncoder records GPU commands for later submission to a queue.
//
// State machine:
//
//	Recording -> BeginRenderPass -> Locked
//	Locked    -> (pass) End()    -> Recording
//	Recording -> Finish()        -> Finished
//
// The Consumed state is declared but never entered: submitting the
// CommandBuffer does not change the encoder's state.
//
// CommandEncoder is NOT safe for concurrent use; each encoder is driven
// from a single goroutine per the core's single-threaded cooperative model
// (spec §5).
type CommandEncoder struct {
	mu sync.Mutex

	backend Backend
	impl    BackendEncoder
	label   string
	status  encoderStatus

	activePass *RenderPass
}

// newCommandEncoder wires a backend-specific recorder into the uniform
// state machine. Concrete gpu.GPU implementations call this from
// NewCommandEncoder.
func newCommandEncoder(b Backend, impl BackendEncoder, label string) *CommandEncoder {
	return &CommandEncoder{backend: b, impl: impl, label: label, status: encoderRecording}
}

// WrapCommandEncoder is the constructor backend packages (gpu/backendgl,
// gpu/backendmtl, gpu/backendwebgpu) call from their GPU.NewCommandEncoder
// implementation to wrap a backend-native recorder in the shared state
// machine.
func WrapCommandEncoder(b Backend, impl BackendEncoder, label string) *CommandEncoder {
	return newCommandEncoder(b, impl, label)
}

// Label returns the encoder's debug label.
func (e *CommandEncoder) Label() string { return e.label }

func (e *CommandEncoder) checkRecordingLocked() error {
	switch e.status {
	case encoderRecording:
		return nil
	case encoderLocked:
		return ErrEncoderLocked
	case encoderFinished:
		return ErrEncoderFinished
	default:
		return ErrEncoderNotRecording
	}
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
}

// RenderPassColorAttachment describes one color attachment of a render pass.
type RenderPassColorAttachment struct {
	View          TextureView
	ResolveTarget TextureView
	LoadOp        LoadOp
	StoreOp       StoreOp
	ClearValue    Color
}

// RenderPassDepthStencilAttachment describes the depth/stencil attachment.
type RenderPassDepthStencilAttachment struct {
	View              TextureView
	DepthLoadOp       LoadOp
	DepthStoreOp      StoreOp
	DepthClearValue   float32
	DepthReadOnly     bool
	StencilLoadOp     LoadOp
	StencilStoreOp    StoreOp
	StencilClearValue uint32
	StencilReadOnly   bool
}

// ImageCopyBuffer describes a buffer endpoint of a texture copy command.
type ImageCopyBuffer struct {
	Buffer   Buffer
	Offset   uint64
	RowBytes uint32
}

// ImageCopyTexture describes a texture endpoint of a copy command.
type ImageCopyTexture struct {
	Texture  Texture
	MipLevel uint32
	Origin   Origin3D
}

// BeginRenderPass starts a render pass. The encoder must be in Recording
// state (invariant I3: at most one active pass per encoder).
func (e *CommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) (*RenderPass, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == encoderLocked {
		return nil, fmt.Errorf("begin render pass: %w", ErrPassAlreadyActive)
	}
	if err := e.checkRecordingLocked(); err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}
	if desc == nil {
		return nil, fmt.Errorf("begin render pass: %w: nil descriptor", ErrInvalidDescriptor)
	}

	impl, err := e.impl.BeginRenderPass(desc)
	if err != nil {
		return nil, fmt.Errorf("begin render pass: %w", err)
	}

	pass := &RenderPass{impl: impl, encoder: e}
	e.activePass = pass
	e.status = encoderLocked
	return pass, nil
}

// endRenderPass is called by RenderPass.End to return the encoder to Recording.
func (e *CommandEncoder) endRenderPass(pass *RenderPass) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activePass != pass {
		return fmt.Errorf("end render pass: pass is not the active pass on this encoder")
	}
	e.activePass = nil
	e.status = encoderRecording
	return nil
}

// CopyTextureToTexture schedules a data-transfer copy between textures.
func (e *CommandEncoder) CopyTextureToTexture(src, dst *ImageCopyTexture, size Extent3D) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("copy texture to texture: %w", err)
	}
	if src == nil || dst == nil {
		return fmt.Errorf("copy texture to texture: %w", ErrNilResource)
	}
	return e.impl.CopyTextureToTexture(src, dst, size)
}

// CopyTextureToBuffer schedules a texture-to-buffer readback copy.
func (e *CommandEncoder) CopyTextureToBuffer(src *ImageCopyTexture, dst *ImageCopyBuffer, size Extent3D) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("copy texture to buffer: %w", err)
	}
	if src == nil || dst == nil {
		return fmt.Errorf("copy texture to buffer: %w", ErrNilResource)
	}
	return e.impl.CopyTextureToBuffer(src, dst, size)
}

// CopyBufferToTexture schedules a buffer-to-texture upload copy.
func (e *CommandEncoder) CopyBufferToTexture(src *ImageCopyBuffer, dst *ImageCopyTexture, size Extent3D) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("copy buffer to texture: %w", err)
	}
	if src == nil || dst == nil {
		return fmt.Errorf("copy buffer to texture: %w", ErrNilResource)
	}
	return e.impl.CopyBufferToTexture(src, dst, size)
}

// CopyBufferToBuffer schedules a buffer-to-buffer copy.
func (e *CommandEncoder) CopyBufferToBuffer(src, dst Buffer, srcOffset, dstOffset, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkRecordingLocked(); err != nil {
		return fmt.Errorf("copy buffer to buffer: %w", err)
	}
	if src == nil || dst == nil {
		return fmt.Errorf("copy buffer to buffer: %w", ErrNilResource)
	}
	return e.impl.CopyBufferToBuffer(src, dst, srcOffset, dstOffset, size)
}

// Finish seals recorded commands into a CommandBuffer. The encoder must be
// in Recording state with no active pass.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRecordingLocked(); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}

	opaque, err := e.impl.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	e.status = encoderFinished
	return &CommandBuffer{Label: e.label, backend: e.backend, opaque: opaque}, nil
}
