package gpu

import "errors"

// Sentinel errors for the GPU abstraction layer. Callers should compare
// with errors.Is; the core never panics out of these conditions (spec §7).
var (
	// ErrDeviceLost indicates the backend device is no longer usable; all
	// subsequent operations on the owning Context become no-ops.
	ErrDeviceLost = errors.New("gpu: device lost")

	// ErrNotInitialized is returned when an operation is attempted on a
	// backend that has not completed Init.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrUnsupported is returned when a format/sample-count/usage
	// combination is not renderable on this backend.
	ErrUnsupported = errors.New("gpu: unsupported format or combination")

	// ErrAllocationFailed is returned when a GPU object allocation fails
	// for reasons other than an unsupported combination (e.g. driver OOM).
	ErrAllocationFailed = errors.New("gpu: allocation failed")

	// ErrEncoderNotRecording is returned when recording operations are
	// called on an encoder that is not in the Recording state.
	ErrEncoderNotRecording = errors.New("gpu: encoder not in recording state")

	// ErrEncoderLocked is returned when operations are called on an
	// encoder that has an active render or compute pass.
	ErrEncoderLocked = errors.New("gpu: encoder is locked (pass in progress)")

	// ErrEncoderFinished is returned when operations are called on an
	// encoder that has already been finished.
	ErrEncoderFinished = errors.New("gpu: encoder already finished")

	// ErrPassAlreadyActive is returned by BeginRenderPass when a render
	// pass is already active on the encoder (invariant I3).
	ErrPassAlreadyActive = errors.New("gpu: a render pass is already active on this encoder")

	// ErrPassEnded is returned when operations are called on a pass that
	// has already ended.
	ErrPassEnded = errors.New("gpu: render pass has already ended")

	// ErrBufferMapped is returned when a mapped buffer is bound into a
	// render pass without first being unmapped (invariant I4).
	ErrBufferMapped = errors.New("gpu: buffer is mapped and cannot be bound")

	// ErrMisalignedUniformOffset is returned by SetUniformBuffer when the
	// offset is not a multiple of the backend's UBO offset alignment.
	ErrMisalignedUniformOffset = errors.New("gpu: uniform buffer offset is misaligned")

	// ErrInvalidDescriptor is returned when a descriptor fails validation
	// (e.g. zero dimensions, out-of-range enum values).
	ErrInvalidDescriptor = errors.New("gpu: invalid descriptor")

	// ErrNilResource is returned when a required resource argument is nil.
	ErrNilResource = errors.New("gpu: required resource is nil")

	// ErrCopyOutOfBounds is returned when a copy command's range exceeds
	// the bounds of its source or destination.
	ErrCopyOutOfBounds = errors.New("gpu: copy range out of bounds")
)
