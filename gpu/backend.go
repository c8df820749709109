package gpu

import "context"

// Backend tags the concrete GPU API a GPU implementation fans out to. Each
// backend is a closed set living in its own package
// (gpu/backendgl, gpu/backendmtl, gpu/backendwebgpu); the core never uses
// runtime inheritance to model them (spec §9).
type Backend int

const (
	BackendGL Backend = iota
	BackendMetal
	BackendWebGPU
)

// String returns the human-readable backend name.
func (b Backend) String() string {
	switch b {
	case BackendGL:
		return "GL"
	case BackendMetal:
		return "Metal"
	case BackendWebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// GPU is the per-device capability and factory surface. Exactly one GPU
// implementation backs a Context for its lifetime.
type GPU interface {
	// Backend returns the tagged backend this GPU implements.
	Backend() Backend

	// Caps returns the read-only shader capability surface for this backend.
	Caps() *ShaderCaps

	// Limits returns backend-reported resource limits.
	Limits() Limits

	// CreateTexture allocates a texture per desc. Returns ErrUnsupported if
	// the format/sample-count/usage combination cannot be rendered on this
	// backend, or ErrDeviceLost if the device has been lost.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateBuffer allocates a buffer of size bytes for the given usage.
	CreateBuffer(size uint64, usage BufferUsage) (Buffer, error)

	// CreateRenderPipeline compiles shaders and fixed-function state into a
	// reusable pipeline. Returns ErrUnsupported if the descriptor cannot be
	// satisfied on this backend.
	CreateRenderPipeline(desc RenderPipelineDescriptor) (*RenderPipeline, error)

	// ImportExternalTexture wraps a backend-native texture handle obtained
	// from the host application. If adopted, the GPU takes ownership of
	// destruction; otherwise the host remains responsible for it.
	ImportExternalTexture(handle any, adopted bool) (Texture, error)

	// Queue returns the primary command queue for this device.
	Queue() CommandQueue

	// NewCommandEncoder creates a new command encoder in the Recording state.
	NewCommandEncoder(label string) (*CommandEncoder, error)
}

// Limits reports backend-specific resource ceilings consulted by the
// resource cache and ops compositor when sizing allocations.
type Limits struct {
	MaxTextureSize      uint32
	MaxSampleCount      uint32
	MaxFragmentSamplers int
	MaxUBOSize          int
	UBOOffsetAlignment  int
}

// TextureDescriptor describes a texture allocation request.
type TextureDescriptor struct {
	Label         string
	Width         uint32
	Height        uint32
	Format        PixelFormat
	MipLevelCount uint32
	SampleCount   uint32
	Usage         TextureUsage

	// YUVFormat is non-zero when this descriptor allocates a multi-plane
	// texture; Format is then ignored in favor of per-plane 8-bit formats.
	YUVFormat YUVFormat
}

// Texture is a 2D sampled/renderable pixel resource.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() PixelFormat
	MipLevelCount() uint32
	SampleCount() uint32
	Usage() TextureUsage

	// CreateView returns a sampling wrapper over this texture (or one plane
	// of it for multi-plane YUV textures).
	CreateView() TextureView

	// ByteSize returns the resident byte cost used by the resource cache's
	// memory budget accounting.
	ByteSize() uint64

	// Destroy releases the backend object. Safe to call more than once.
	Destroy()
}

// TextureView is a sampling wrapper over one or more texture planes.
type TextureView interface {
	Origin() Origin
	Width() uint32
	Height() uint32
	// PlaneCount is 1 for ordinary textures, 2 for NV12, 3 for I420.
	PlaneCount() int
	Destroy()
}

// Buffer is a typed GPU memory region.
type Buffer interface {
	Size() uint64
	Usage() BufferUsage

	// MappedRange returns the current CPU-visible mapping, or nil if the
	// buffer is not mapped. Per invariant I4, a mapped buffer must be
	// unmapped via Unmap before being bound into a render pass.
	MappedRange() []byte
	IsMapped() bool
	Unmap()

	Destroy()
}

// RenderTarget is a color (and optional depth/stencil) attachment set.
type RenderTarget struct {
	Color          TextureView
	DepthStencil   TextureView
	SampleCount    uint32
	Origin         Origin
	ExternallyOwned bool
}

// Semaphore is a cross-submission wait primitive sequencing this context's
// submissions against another client of the same underlying GPU.
type Semaphore interface {
	// Wait blocks the calling goroutine until the semaphore signals, or
	// until ctx is done.
	Wait(ctx context.Context) error
}

// CommandBuffer is a finished, submittable command recording.
type CommandBuffer struct {
	Label   string
	backend Backend
	opaque  any // backend-specific handle, opaque to callers
}

// Backend returns the backend this command buffer was recorded against.
func (c *CommandBuffer) Backend() Backend { return c.backend }

// Opaque exposes the backend-native handle (e.g. a wgpu core.CommandBufferID)
// to the backend package's own CommandQueue.Submit implementation. Other
// callers must treat it as opaque.
func (c *CommandBuffer) Opaque() any { return c.opaque }

// CommandQueue sequences command buffer submission and direct CPU<->GPU
// transfers outside of a render pass.
type CommandQueue interface {
	// Submit enqueues buf for GPU execution. Submission order is preserved.
	Submit(buf *CommandBuffer) error

	// WriteBuffer uploads data into buffer at offset, outside any render pass.
	WriteBuffer(buffer Buffer, offset uint64, data []byte) error

	// WriteTexture uploads pixels into the rectangle of texture described
	// by rect, with rowBytes stride.
	WriteTexture(texture Texture, rect Rect, pixels []byte, rowBytes uint32) error

	// InsertSemaphore returns a semaphore that signals once every command
	// submitted before this call has completed.
	InsertSemaphore() (Semaphore, error)

	// WaitSemaphore forces subsequently submitted commands to wait on sem.
	WaitSemaphore(sem Semaphore) error

	// WaitUntilCompleted blocks until all prior submissions complete.
	WaitUntilCompleted() error
}

// Rect is an integer pixel-space rectangle used by copy and scissor commands.
type Rect struct {
	X, Y, W, H int32
}

// IsEmpty reports whether the rectangle covers zero area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }
