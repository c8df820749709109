package backendwebgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// Backend implements gpu.GPU over a host-provided wgpu device (spec §4.1).
// It never requests its own adapter or device: DeviceProvider hands it
// already-created handles, matching spec §1's "platform device creation"
// Non-goal.
type Backend struct {
	adapterID core.AdapterID
	deviceID  core.DeviceID
	queueID   core.QueueID

	caps   gpu.ShaderCaps
	limits gpu.Limits
	queue  *Queue
	logger *slog.Logger
}

// New wraps the device/queue handles from provider in a gpu.GPU
// implementation. adapterID, used only for limit reporting and
// diagnostics, is read from provider.Device().
func New(provider gpu.DeviceProvider, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dev := provider.Device()
	q := provider.Queue()
	if dev == nil || q == nil {
		return nil, fmt.Errorf("backendwebgpu: %w: nil device or queue handle", gpu.ErrInvalidDescriptor)
	}

	deviceID, ok := dev.Raw().(core.DeviceID)
	if !ok {
		return nil, fmt.Errorf("backendwebgpu: %w: device handle is not a wgpu core.DeviceID", gpu.ErrInvalidDescriptor)
	}
	queueID, ok := q.Raw().(core.QueueID)
	if !ok {
		return nil, fmt.Errorf("backendwebgpu: %w: queue handle is not a wgpu core.QueueID", gpu.ErrInvalidDescriptor)
	}

	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: get device limits: %w", err)
	}

	b := &Backend{
		deviceID: deviceID,
		queueID:  queueID,
		caps: gpu.ShaderCaps{
			// WebGPU consumes WGSL directly; no version decl or precision
			// modifiers are templated in.
			MaxFragmentSamplers: 16,
			MaxUBOSize:          int(limits.MaxBufferSize),
			UBOOffsetAlignment:  int(limits.MinUniformBufferOffsetAlignment),
		},
		limits: gpu.Limits{
			MaxTextureSize:      limits.MaxTextureDimension2D,
			MaxSampleCount:      4,
			MaxFragmentSamplers: 16,
			MaxUBOSize:          int(limits.MaxBufferSize),
			UBOOffsetAlignment:  int(limits.MinUniformBufferOffsetAlignment),
		},
		logger: logger,
	}
	b.queue = &Queue{deviceID: deviceID, queueID: queueID}
	if adapterID, ok := dev.Adapter().(core.AdapterID); ok {
		b.adapterID = adapterID
		if info, err := core.GetAdapterInfo(adapterID); err == nil {
			logger.Info("backendwebgpu: device ready", "adapter", info.Name, "backend", info.Backend)
		}
	}
	return b, nil
}

func (b *Backend) Backend() gpu.Backend  { return gpu.BackendWebGPU }
func (b *Backend) Caps() *gpu.ShaderCaps { return &b.caps }
func (b *Backend) Limits() gpu.Limits    { return b.limits }
func (b *Backend) Queue() gpu.CommandQueue {
	return b.queue
}

// CreateTexture allocates a texture via core.CreateTexture. YUV multi-plane
// descriptors are rejected: wgpu-native has no multi-plane texture object,
// so I420/NV12 textures are allocated by the caller as separate single-plane
// textures (one per plane) instead.
func (b *Backend) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("backendwebgpu: create texture: %w", gpu.ErrInvalidDescriptor)
	}
	if desc.YUVFormat != gpu.YUVFormatUnknown {
		return nil, fmt.Errorf("backendwebgpu: create texture: %w: multi-plane textures are allocated per-plane by the caller", gpu.ErrUnsupported)
	}

	td := &types.TextureDescriptor{
		Label:         desc.Label,
		Size:          types.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		Format:        toWGPUFormat(desc.Format),
		MipLevelCount: max1(desc.MipLevelCount),
		SampleCount:   max1(desc.SampleCount),
		Usage:         toWGPUTextureUsage(desc.Usage),
	}
	texID, err := core.CreateTexture(b.deviceID, td)
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: create texture: %w", err)
	}
	return &Texture{deviceID: b.deviceID, id: texID, desc: desc}, nil
}

func (b *Backend) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("backendwebgpu: create buffer: %w", gpu.ErrInvalidDescriptor)
	}
	bufID, err := core.CreateBuffer(b.deviceID, &types.BufferDescriptor{
		Size:  size,
		Usage: toWGPUBufferUsage(usage),
	})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: create buffer: %w", err)
	}
	return &Buffer{id: bufID, size: size, usage: usage}, nil
}

// CreateRenderPipeline compiles desc's WGSL source directly: WebGPU is the
// one backend in this fan-out that needs no naga cross-compilation step.
func (b *Backend) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	vsMod, err := core.CreateShaderModule(b.deviceID, &types.ShaderModuleDescriptor{Label: desc.Vertex.Label, Code: desc.Vertex.Source})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: compile vertex shader %q: %w", desc.Vertex.Label, err)
	}
	fsMod, err := core.CreateShaderModule(b.deviceID, &types.ShaderModuleDescriptor{Label: desc.Fragment.Label, Code: desc.Fragment.Source})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: compile fragment shader %q: %w", desc.Fragment.Label, err)
	}

	pipelineID, err := core.CreateRenderPipeline(b.deviceID, toWGPURenderPipelineDescriptor(desc, vsMod, fsMod))
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: create render pipeline: %w", err)
	}
	return gpu.NewRenderPipeline(gpu.BackendWebGPU, pipelineID, desc), nil
}

// CreateRenderPipelineFromSPIRV compiles a pipeline from pre-cross-compiled
// SPIR-V words instead of WGSL source. gpu/backendgl and gpu/backendmtl call
// this after running desc's shaders through gpu.CompileToSPIRV, so the three
// backends share one device/queue/pipeline engine instead of each
// reimplementing wgpu-core resource management.
func (b *Backend) CreateRenderPipelineFromSPIRV(tag gpu.Backend, desc gpu.RenderPipelineDescriptor, vsWords, fsWords []uint32) (*gpu.RenderPipeline, error) {
	vsMod, err := core.CreateShaderModuleSPIRV(b.deviceID, &types.ShaderModuleSPIRVDescriptor{Label: desc.Vertex.Label, Code: vsWords})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: compile spirv vertex shader %q: %w", desc.Vertex.Label, err)
	}
	fsMod, err := core.CreateShaderModuleSPIRV(b.deviceID, &types.ShaderModuleSPIRVDescriptor{Label: desc.Fragment.Label, Code: fsWords})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: compile spirv fragment shader %q: %w", desc.Fragment.Label, err)
	}
	pipelineID, err := core.CreateRenderPipeline(b.deviceID, toWGPURenderPipelineDescriptor(desc, vsMod, fsMod))
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: create render pipeline: %w", err)
	}
	return gpu.NewRenderPipeline(tag, pipelineID, desc), nil
}

// Device exposes the underlying device ID for backendgl/backendmtl, which
// reuse this Backend's device/queue rather than requesting their own.
func (b *Backend) Device() core.DeviceID { return b.deviceID }

func (b *Backend) ImportExternalTexture(handle any, adopted bool) (gpu.Texture, error) {
	texID, ok := handle.(core.TextureID)
	if !ok {
		return nil, fmt.Errorf("backendwebgpu: import external texture: %w", gpu.ErrInvalidDescriptor)
	}
	return &Texture{deviceID: b.deviceID, id: texID, externallyOwned: !adopted}, nil
}

func (b *Backend) NewCommandEncoder(label string) (*gpu.CommandEncoder, error) {
	return b.NewCommandEncoderTagged(gpu.BackendWebGPU, label)
}

// NewCommandEncoderTagged creates an encoder carrying tag as its reported
// backend, used by gpu/backendgl and gpu/backendmtl so command buffers they
// produce identify as their own backend rather than the shared WebGPU
// engine underneath.
func (b *Backend) NewCommandEncoderTagged(tag gpu.Backend, label string) (*gpu.CommandEncoder, error) {
	encID, err := core.CreateCommandEncoder(b.deviceID, &types.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: new command encoder: %w", err)
	}
	return gpu.WrapCommandEncoder(tag, &encoder{id: encID, label: label}, label), nil
}

// Close releases the device and adapter. Per spec §7 "Device lost": once
// closed, further calls through this Backend are undefined; the owning
// Context must stop using it.
func (b *Backend) Close() error {
	if err := core.DeviceDrop(b.deviceID); err != nil {
		return fmt.Errorf("backendwebgpu: close: %w", err)
	}
	if !b.adapterID.IsZero() {
		if err := core.AdapterDrop(b.adapterID); err != nil {
			return fmt.Errorf("backendwebgpu: close: %w", err)
		}
	}
	return nil
}

func max1(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	return n
}
