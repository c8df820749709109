package backendgl

import (
	"fmt"
	"log/slog"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/gpu/backendwebgpu"
)

// Backend implements gpu.GPU for OpenGL ES, delegating everything but
// pipeline compilation to an embedded backendwebgpu.Backend.
type Backend struct {
	*backendwebgpu.Backend
}

// New wraps provider in a GL-tagged backend.
func New(provider gpu.DeviceProvider, logger *slog.Logger) (*Backend, error) {
	base, err := backendwebgpu.New(provider, logger)
	if err != nil {
		return nil, fmt.Errorf("backendgl: %w", err)
	}
	return &Backend{Backend: base}, nil
}

func (b *Backend) Backend() gpu.Backend { return gpu.BackendGL }

// CreateRenderPipeline cross-compiles desc's WGSL source to SPIR-V before
// delegating to the embedded backend's resource creation, since GL drivers
// under wgpu-native do not consume WGSL text directly.
func (b *Backend) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	vsWords, err := gpu.CompileToSPIRV(desc.Vertex)
	if err != nil {
		return nil, fmt.Errorf("backendgl: %w", err)
	}
	fsWords, err := gpu.CompileToSPIRV(desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("backendgl: %w", err)
	}
	return b.Backend.CreateRenderPipelineFromSPIRV(gpu.BackendGL, desc, vsWords, fsWords)
}

func (b *Backend) NewCommandEncoder(label string) (*gpu.CommandEncoder, error) {
	enc, err := b.Backend.NewCommandEncoderTagged(gpu.BackendGL, label)
	if err != nil {
		return nil, fmt.Errorf("backendgl: %w", err)
	}
	return enc, nil
}
