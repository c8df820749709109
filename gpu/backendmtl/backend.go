package backendmtl

import (
	"fmt"
	"log/slog"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/gpu/backendwebgpu"
)

// Backend implements gpu.GPU for Metal, delegating everything but pipeline
// compilation to an embedded backendwebgpu.Backend.
type Backend struct {
	*backendwebgpu.Backend
}

// New wraps provider in a Metal-tagged backend.
func New(provider gpu.DeviceProvider, logger *slog.Logger) (*Backend, error) {
	base, err := backendwebgpu.New(provider, logger)
	if err != nil {
		return nil, fmt.Errorf("backendmtl: %w", err)
	}
	return &Backend{Backend: base}, nil
}

func (b *Backend) Backend() gpu.Backend { return gpu.BackendMetal }

// CreateRenderPipeline cross-compiles desc's WGSL source to SPIR-V before
// delegating to the embedded backend's resource creation.
func (b *Backend) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	vsWords, err := gpu.CompileToSPIRV(desc.Vertex)
	if err != nil {
		return nil, fmt.Errorf("backendmtl: %w", err)
	}
	fsWords, err := gpu.CompileToSPIRV(desc.Fragment)
	if err != nil {
		return nil, fmt.Errorf("backendmtl: %w", err)
	}
	return b.Backend.CreateRenderPipelineFromSPIRV(gpu.BackendMetal, desc, vsWords, fsWords)
}

func (b *Backend) NewCommandEncoder(label string) (*gpu.CommandEncoder, error) {
	enc, err := b.Backend.NewCommandEncoderTagged(gpu.BackendMetal, label)
	if err != nil {
		return nil, fmt.Errorf("backendmtl: %w", err)
	}
	return enc, nil
}
