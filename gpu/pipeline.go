package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// VertexFormat enumerates the vertex attribute element layouts the core emits.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint8x4
	VertexFormatUnorm8x4
)

// SizeBytes returns the byte width of one element in this format.
func (f VertexFormat) SizeBytes() uint32 {
	switch f {
	case VertexFormatFloat32:
		return 4
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x4:
		return 16
	case VertexFormatUint8x4, VertexFormatUnorm8x4:
		return 4
	default:
		return 0
	}
}

// VertexAttribute describes one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint32
	ShaderLocation uint32
}

// VertexBufferLayout describes the stride and attributes of one bound
// vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint32
	Attributes  []VertexAttribute
}

// BlendComponent describes one channel (color or alpha) of a blend state.
type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Operation BlendOperation
}

// BlendFactor enumerates source/destination blend multipliers.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
)

// BlendOperation enumerates the arithmetic combining src and dst terms.
type BlendOperation int

const (
	BlendOpAdd BlendOperation = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// BlendState configures Porter-Duff style compositing for one color target.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// ColorTargetState describes one color attachment's format and blending.
type ColorTargetState struct {
	Format    PixelFormat
	Blend     *BlendState
	WriteMask uint32
}

// ShaderModuleDescriptor carries WGSL shader source. Backends that do not
// consume WGSL natively (GL, Metal) cross-compile it through naga at
// pipeline-creation time; WebGPU consumes it directly.
type ShaderModuleDescriptor struct {
	Label      string
	Source     string
	EntryPoint string
}

// RenderPipelineDescriptor fully specifies a render pipeline's fixed-function
// and programmable state.
type RenderPipelineDescriptor struct {
	Label         string
	Vertex        ShaderModuleDescriptor
	Fragment      ShaderModuleDescriptor
	VertexBuffers []VertexBufferLayout
	ColorTargets  []ColorTargetState
	Topology      PrimitiveTopology
	SampleCount   uint32
}

// RenderPipeline is a compiled, immutable pipeline object. RenderPipeline
// values are safe to bind concurrently across render passes once compiled;
// the GlobalCache is the sole owner responsible for eviction (spec §4.2).
type RenderPipeline struct {
	Label       string
	backend     Backend
	opaque      any // backend-native pipeline handle
	descriptor  RenderPipelineDescriptor
}

// Backend returns the backend this pipeline was compiled for.
func (p *RenderPipeline) Backend() Backend { return p.backend }

// Descriptor returns the descriptor the pipeline was compiled from, so a
// cache can recompute its key without retaining the original caller's copy.
func (p *RenderPipeline) Descriptor() RenderPipelineDescriptor { return p.descriptor }

// NewRenderPipeline is called by backend implementations once a pipeline has
// been compiled and linked, wrapping the backend-native handle uniformly.
func NewRenderPipeline(backend Backend, opaque any, desc RenderPipelineDescriptor) *RenderPipeline {
	return &RenderPipeline{Label: desc.Label, backend: backend, opaque: opaque, descriptor: desc}
}

// Opaque exposes the backend-native handle to the backend package that
// created this pipeline. Other callers must treat it as opaque.
func (p *RenderPipeline) Opaque() any { return p.opaque }

// CompileToSPIRV cross-compiles WGSL source to SPIR-V via naga, for backends
// (GL, Metal) that cannot consume WGSL directly. Shader templating is keyed
// off ShaderCaps rather than the Backend tag so the same WGSL source serves
// every backend (spec §9). Called by gpu/backendgl and gpu/backendmtl from
// their CreateRenderPipeline implementations.
func CompileToSPIRV(src ShaderModuleDescriptor) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src.Source)
	if err != nil {
		return nil, fmt.Errorf("compile shader %q: %w", src.Label, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader %q: %w: spirv byte length %d not word-aligned", src.Label, ErrAllocationFailed, len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
