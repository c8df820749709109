package ops

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
)

// rectsVertexWGSL and rectsFragmentWGSL are the shared shader pair every
// batched rect/rrect DrawOp compiles against, so the rect and rrect
// batches share a single compiled RenderPipeline. No corner radius reaches
// the shaders and the fragment stage does no corner rejection: rrects are
// drawn as plain rects with square corners.
const rectsVertexWGSL = `
struct VertexIn {
  @location(0) position: vec2<f32>,
  @location(1) color: vec4<f32>,
}
struct VertexOut {
  @builtin(position) clip_position: vec4<f32>,
  @location(0) color: vec4<f32>,
}
@vertex
fn vs_main(in: VertexIn) -> VertexOut {
  var out: VertexOut;
  out.clip_position = vec4<f32>(in.position, 0.0, 1.0);
  out.color = in.color;
  return out;
}
`

const rectsFragmentWGSL = `
@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
  return color;
}
`

// rectVertexStride is the byte stride of one packed vertex: a vec2
// position followed by a vec4 straight-alpha color.
const rectVertexStride = 6 * 4

func rectVertexBufferLayout() gpu.VertexBufferLayout {
	return gpu.VertexBufferLayout{
		ArrayStride: rectVertexStride,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
		},
	}
}

// blendStateFor maps a BlendMode to the fixed-function blend factors that
// realize it, matching the Porter-Duff algebra each mode names. Screen and
// Multiply have no fixed-function factor pair here and use the SrcOver
// factors.
func blendStateFor(mode BlendMode) *gpu.BlendState {
	component := func(src, dst gpu.BlendFactor) gpu.BlendComponent {
		return gpu.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gpu.BlendOpAdd}
	}
	switch mode {
	case BlendModeSrc:
		c := component(gpu.BlendFactorOne, gpu.BlendFactorZero)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeDst:
		c := component(gpu.BlendFactorZero, gpu.BlendFactorOne)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeSrcIn:
		c := component(gpu.BlendFactorDstAlpha, gpu.BlendFactorZero)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeDstIn:
		c := component(gpu.BlendFactorZero, gpu.BlendFactorSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeSrcOut:
		c := component(gpu.BlendFactorOneMinusDstAlpha, gpu.BlendFactorZero)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeDstOut:
		c := component(gpu.BlendFactorZero, gpu.BlendFactorOneMinusSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeSrcAtop:
		c := component(gpu.BlendFactorDstAlpha, gpu.BlendFactorOneMinusSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeDstAtop:
		c := component(gpu.BlendFactorOneMinusDstAlpha, gpu.BlendFactorSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeXor:
		c := component(gpu.BlendFactorOneMinusDstAlpha, gpu.BlendFactorOneMinusSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModePlus:
		c := component(gpu.BlendFactorOne, gpu.BlendFactorOne)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeModulate:
		c := component(gpu.BlendFactorDstColor, gpu.BlendFactorZero)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeDstOver:
		c := component(gpu.BlendFactorOneMinusDstAlpha, gpu.BlendFactorOne)
		return &gpu.BlendState{Color: c, Alpha: c}
	case BlendModeScreen, BlendModeMultiply, BlendModeSrcOver:
		fallthrough
	default:
		c := component(gpu.BlendFactorOne, gpu.BlendFactorOneMinusSrcAlpha)
		return &gpu.BlendState{Color: c, Alpha: c}
	}
}

// rectsPipelineDescriptor builds the descriptor the GlobalCache's pipeline
// LRU keys on; identical fill/target state always yields the same
// descriptor and therefore the same cache entry.
func rectsPipelineDescriptor(targetFormat gpu.PixelFormat, sampleCount uint32, fill Fill) gpu.RenderPipelineDescriptor {
	return gpu.RenderPipelineDescriptor{
		Label:         "tgfx_rects",
		Vertex:        gpu.ShaderModuleDescriptor{Label: "tgfx_rects_vs", Source: rectsVertexWGSL, EntryPoint: "vs_main"},
		Fragment:      gpu.ShaderModuleDescriptor{Label: "tgfx_rects_fs", Source: rectsFragmentWGSL, EntryPoint: "fs_main"},
		VertexBuffers: []gpu.VertexBufferLayout{rectVertexBufferLayout()},
		ColorTargets:  []gpu.ColorTargetState{{Format: targetFormat, Blend: blendStateFor(fill.BlendMode)}},
		Topology:      gpu.PrimitiveTriangleList,
		SampleCount:   sampleCount,
	}
}

// RectsDrawOp is the batched DrawOp a flushed rect/rrect pending group
// compiles into: one pipeline bind, one vertex/index buffer bind, and one
// indexed draw covering every rect in the batch (spec §4.5 flush building
// blocks 3-4).
type RectsDrawOp struct {
	Pipeline     *gpu.RenderPipeline
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	IndexCount   uint32
	Scissor      *gpu.Rect
}

func (op *RectsDrawOp) Execute(pass *gpu.RenderPass) error {
	if err := pass.SetPipeline(op.Pipeline); err != nil {
		return fmt.Errorf("rects draw op: %w", err)
	}
	if err := pass.SetVertexBuffer(0, op.VertexBuffer, 0); err != nil {
		return fmt.Errorf("rects draw op: %w", err)
	}
	if err := pass.SetIndexBuffer(op.IndexBuffer, gpu.IndexFormatUint16, 0); err != nil {
		return fmt.Errorf("rects draw op: %w", err)
	}
	if op.Scissor != nil {
		if err := pass.SetScissorRect(*op.Scissor); err != nil {
			return fmt.Errorf("rects draw op: %w", err)
		}
	}
	if err := pass.DrawIndexed(op.IndexCount, 1, 0, 0); err != nil {
		return fmt.Errorf("rects draw op: %w", err)
	}
	return nil
}

// buildNonAAQuadVertices packs one 4-vertex, axis-aligned quad per rect,
// each vertex carrying the rect's flat color; used when the batch's Fill
// has AntiAlias == false.
func buildNonAAQuadVertices(rects []RectRecord) []float32 {
	out := make([]float32, 0, len(rects)*globalcache.NonAAQuadVertexCount*6)
	for _, r := range rects {
		x0, y0 := float32(r.Rect.X), float32(r.Rect.Y)
		x1, y1 := float32(r.Rect.X+r.Rect.W), float32(r.Rect.Y+r.Rect.H)
		c := r.Color
		corners := [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
		for _, p := range corners {
			out = append(out, p[0], p[1], c.R, c.G, c.B, c.A)
		}
	}
	return out
}

// buildAAQuadVertices packs one 8-vertex quad per rect: four inner
// corners at full alpha and four corners outset by one pixel at zero
// alpha, producing a one-pixel coverage ramp consumed by the shared AA
// quad index pattern (spec §4.5; geometry matches
// globalcache.aaQuadIndexPattern's vertex numbering).
func buildAAQuadVertices(rects []RectRecord) []float32 {
	out := make([]float32, 0, len(rects)*globalcache.AAQuadVertexCount*6)
	for _, r := range rects {
		x0, y0 := float32(r.Rect.X), float32(r.Rect.Y)
		x1, y1 := float32(r.Rect.X+r.Rect.W), float32(r.Rect.Y+r.Rect.H)
		c := r.Color
		zero := gpu.Color{}
		inner := [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
		outer := [4][2]float32{{x0 - 1, y0 - 1}, {x1 + 1, y0 - 1}, {x0 - 1, y1 + 1}, {x1 + 1, y1 + 1}}
		for _, p := range inner {
			out = append(out, p[0], p[1], c.R, c.G, c.B, c.A)
		}
		for _, p := range outer {
			out = append(out, p[0], p[1], zero.R, zero.G, zero.B, zero.A)
		}
	}
	return out
}
