package backendwebgpu

import (
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/tgfx-gpu/tgfx/gpu"
)

func toWGPUFormat(f gpu.PixelFormat) types.TextureFormat {
	switch f {
	case gpu.PixelFormatAlpha8:
		return types.TextureFormatR8Unorm
	case gpu.PixelFormatGray8:
		return types.TextureFormatR8Unorm
	case gpu.PixelFormatRG88:
		return types.TextureFormatRG8Unorm
	case gpu.PixelFormatRGBA8888:
		return types.TextureFormatRGBA8Unorm
	case gpu.PixelFormatBGRA8888:
		return types.TextureFormatBGRA8Unorm
	case gpu.PixelFormatDepth24Stencil8:
		return types.TextureFormatDepth24PlusStencil8
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

func toWGPUTextureUsage(u gpu.TextureUsage) types.TextureUsage {
	var out types.TextureUsage
	if u.Contains(gpu.TextureUsageTextureBinding) {
		out |= types.TextureUsageTextureBinding
	}
	if u.Contains(gpu.TextureUsageRenderAttachment) {
		out |= types.TextureUsageRenderAttachment
	}
	// Every texture is copy-capable: the core's resource cache always keeps
	// open the option of a GPU-side readback or repopulation copy.
	out |= types.TextureUsageCopySrc | types.TextureUsageCopyDst
	return out
}

func toWGPUBufferUsage(u gpu.BufferUsage) types.BufferUsage {
	var out types.BufferUsage
	if u.Contains(gpu.BufferUsageIndex) {
		out |= types.BufferUsageIndex
	}
	if u.Contains(gpu.BufferUsageVertex) {
		out |= types.BufferUsageVertex
	}
	if u.Contains(gpu.BufferUsageUniform) {
		out |= types.BufferUsageUniform
	}
	if u.Contains(gpu.BufferUsageReadback) {
		out |= types.BufferUsageMapRead
	}
	out |= types.BufferUsageCopySrc | types.BufferUsageCopyDst
	return out
}

func toWGPUIndexFormat(f gpu.IndexFormat) types.IndexFormat {
	if f == gpu.IndexFormatUint32 {
		return types.IndexFormatUint32
	}
	return types.IndexFormatUint16
}

func toWGPUOrigin(o gpu.Origin3D) types.Origin3D {
	return types.Origin3D{X: o.X, Y: o.Y, Z: o.Z}
}

func toWGPUExtent(e gpu.Extent3D) types.Extent3D {
	return types.Extent3D{Width: e.Width, Height: e.Height, DepthOrArrayLayers: e.DepthOrArrayLayers}
}

func toWGPULoadOp(op gpu.LoadOp) types.LoadOp {
	if op == gpu.LoadOpClear {
		return types.LoadOpClear
	}
	return types.LoadOpLoad
}

func toWGPUStoreOp(op gpu.StoreOp) types.StoreOp {
	if op == gpu.StoreOpDiscard {
		return types.StoreOpDiscard
	}
	return types.StoreOpStore
}

func toWGPUColor(c gpu.Color) types.Color {
	return types.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

func toWGPURenderPassDescriptor(desc *gpu.RenderPassDescriptor) *types.RenderPassDescriptor {
	out := &types.RenderPassDescriptor{Label: desc.Label}
	for _, att := range desc.ColorAttachments {
		view, _ := att.View.(*TextureView)
		var resolve core.TextureViewID
		if att.ResolveTarget != nil {
			if rv, ok := att.ResolveTarget.(*TextureView); ok {
				resolve = rv.id
			}
		}
		var viewID core.TextureViewID
		if view != nil {
			viewID = view.id
		}
		out.ColorAttachments = append(out.ColorAttachments, types.RenderPassColorAttachment{
			View:          viewID,
			ResolveTarget: resolve,
			LoadOp:        toWGPULoadOp(att.LoadOp),
			StoreOp:       toWGPUStoreOp(att.StoreOp),
			ClearValue:    toWGPUColor(att.ClearValue),
		})
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		view, _ := ds.View.(*TextureView)
		var viewID core.TextureViewID
		if view != nil {
			viewID = view.id
		}
		out.DepthStencilAttachment = &types.RenderPassDepthStencilAttachment{
			View:              viewID,
			DepthLoadOp:       toWGPULoadOp(ds.DepthLoadOp),
			DepthStoreOp:      toWGPUStoreOp(ds.DepthStoreOp),
			DepthClearValue:   ds.DepthClearValue,
			DepthReadOnly:     ds.DepthReadOnly,
			StencilLoadOp:     toWGPULoadOp(ds.StencilLoadOp),
			StencilStoreOp:    toWGPUStoreOp(ds.StencilStoreOp),
			StencilClearValue: ds.StencilClearValue,
			StencilReadOnly:   ds.StencilReadOnly,
		}
	}
	return out
}

func toWGPUVertexFormat(f gpu.VertexFormat) types.VertexFormat {
	switch f {
	case gpu.VertexFormatFloat32:
		return types.VertexFormatFloat32
	case gpu.VertexFormatFloat32x2:
		return types.VertexFormatFloat32x2
	case gpu.VertexFormatFloat32x3:
		return types.VertexFormatFloat32x3
	case gpu.VertexFormatFloat32x4:
		return types.VertexFormatFloat32x4
	case gpu.VertexFormatUint8x4:
		return types.VertexFormatUint8x4
	case gpu.VertexFormatUnorm8x4:
		return types.VertexFormatUnorm8x4Unorm
	default:
		return types.VertexFormatFloat32
	}
}

func toWGPUBlendFactor(f gpu.BlendFactor) types.BlendFactor {
	switch f {
	case gpu.BlendFactorOne:
		return types.BlendFactorOne
	case gpu.BlendFactorSrcAlpha:
		return types.BlendFactorSrcAlpha
	case gpu.BlendFactorOneMinusSrcAlpha:
		return types.BlendFactorOneMinusSrcAlpha
	case gpu.BlendFactorDstAlpha:
		return types.BlendFactorDstAlpha
	case gpu.BlendFactorOneMinusDstAlpha:
		return types.BlendFactorOneMinusDstAlpha
	case gpu.BlendFactorDstColor:
		return types.BlendFactorDst
	case gpu.BlendFactorOneMinusDstColor:
		return types.BlendFactorOneMinusDst
	case gpu.BlendFactorSrcColor:
		return types.BlendFactorSrc
	case gpu.BlendFactorOneMinusSrcColor:
		return types.BlendFactorOneMinusSrc
	default:
		return types.BlendFactorZero
	}
}

func toWGPUBlendOp(op gpu.BlendOperation) types.BlendOperation {
	switch op {
	case gpu.BlendOpSubtract:
		return types.BlendOperationSubtract
	case gpu.BlendOpReverseSubtract:
		return types.BlendOperationReverseSubtract
	case gpu.BlendOpMin:
		return types.BlendOperationMin
	case gpu.BlendOpMax:
		return types.BlendOperationMax
	default:
		return types.BlendOperationAdd
	}
}

func toWGPUTopology(t gpu.PrimitiveTopology) types.PrimitiveTopology {
	if t == gpu.PrimitiveTriangleStrip {
		return types.PrimitiveTopologyTriangleStrip
	}
	return types.PrimitiveTopologyTriangleList
}

func toWGPURenderPipelineDescriptor(desc gpu.RenderPipelineDescriptor, vsMod, fsMod core.ShaderModuleID) *types.RenderPipelineDescriptor {
	buffers := make([]types.VertexBufferLayout, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		attrs := make([]types.VertexAttribute, len(vb.Attributes))
		for j, a := range vb.Attributes {
			attrs[j] = types.VertexAttribute{
				Format:         toWGPUVertexFormat(a.Format),
				Offset:         uint64(a.Offset),
				ShaderLocation: a.ShaderLocation,
			}
		}
		buffers[i] = types.VertexBufferLayout{ArrayStride: uint64(vb.ArrayStride), Attributes: attrs}
	}

	targets := make([]types.ColorTargetState, len(desc.ColorTargets))
	for i, ct := range desc.ColorTargets {
		target := types.ColorTargetState{Format: toWGPUFormat(ct.Format), WriteMask: ct.WriteMask}
		if ct.Blend != nil {
			target.Blend = &types.BlendState{
				Color: types.BlendComponent{
					SrcFactor: toWGPUBlendFactor(ct.Blend.Color.SrcFactor),
					DstFactor: toWGPUBlendFactor(ct.Blend.Color.DstFactor),
					Operation: toWGPUBlendOp(ct.Blend.Color.Operation),
				},
				Alpha: types.BlendComponent{
					SrcFactor: toWGPUBlendFactor(ct.Blend.Alpha.SrcFactor),
					DstFactor: toWGPUBlendFactor(ct.Blend.Alpha.DstFactor),
					Operation: toWGPUBlendOp(ct.Blend.Alpha.Operation),
				},
			}
		}
		targets[i] = target
	}

	return &types.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: types.VertexState{
			Module:     vsMod,
			EntryPoint: desc.Vertex.EntryPoint,
			Buffers:    buffers,
		},
		Fragment: &types.FragmentState{
			Module:     fsMod,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    targets,
		},
		Primitive: types.PrimitiveState{Topology: toWGPUTopology(desc.Topology)},
		Multisample: types.MultisampleState{
			Count: max1(desc.SampleCount),
		},
	}
}
