package task

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/proxy"
)

// DrawOp is the unit an OpsRenderTask executes against an open RenderPass.
// The ops package implements this against the OpsCompositor's batched
// draws; task only depends on the narrow interface it needs to run one.
type DrawOp interface {
	Execute(pass *gpu.RenderPass) error
}

// OpsRenderTask is a list of ordered DrawOps targeting one render-target
// proxy, with an optional clear color applied before the first op runs
// (spec §4.4).
type OpsRenderTask struct {
	Target     *proxy.TextureProxy
	ClearColor *gpu.Color
	Ops        []DrawOp
	SampleCount uint32
}

func (t *OpsRenderTask) DependencyFailed() bool {
	return t.Target != nil && t.Target.Failed()
}

func (t *OpsRenderTask) Execute(ec *ExecContext) error {
	if t.Target == nil {
		return fmt.Errorf("ops render task: nil target proxy")
	}
	tex, err := t.Target.Texture()
	if err != nil {
		return fmt.Errorf("ops render task: %w", err)
	}

	loadOp := gputypes.LoadOpLoad
	clear := gpu.Color{}
	if t.ClearColor != nil {
		loadOp = gputypes.LoadOpClear
		clear = *t.ClearColor
	}

	desc := &gpu.RenderPassDescriptor{
		ColorAttachments: []gpu.RenderPassColorAttachment{{
			View:       tex.CreateView(),
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	}

	pass, err := ec.Encoder.BeginRenderPass(desc)
	if err != nil {
		return fmt.Errorf("ops render task: begin pass: %w", err)
	}

	for i, op := range t.Ops {
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("draw op panicked: %v", r)
				}
			}()
			return op.Execute(pass)
		}()
		if err != nil {
			ec.logf(fmt.Sprintf("draw op %d", i), err)
			continue
		}
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("ops render task: end pass: %w", err)
	}
	return nil
}

// TextureResolveTask schedules a multisample-to-sample-texture resolve
// copy for a render target whose SampleCount > 1.
type TextureResolveTask struct {
	MSAASource *proxy.TextureProxy
	Resolved   *proxy.TextureProxy
}

func (t *TextureResolveTask) DependencyFailed() bool {
	return t.MSAASource != nil && t.MSAASource.Failed()
}

func (t *TextureResolveTask) Execute(ec *ExecContext) error {
	src, err := t.MSAASource.Texture()
	if err != nil {
		return fmt.Errorf("texture resolve: %w", err)
	}
	dst, err := t.Resolved.Texture()
	if err != nil {
		return fmt.Errorf("texture resolve: %w", err)
	}
	size := gpu.Extent3D{Width: src.Width(), Height: src.Height(), DepthOrArrayLayers: 1}
	return ec.Encoder.CopyTextureToTexture(
		&gpu.ImageCopyTexture{Texture: src},
		&gpu.ImageCopyTexture{Texture: dst},
		size,
	)
}

// RenderTargetCopyTask copies a render target's current contents to a
// scratch texture, for blend modes that read the destination directly
// where the backend lacks framebuffer fetch (spec §4.5 destination-copy
// path).
type RenderTargetCopyTask struct {
	Source *proxy.TextureProxy
	Dest   *proxy.TextureProxy
	Region gpu.Rect
}

func (t *RenderTargetCopyTask) DependencyFailed() bool {
	return t.Source != nil && t.Source.Failed()
}

func (t *RenderTargetCopyTask) Execute(ec *ExecContext) error {
	src, err := t.Source.Texture()
	if err != nil {
		return fmt.Errorf("render target copy: %w", err)
	}
	dst, err := t.Dest.Texture()
	if err != nil {
		return fmt.Errorf("render target copy: %w", err)
	}
	size := gpu.Extent3D{Width: uint32(t.Region.W), Height: uint32(t.Region.H), DepthOrArrayLayers: 1}
	origin := gpu.Origin3D{X: t.Region.X, Y: t.Region.Y}
	return ec.Encoder.CopyTextureToTexture(
		&gpu.ImageCopyTexture{Texture: src, Origin: origin},
		&gpu.ImageCopyTexture{Texture: dst},
		size,
	)
}
