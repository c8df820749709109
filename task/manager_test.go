package task

import (
	"testing"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/internal/fakegpu"
	"github.com/tgfx-gpu/tgfx/proxy"
	"github.com/tgfx-gpu/tgfx/resource"
)

type stubDrawOp struct{ ran *bool }

func (s *stubDrawOp) Execute(pass *gpu.RenderPass) error {
	*s.ran = true
	return nil
}

func TestFlushRunsTasksInOrder(t *testing.T) {
	g := fakegpu.New()
	cache := resource.New(0, 0)
	provider := proxy.NewProvider(cache)
	mgr := New(nil)

	target := provider.CreateTextureProxy(4, 4, gpu.PixelFormatRGBA8888, gpu.TextureUsageRenderAttachment)
	mgr.Append(&TextureUploadTask{
		Target:     target,
		Descriptor: gpu.TextureDescriptor{Width: 4, Height: 4, Format: gpu.PixelFormatRGBA8888, Usage: gpu.TextureUsageRenderAttachment},
		Pixels:     make([]byte, 4*4*4),
		RowBytes:   4 * 4,
		GPU:        g,
	})

	ran := false
	clear := gpu.Color{A: 1}
	mgr.Append(&OpsRenderTask{Target: target, ClearColor: &clear, Ops: []DrawOp{&stubDrawOp{ran: &ran}}})

	buf, err := mgr.Flush(g, cache, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf == nil {
		t.Fatalf("expected a non-nil command buffer")
	}
	if !ran {
		t.Fatalf("expected the draw op to run")
	}
	if mgr.Pending() {
		t.Fatalf("expected the task queue to be drained after Flush")
	}
}

func TestFlushSkipsDependentOnFailure(t *testing.T) {
	g := fakegpu.New()
	cache := resource.New(0, 0)
	provider := proxy.NewProvider(cache)
	mgr := New(nil)

	target := provider.CreateTextureProxy(0, 0, gpu.PixelFormatRGBA8888, gpu.TextureUsageRenderAttachment)
	// Zero-sized descriptor makes CreateTexture fail in fakegpu, marking
	// the target proxy failed.
	mgr.Append(&TextureUploadTask{
		Target:     target,
		Descriptor: gpu.TextureDescriptor{Width: 0, Height: 0, Format: gpu.PixelFormatRGBA8888},
		GPU:        g,
	})

	ran := false
	mgr.Append(&OpsRenderTask{Target: target, Ops: []DrawOp{&stubDrawOp{ran: &ran}}})

	if _, err := mgr.Flush(g, cache, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatalf("expected dependent render task to be skipped after its resource task failed")
	}
}

func TestFlushEmptyReturnsNil(t *testing.T) {
	g := fakegpu.New()
	cache := resource.New(0, 0)
	mgr := New(nil)

	buf, err := mgr.Flush(g, cache, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf != nil {
		t.Fatalf("expected nil command buffer for an empty flush")
	}
}
