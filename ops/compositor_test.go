package ops

import (
	"log/slog"
	"testing"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/internal/fakegpu"
	"github.com/tgfx-gpu/tgfx/proxy"
	"github.com/tgfx-gpu/tgfx/resource"
	"github.com/tgfx-gpu/tgfx/task"
)

type fakeProgramCreator struct{ createCount int }

func (c *fakeProgramCreator) Key(desc gpu.RenderPipelineDescriptor) globalcache.ProgramKey {
	return globalcache.HashDescriptor(desc)
}

func (c *fakeProgramCreator) Create(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	c.createCount++
	return gpu.NewRenderPipeline(gpu.BackendGL, c.createCount, desc), nil
}

func newTestHarness(t *testing.T) (*fakegpu.GPU, *proxy.Provider, *task.DrawingManager, *globalcache.GlobalCache, *proxy.TextureProxy) {
	t.Helper()
	g := fakegpu.New()
	cache := resource.New(0, 0)
	provider := proxy.NewProvider(cache)
	mgr := task.New(slog.Default())
	global, err := globalcache.New(g, g.Queue(), &fakeProgramCreator{})
	if err != nil {
		t.Fatalf("unexpected error building global cache: %v", err)
	}
	t.Cleanup(global.Close)

	target := provider.CreateTextureProxy(64, 64, gpu.PixelFormatRGBA8888, gpu.TextureUsageRenderAttachment)
	mgr.Append(&task.TextureUploadTask{
		Target:     target,
		Descriptor: gpu.TextureDescriptor{Width: 64, Height: 64, Format: gpu.PixelFormatRGBA8888, Usage: gpu.TextureUsageRenderAttachment},
		Pixels:     make([]byte, 64*64*4),
		RowBytes:   64 * 4,
		GPU:        g,
	})
	return g, provider, mgr, global, target
}

func TestDrawRectBatchesCompatibleDraws(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	fill := Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}
	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, fill, Clip{})
	c.DrawRect(gpu.Rect{X: 10, Y: 0, W: 10, H: 10}, fill, Clip{})
	if len(c.rects) != 2 {
		t.Fatalf("expected 2 rects batched together, got %d", len(c.rects))
	}
	c.Close()

	if _, err := mgr.Flush(g, resource.New(0, 0), global); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDrawRectFlushesOnIncompatibleFill(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	fillA := Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}
	fillB := Fill{BlendMode: BlendModeSrc, Color: gpu.Color{G: 1, A: 1}}

	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, fillA, Clip{})
	c.DrawRect(gpu.Rect{X: 10, Y: 0, W: 10, H: 10}, fillB, Clip{})

	if len(c.committed) != 1 {
		t.Fatalf("expected the first batch to have flushed as one committed op, got %d", len(c.committed))
	}
	if len(c.rects) != 1 {
		t.Fatalf("expected the second rect to start a new pending batch, got %d", len(c.rects))
	}
}

func TestDrawRectFlushesAtMaxBatchSize(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	fill := Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}
	for i := 0; i < MaxRectsPerBatch; i++ {
		c.DrawRect(gpu.Rect{X: int32(i), Y: 0, W: 1, H: 1}, fill, Clip{})
	}
	if len(c.rects) != 0 {
		t.Fatalf("expected the batch to flush automatically at %d rects", MaxRectsPerBatch)
	}
	if len(c.committed) != 1 {
		t.Fatalf("expected exactly one committed op from the full batch, got %d", len(c.committed))
	}
}

func TestFullOpaqueRectBecomesClear(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	c.DrawRect(gpu.Rect{X: 5, Y: 5, W: 5, H: 5}, Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}, Clip{})
	clearColor := gpu.Color{B: 1, A: 1}
	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 64, H: 64}, Fill{BlendMode: BlendModeSrcOver, Color: clearColor}, Clip{})

	if !c.clearPending {
		t.Fatalf("expected full-target opaque rect to trigger the clear-as-draw fast path")
	}
	if c.clearColor != clearColor {
		t.Fatalf("clear color = %+v, want %+v", c.clearColor, clearColor)
	}
	if len(c.rects) != 0 || len(c.committed) != 0 {
		t.Fatalf("expected prior queued draws discarded by the full clear")
	}
}

func TestDifferentClipFlushesPendingBatch(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	fill := Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}
	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, fill, Clip{Kind: ClipNone})
	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, fill, Clip{Kind: ClipScissor, Rect: gpu.Rect{W: 5, H: 5}})

	if len(c.committed) != 1 {
		t.Fatalf("expected a clip change to flush the pending batch, got %d committed ops", len(c.committed))
	}
	if len(c.rects) != 1 {
		t.Fatalf("expected the new clip to start a fresh pending batch, got %d", len(c.rects))
	}
}

func TestShapeDrawFlushesPendingRectsFirst(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	fill := Fill{BlendMode: BlendModeSrcOver, Color: gpu.Color{R: 1, A: 1}}
	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, fill, Clip{})

	var shapeRan bool
	c.DrawShape(drawOpFunc(func(pass *gpu.RenderPass) error { shapeRan = true; return nil }))

	if len(c.rects) != 0 {
		t.Fatalf("expected the pending rect batch to flush before the shape draw runs")
	}
	if len(c.committed) != 2 {
		t.Fatalf("expected 2 committed ops (flushed rects + shape), got %d", len(c.committed))
	}
	_ = shapeRan
}

type drawOpFunc func(pass *gpu.RenderPass) error

func (f drawOpFunc) Execute(pass *gpu.RenderPass) error { return f(pass) }

func TestBlendModeNeedingDestinationReadSchedulesCopy(t *testing.T) {
	g, provider, mgr, global, target := newTestHarness(t)
	c := New(g, provider, mgr, global, target, 1)

	c.DrawRect(gpu.Rect{X: 0, Y: 0, W: 10, H: 10}, Fill{BlendMode: BlendModeDstIn, Color: gpu.Color{A: 1}}, Clip{})
	c.flushPending()
	if c.destCopy == nil {
		t.Fatalf("expected a destination-read blend mode to schedule a destination copy")
	}
	c.Close()
}

func TestCompareFillBatchCompatibility(t *testing.T) {
	a := Fill{AntiAlias: true, BlendMode: BlendModeSrcOver}
	b := Fill{AntiAlias: true, BlendMode: BlendModeSrcOver}
	if !CompareFill(a, b) {
		t.Fatalf("expected identical fills to compare equal")
	}
	b.BlendMode = BlendModeSrc
	if CompareFill(a, b) {
		t.Fatalf("expected differing blend modes to compare unequal")
	}
}
