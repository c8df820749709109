package gg

import (
	"testing"
	"time"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/internal/fakegpu"
	"github.com/tgfx-gpu/tgfx/task"
)

func TestNewBuildsContext(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if ctx.Device() == nil {
		t.Error("Device() returned nil")
	}
	if ctx.Provider() == nil {
		t.Error("Provider() returned nil")
	}
	if ctx.Manager() == nil {
		t.Error("Manager() returned nil")
	}
	if ctx.GlobalCache() == nil {
		t.Error("GlobalCache() returned nil")
	}
}

func TestFlushEmptyReturnsFalseWithoutTouchingSignal(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	var sem gpu.Semaphore
	if ctx.Flush(&sem) {
		t.Error("Flush() on an empty task graph should return false")
	}
	if sem != nil {
		t.Error("Flush() must not touch signalOut when nothing was submitted")
	}
}

func TestFlushSubmitsPendingWork(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	target := ctx.Provider().CreateTextureProxy(4, 4, gpu.PixelFormatRGBA8888, gpu.TextureUsageRenderAttachment)
	ctx.Manager().Append(&task.TextureUploadTask{
		Target:     target,
		Descriptor: gpu.TextureDescriptor{Width: 4, Height: 4, Format: gpu.PixelFormatRGBA8888, Usage: gpu.TextureUsageRenderAttachment},
		Pixels:     make([]byte, 4*4*4),
		RowBytes:   4 * 4,
		GPU:        ctx.Device(),
	})

	var sem gpu.Semaphore
	if !ctx.Flush(&sem) {
		t.Fatal("Flush() with pending work should return true")
	}
	if sem == nil {
		t.Error("Flush() with a non-nil signalOut and submitted work should populate it")
	}
	if ctx.Manager().Pending() {
		t.Error("Flush() should drain the task graph")
	}
}

func TestFlushAndSubmitComposesFlushAndSubmit(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if ctx.FlushAndSubmit(true) {
		t.Error("FlushAndSubmit() with no pending work should report false from Flush")
	}
}

func TestCacheLimitDelegatesToResourceCache(t *testing.T) {
	ctx, err := New(fakegpu.New(), WithCacheLimit(4096))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if got := ctx.CacheLimit(); got != 4096 {
		t.Errorf("CacheLimit() = %d, want 4096", got)
	}
	ctx.SetCacheLimit(2048)
	if got := ctx.CacheLimit(); got != 2048 {
		t.Errorf("CacheLimit() after SetCacheLimit = %d, want 2048", got)
	}
}

func TestPurgeResourcesNotUsedSinceBeforeAnyCheckpointPurgesNothing(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	// No flush has happened yet, so there is no checkpoint to purge against;
	// this must not panic and must leave memory usage untouched.
	ctx.PurgeResourcesNotUsedSince(time.Now())
	if got := ctx.MemoryUsage(); got != 0 {
		t.Errorf("MemoryUsage() = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
}

func TestFlushAfterCloseReturnsFalse(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	ctx.Close()

	if ctx.Flush(nil) {
		t.Error("Flush() after Close() should return false")
	}
	if ctx.Submit(true) {
		t.Error("Submit() after Close() should return false")
	}
}

