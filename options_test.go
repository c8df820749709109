package gg

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/tgfx-gpu/tgfx/internal/fakegpu"
	"github.com/tgfx-gpu/tgfx/resource"
)

func TestNewDefaultOptions(t *testing.T) {
	ctx, err := New(fakegpu.New())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if got := ctx.CacheLimit(); got != resource.DefaultCacheLimitBytes {
		t.Errorf("CacheLimit() = %d, want default %d", got, resource.DefaultCacheLimitBytes)
	}
	if got := ctx.ResourceExpirationFrames(); got != resource.DefaultExpirationFrames {
		t.Errorf("ResourceExpirationFrames() = %d, want default %d", got, resource.DefaultExpirationFrames)
	}
}

func TestWithCacheLimit(t *testing.T) {
	ctx, err := New(fakegpu.New(), WithCacheLimit(1024))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if got := ctx.CacheLimit(); got != 1024 {
		t.Errorf("CacheLimit() = %d, want 1024", got)
	}
}

func TestWithResourceExpirationFrames(t *testing.T) {
	ctx, err := New(fakegpu.New(), WithResourceExpirationFrames(5))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if got := ctx.ResourceExpirationFrames(); got != 5 {
		t.Errorf("ResourceExpirationFrames() = %d, want 5", got)
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, err := New(fakegpu.New(), WithLogger(custom))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if ctx.logger != custom {
		t.Error("WithLogger did not override the context's logger")
	}
}

func TestNewRejectsNilDevice(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should return an error")
	}
}

func TestNewCombinesOptions(t *testing.T) {
	ctx, err := New(fakegpu.New(), WithCacheLimit(2048), WithResourceExpirationFrames(7))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ctx.Close()

	if got := ctx.CacheLimit(); got != 2048 {
		t.Errorf("CacheLimit() = %d, want 2048", got)
	}
	if got := ctx.ResourceExpirationFrames(); got != 7 {
		t.Errorf("ResourceExpirationFrames() = %d, want 7", got)
	}
}
