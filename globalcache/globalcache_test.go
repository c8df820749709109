package globalcache

import (
	"testing"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/internal/fakegpu"
)

type fakeProgramCreator struct {
	createCount int
}

func (c *fakeProgramCreator) Key(desc gpu.RenderPipelineDescriptor) ProgramKey {
	return HashDescriptor(desc)
}

func (c *fakeProgramCreator) Create(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	c.createCount++
	return gpu.NewRenderPipeline(gpu.BackendGL, c.createCount, desc), nil
}

func TestPipelineCacheReusesOnHit(t *testing.T) {
	creator := &fakeProgramCreator{}
	c := NewPipelineCache(creator)

	desc := gpu.RenderPipelineDescriptor{Label: "rect", Vertex: gpu.ShaderModuleDescriptor{Source: "vs"}, Fragment: gpu.ShaderModuleDescriptor{Source: "fs"}}

	p1, err := c.Get(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := c.Get(desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected identical pipeline on cache hit")
	}
	if creator.createCount != 1 {
		t.Fatalf("expected exactly one compile, got %d", creator.createCount)
	}
}

func TestPipelineCacheEvictsAt128(t *testing.T) {
	creator := &fakeProgramCreator{}
	c := NewPipelineCache(creator)

	for i := 0; i < MaxProgramCount+10; i++ {
		desc := gpu.RenderPipelineDescriptor{
			Vertex:   gpu.ShaderModuleDescriptor{Source: "vs"},
			Fragment: gpu.ShaderModuleDescriptor{Source: "fs", EntryPoint: string(rune(i))},
		}
		if _, err := c.Get(desc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Len() != MaxProgramCount {
		t.Fatalf("expected LRU bounded at %d, got %d", MaxProgramCount, c.Len())
	}
}

func TestBuildIndexBuffersPatternSizes(t *testing.T) {
	g := fakegpu.New()
	bufs, err := BuildIndexBuffers(g, g.Queue(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bufs.Destroy()

	wantNonAA := uint64(NonAAQuadIndexCount * 4 * 2) // 4 quads * 6 indices * 2 bytes
	if bufs.NonAAQuads.Size() != wantNonAA {
		t.Fatalf("non-AA index buffer size = %d, want %d", bufs.NonAAQuads.Size(), wantNonAA)
	}
	wantAA := uint64(AAQuadIndexCount * 4 * 2)
	if bufs.AAQuads.Size() != wantAA {
		t.Fatalf("AA index buffer size = %d, want %d", bufs.AAQuads.Size(), wantAA)
	}
}

func TestUniformRingResetsAtFlushEnd(t *testing.T) {
	g := fakegpu.New()
	ring, err := NewUniformRing(g, 4096, 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ring.Destroy()

	_, off1, ok := ring.Allocate(64)
	if !ok || off1 != 0 {
		t.Fatalf("expected first allocation at offset 0, got %d ok=%v", off1, ok)
	}
	_, off2, ok := ring.Allocate(64)
	if !ok || off2 != 256 {
		t.Fatalf("expected second allocation aligned to 256, got %d", off2)
	}

	ring.Reset()
	_, off3, ok := ring.Allocate(64)
	if !ok || off3 != 0 {
		t.Fatalf("expected allocation after Reset to start at 0, got %d", off3)
	}
}

func TestGradientCacheBoundedAt32(t *testing.T) {
	g := fakegpu.New()
	cache := NewGradientCache()

	for i := 0; i < MaxGradientLUTs+5; i++ {
		tex, err := g.CreateTexture(gpu.TextureDescriptor{Width: GradientLUTWidth, Height: 1, Format: gpu.PixelFormatRGBA8888})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		key := HashGradientStops([]GradientStop{{Color: gpu.Color{R: float32(i)}, Position: 0}})
		cache.Put(key, tex)
	}
	if cache.Len() != MaxGradientLUTs {
		t.Fatalf("expected gradient cache bounded at %d, got %d", MaxGradientLUTs, cache.Len())
	}
}
