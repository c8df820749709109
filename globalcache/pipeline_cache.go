package globalcache

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// MaxProgramCount bounds the pipeline LRU at 128 entries, matching
// src/gpu/GlobalCache.cpp's MAX_PROGRAM_COUNT.
const MaxProgramCount = 128

// ProgramKey is the bytes-key a ProgramCreator derives from a pipeline
// descriptor's shader source and fixed-function state.
type ProgramKey [sha256.Size]byte

// ProgramCreator derives a ProgramKey for desc and compiles it into a
// RenderPipeline on a miss. Backends implement this once; PipelineCache
// is backend-agnostic.
type ProgramCreator interface {
	Key(desc gpu.RenderPipelineDescriptor) ProgramKey
	Create(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error)
}

// PipelineCache is the 128-entry, strict-LRU pipeline cache shared by every
// draw in a Context (spec §4.3).
type PipelineCache struct {
	lru     *lru[ProgramKey, *gpu.RenderPipeline]
	creator ProgramCreator
}

// NewPipelineCache creates a pipeline cache bounded at MaxProgramCount,
// destroying evicted pipelines through their backend-native Destroy.
func NewPipelineCache(creator ProgramCreator) *PipelineCache {
	c := &PipelineCache{creator: creator}
	c.lru = newLRU[ProgramKey, *gpu.RenderPipeline](MaxProgramCount, func(_ ProgramKey, p *gpu.RenderPipeline) {
		destroyPipeline(p)
	})
	return c
}

// Get returns the pipeline for desc, compiling and inserting it on a miss.
// A cache hit moves the entry to the front of the LRU (spec §4.3).
func (c *PipelineCache) Get(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	key := c.creator.Key(desc)
	if p, ok := c.lru.Get(key); ok {
		return p, nil
	}

	p, err := c.creator.Create(desc)
	if err != nil {
		return nil, err
	}
	c.lru.Put(key, p)
	return p, nil
}

// Len reports the number of cached pipelines.
func (c *PipelineCache) Len() int { return c.lru.Len() }

// Clear evicts and destroys every cached pipeline.
func (c *PipelineCache) Clear() { c.lru.Clear() }

// destroyPipeline releases a backend-native pipeline handle via its
// opaque backend object through a hook installed with
// SetDestroyPipelineHook. None of this module's backend packages installs
// one, so by default this is a no-op and the core never needs to know the
// opaque handle's concrete type.
var destroyPipelineHook func(*gpu.RenderPipeline)

func destroyPipeline(p *gpu.RenderPipeline) {
	if destroyPipelineHook != nil {
		destroyPipelineHook(p)
	}
}

// SetDestroyPipelineHook installs the backend-specific pipeline
// destruction callback used for every pipeline evicted from a
// PipelineCache.
func SetDestroyPipelineHook(fn func(*gpu.RenderPipeline)) {
	destroyPipelineHook = fn
}

// hashDescriptor is a convenience ProgramKey derivation shared by backend
// ProgramCreator implementations: hash the shader sources and the
// fixed-function state that affects codegen.
func hashDescriptor(desc gpu.RenderPipelineDescriptor) ProgramKey {
	h := sha256.New()
	h.Write([]byte(desc.Vertex.Source))
	h.Write([]byte(desc.Vertex.EntryPoint))
	h.Write([]byte(desc.Fragment.Source))
	h.Write([]byte(desc.Fragment.EntryPoint))
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(desc.Topology))
	h.Write(tmp[:])
	binary.LittleEndian.PutUint32(tmp[:], desc.SampleCount)
	h.Write(tmp[:])
	for _, ct := range desc.ColorTargets {
		binary.LittleEndian.PutUint32(tmp[:], uint32(ct.Format))
		h.Write(tmp[:])
	}
	var out ProgramKey
	copy(out[:], h.Sum(nil))
	return out
}

// HashDescriptor exposes hashDescriptor to backend packages so every
// backend's ProgramCreator derives keys identically.
func HashDescriptor(desc gpu.RenderPipelineDescriptor) ProgramKey { return hashDescriptor(desc) }
