package globalcache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// MaxGradientLUTs bounds the gradient LUT cache at 32 entries, matching
// src/gpu/GlobalCache.cpp's MaxNumCachedGradientBitmaps.
const MaxGradientLUTs = 32

// GradientLUTWidth is the fixed texel width of a cached gradient LUT
// texture; one texel per discrete color stop position.
const GradientLUTWidth = 256

// GradientKey is a bytes-key over a gradient's (colors, positions) pair.
type GradientKey [sha256.Size]byte

// GradientStop is one color stop in a gradient definition.
type GradientStop struct {
	Color    gpu.Color
	Position float32
}

// HashGradientStops derives the GradientKey for a sequence of stops.
func HashGradientStops(stops []GradientStop) GradientKey {
	h := sha256.New()
	var tmp [4]byte
	for _, s := range stops {
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(s.Color.R))
		h.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(s.Color.G))
		h.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(s.Color.B))
		h.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(s.Color.A))
		h.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(s.Position))
		h.Write(tmp[:])
	}
	var out GradientKey
	copy(out[:], h.Sum(nil))
	return out
}

// GradientCache caches rasterized gradient LUT textures keyed by their
// color-stop content, bounded at MaxGradientLUTs and LRU evicted (spec
// §4.3).
type GradientCache struct {
	lru *lru[GradientKey, gpu.Texture]
}

// NewGradientCache creates a gradient LUT cache bounded at MaxGradientLUTs.
func NewGradientCache() *GradientCache {
	c := &GradientCache{}
	c.lru = newLRU[GradientKey, gpu.Texture](MaxGradientLUTs, func(_ GradientKey, tex gpu.Texture) {
		tex.Destroy()
	})
	return c
}

// Get returns the cached LUT texture for key, if present, promoting it to
// most-recently-used.
func (c *GradientCache) Get(key GradientKey) (gpu.Texture, bool) {
	return c.lru.Get(key)
}

// Put inserts tex under key, evicting the least-recently-used LUT if the
// cache is now over MaxGradientLUTs.
func (c *GradientCache) Put(key GradientKey, tex gpu.Texture) {
	c.lru.Put(key, tex)
}

// Len reports the number of cached gradient LUTs.
func (c *GradientCache) Len() int { return c.lru.Len() }

// Clear evicts and destroys every cached LUT.
func (c *GradientCache) Clear() { c.lru.Clear() }
