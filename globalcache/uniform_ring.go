package globalcache

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// DefaultUniformRingSize is the default byte size of the shared uniform
// ring buffer: 16384 allocations per flush at the default 256-byte
// alignment. Allocate fails once the ring is full; it does not wrap.
const DefaultUniformRingSize = 4 * 1024 * 1024

// UniformRing is the shared UBO subdivided per draw (spec §4.3): each
// DrawOp requests an aligned slice, and the whole ring resets to offset 0
// at the end of every flush.
type UniformRing struct {
	buffer    gpu.Buffer
	capacity  uint64
	alignment uint64
	offset    uint64
}

// NewUniformRing allocates a uniform-usage buffer of size bytes, aligning
// every allocation to alignment (the backend's uboOffsetAlignment).
func NewUniformRing(g gpu.GPU, size uint64, alignment uint64) (*UniformRing, error) {
	if size == 0 {
		size = DefaultUniformRingSize
	}
	if alignment == 0 {
		alignment = 256
	}
	buf, err := g.CreateBuffer(size, gpu.BufferUsageUniform)
	if err != nil {
		return nil, fmt.Errorf("allocate uniform ring: %w", err)
	}
	return &UniformRing{buffer: buf, capacity: size, alignment: alignment}, nil
}

// Allocate reserves size bytes, rounded up to the ring's alignment, and
// returns the buffer plus the aligned byte offset the caller should write
// to and bind at. Returns false if the ring has no remaining capacity this
// flush.
func (r *UniformRing) Allocate(size uint64) (buf gpu.Buffer, offset uint64, ok bool) {
	aligned := alignUp(r.offset, r.alignment)
	if aligned+size > r.capacity {
		return nil, 0, false
	}
	r.offset = aligned + size
	return r.buffer, aligned, true
}

// Reset returns the ring to offset 0. Called once at the end of every
// flush (spec §4.3).
func (r *UniformRing) Reset() { r.offset = 0 }

// Buffer returns the backing buffer, for write uploads via the command
// queue.
func (r *UniformRing) Buffer() gpu.Buffer { return r.buffer }

// Destroy releases the backing buffer.
func (r *UniformRing) Destroy() {
	if r.buffer != nil {
		r.buffer.Destroy()
	}
}

func alignUp(v, alignment uint64) uint64 {
	if alignment == 0 {
		return v
	}
	return (v + alignment - 1) / alignment * alignment
}
