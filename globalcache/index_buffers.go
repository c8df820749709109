package globalcache

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// Index and vertex counts per quad, for each of the shared primitive
// patterns. Values and the patterns below are recovered from
// src/gpu/GlobalCache.cpp (NonAAQuadIndexPattern / AAQuadIndexPattern) and
// are load-bearing for the bit-exact test vectors in spec §8 (P6: index
// pattern matches byte-for-byte).
const (
	NonAAQuadVertexCount = 4
	NonAAQuadIndexCount  = 6
	AAQuadVertexCount    = 8
	AAQuadIndexCount     = 30
)

// nonAAQuadIndexPattern triangulates a 4-vertex quad (two triangles,
// sharing the diagonal v1-v2).
var nonAAQuadIndexPattern = [NonAAQuadIndexCount]uint16{0, 1, 2, 2, 1, 3}

// aaQuadIndexPattern triangulates an 8-vertex quad: 4 interior corners plus
// 4 outer coverage-ramp corners, covering the interior and the four edge
// coverage triangles that fade to zero alpha at the outer ring.
var aaQuadIndexPattern = [AAQuadIndexCount]uint16{
	0, 1, 2, 1, 3, 2,
	0, 4, 1, 4, 5, 1,
	0, 6, 4, 0, 2, 6,
	2, 3, 6, 3, 7, 6,
	1, 5, 3, 3, 5, 7,
}

// MaxQuadsPerIndexBuffer bounds how many quads one shared index buffer
// covers before a batch must split into another draw call.
const MaxQuadsPerIndexBuffer = 2048

// IndexBuffers holds the shared, Context-lifetime index buffers for
// non-AA and AA quads, generated once and reused by every batched DrawOp
// that emits quad geometry (spec §4.3).
type IndexBuffers struct {
	NonAAQuads gpu.Buffer
	AAQuads    gpu.Buffer
}

// BuildIndexBuffers allocates and uploads the shared quad index buffers
// through queue, repeating each pattern maxQuads times with vertex
// indices offset per quad.
func BuildIndexBuffers(g gpu.GPU, queue gpu.CommandQueue, maxQuads int) (*IndexBuffers, error) {
	if maxQuads <= 0 {
		maxQuads = MaxQuadsPerIndexBuffer
	}

	nonAA, err := buildIndexBuffer(g, queue, nonAAQuadIndexPattern[:], NonAAQuadVertexCount, maxQuads, "nonAAQuadIndices")
	if err != nil {
		return nil, fmt.Errorf("build non-AA quad index buffer: %w", err)
	}
	aa, err := buildIndexBuffer(g, queue, aaQuadIndexPattern[:], AAQuadVertexCount, maxQuads, "aaQuadIndices")
	if err != nil {
		nonAA.Destroy()
		return nil, fmt.Errorf("build AA quad index buffer: %w", err)
	}

	return &IndexBuffers{NonAAQuads: nonAA, AAQuads: aa}, nil
}

func buildIndexBuffer(g gpu.GPU, queue gpu.CommandQueue, pattern []uint16, vertsPerQuad, maxQuads int, label string) (gpu.Buffer, error) {
	indices := make([]uint16, 0, len(pattern)*maxQuads)
	for q := 0; q < maxQuads; q++ {
		base := uint16(q * vertsPerQuad)
		for _, idx := range pattern {
			indices = append(indices, base+idx)
		}
	}

	data := make([]byte, len(indices)*2)
	for i, idx := range indices {
		data[i*2] = byte(idx)
		data[i*2+1] = byte(idx >> 8)
	}

	buf, err := g.CreateBuffer(uint64(len(data)), gpu.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Destroy()
		return nil, err
	}
	return buf, nil
}

// Destroy releases both shared index buffers.
func (b *IndexBuffers) Destroy() {
	if b.NonAAQuads != nil {
		b.NonAAQuads.Destroy()
	}
	if b.AAQuads != nil {
		b.AAQuads.Destroy()
	}
}
