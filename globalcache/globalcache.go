package globalcache

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// GlobalCache bundles every long-lived, Context-scoped shared cache:
// compiled pipelines, the shared primitive index buffers, gradient LUTs,
// and the uniform ring buffer (spec §4.3). Exactly one GlobalCache is
// created per Context, at device-lock time, and destroyed when the
// Context is.
type GlobalCache struct {
	Pipelines *PipelineCache
	Gradients *GradientCache
	Indices   *IndexBuffers
	Uniforms  *UniformRing
}

// New builds a GlobalCache: the shared index buffers and uniform ring are
// allocated eagerly through g/queue; the pipeline and gradient LRUs start
// empty and fill lazily as draws request them.
func New(g gpu.GPU, queue gpu.CommandQueue, creator ProgramCreator) (*GlobalCache, error) {
	indices, err := BuildIndexBuffers(g, queue, MaxQuadsPerIndexBuffer)
	if err != nil {
		return nil, fmt.Errorf("globalcache: %w", err)
	}

	limits := g.Limits()
	uniforms, err := NewUniformRing(g, DefaultUniformRingSize, uint64(limits.UBOOffsetAlignment))
	if err != nil {
		indices.Destroy()
		return nil, fmt.Errorf("globalcache: %w", err)
	}

	return &GlobalCache{
		Pipelines: NewPipelineCache(creator),
		Gradients: NewGradientCache(),
		Indices:   indices,
		Uniforms:  uniforms,
	}, nil
}

// EndFlush resets the per-flush uniform ring. Called once after a flush's
// command buffer has been finished.
func (c *GlobalCache) EndFlush() { c.Uniforms.Reset() }

// Close releases every owned GPU object.
func (c *GlobalCache) Close() {
	c.Pipelines.Clear()
	c.Gradients.Clear()
	c.Indices.Destroy()
	c.Uniforms.Destroy()
}
