package ops

import (
	"fmt"
	"math"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/proxy"
	"github.com/tgfx-gpu/tgfx/task"
)

// Compositor is the per-render-target batching state machine: consecutive
// compatible rect/rrect draws accumulate into one pending group and
// compile into a single indexed DrawOp at flush time, instead of one draw
// call per shape (spec §4.5).
//
// A Compositor is not safe for concurrent use; callers serialize draws
// against one render target themselves (normally the single-threaded
// recording path of one Context).
type Compositor struct {
	gpuDevice gpu.GPU
	provider  *proxy.Provider
	manager   *task.DrawingManager
	global    *globalcache.GlobalCache

	target      *proxy.TextureProxy
	targetW     uint32
	targetH     uint32
	sampleCount uint32

	pendingKind PendingKind
	pendingFill Fill
	pendingClip Clip
	rects       []RectRecord
	rrects      []RRectRecord

	committed []task.DrawOp

	clearPending bool
	clearColor   gpu.Color

	destCopy *proxy.TextureProxy

	closed bool
}

// New creates a Compositor batching draws against target, a render-target
// texture proxy width x height in size.
func New(g gpu.GPU, provider *proxy.Provider, manager *task.DrawingManager, global *globalcache.GlobalCache, target *proxy.TextureProxy, sampleCount uint32) *Compositor {
	return &Compositor{
		gpuDevice:   g,
		provider:    provider,
		manager:     manager,
		global:      global,
		target:      target,
		targetW:     target.Width(),
		targetH:     target.Height(),
		sampleCount: sampleCount,
		pendingKind: PendingNone,
	}
}

// isFullClear reports whether rect/fill/clip together qualify for the
// clear-as-draw fast path: a fully opaque rect exactly covering the
// target, with no clip and a blend mode that doesn't need blending at all
// (spec §4.5 "Clear as draw").
func (c *Compositor) isFullClear(rect gpu.Rect, fill Fill, clip Clip) bool {
	if clip.Kind != ClipNone {
		return false
	}
	if fill.AntiAlias || fill.Shader != nil || fill.ColorFilter != nil || fill.MaskFilter != nil {
		return false
	}
	if fill.BlendMode != BlendModeSrc && fill.BlendMode != BlendModeSrcOver {
		return false
	}
	if fill.Color.A != 1 {
		return false
	}
	return rect.X == 0 && rect.Y == 0 && rect.W == int32(c.targetW) && rect.H == int32(c.targetH)
}

// canBatch reports whether a draw of kind/fill/clip may join the
// currently pending group (spec §4.5 Batch compatibility test).
func (c *Compositor) canBatch(kind PendingKind, fill Fill, clip Clip) bool {
	if c.pendingKind == PendingNone {
		return true
	}
	if c.pendingKind != kind {
		return false
	}
	if !CompareFill(c.pendingFill, fill) {
		return false
	}
	return c.pendingClip.Equal(clip)
}

// DrawRect queues an axis-aligned rect draw, batching it with the
// pending group when compatible.
func (c *Compositor) DrawRect(rect gpu.Rect, fill Fill, clip Clip) {
	if c.isFullClear(rect, fill, clip) {
		c.rects = c.rects[:0]
		c.rrects = c.rrects[:0]
		c.committed = nil
		c.pendingKind = PendingNone
		c.clearPending = true
		c.clearColor = fill.Color
		return
	}
	if !c.canBatch(PendingRect, fill, clip) {
		c.flushPending()
	}
	c.pendingKind = PendingRect
	c.pendingFill = fill
	c.pendingClip = clip
	c.rects = append(c.rects, RectRecord{Rect: rect, Color: fill.Color})
	if len(c.rects) >= MaxRectsPerBatch {
		c.flushPending()
	}
}

// DrawRRect queues a rounded-rect draw.
func (c *Compositor) DrawRRect(rect gpu.Rect, radiusX, radiusY float32, fill Fill, clip Clip) {
	if !c.canBatch(PendingRRect, fill, clip) {
		c.flushPending()
	}
	c.pendingKind = PendingRRect
	c.pendingFill = fill
	c.pendingClip = clip
	c.rrects = append(c.rrects, RRectRecord{Rect: rect, RadiusX: radiusX, RadiusY: radiusY, Color: fill.Color})
	if len(c.rrects) >= MaxRRectsPerBatch {
		c.flushPending()
	}
}

// DrawShape commits a caller-built DrawOp directly, for draws (paths,
// images, atlases) the compositor doesn't batch itself. Any pending
// rect/rrect group flushes first: a shape draw always flushes the
// pending batch before it runs (spec §4.5 Flush triggers).
func (c *Compositor) DrawShape(op task.DrawOp) {
	c.flushPending()
	c.committed = append(c.committed, op)
}

// flushPending compiles the currently pending rect/rrect group (if any)
// into a single RectsDrawOp and appends it to the committed op list,
// resetting the pending group. A no-op when nothing is pending.
func (c *Compositor) flushPending() {
	switch c.pendingKind {
	case PendingRect:
		if len(c.rects) > 0 {
			c.committed = append(c.committed, c.compileRects(c.rects, c.pendingFill, c.pendingClip))
		}
		c.rects = c.rects[:0]
	case PendingRRect:
		if len(c.rrects) > 0 {
			rects := make([]RectRecord, len(c.rrects))
			for i, rr := range c.rrects {
				rects[i] = RectRecord{Rect: rr.Rect, Color: rr.Color}
			}
			c.committed = append(c.committed, c.compileRects(rects, c.pendingFill, c.pendingClip))
		}
		c.rrects = c.rrects[:0]
	}
	c.pendingKind = PendingNone
}

// scheduleDestinationCopy ensures one scratch texture holding the
// target's current contents exists for this flush, for blend modes that
// read the destination color directly where the backend has no
// framebuffer fetch (spec §4.5 destination-texture requirement). Already
// committed draws (and a pending clear) are appended as their own
// OpsRenderTask first, so the copy observes them.
func (c *Compositor) scheduleDestinationCopy() {
	if c.destCopy != nil {
		return
	}
	if len(c.committed) > 0 || c.clearPending {
		t := &task.OpsRenderTask{Target: c.target, Ops: c.committed, SampleCount: c.sampleCount}
		if c.clearPending {
			clear := c.clearColor
			t.ClearColor = &clear
		}
		c.manager.Append(t)
		c.committed = nil
		c.clearPending = false
	}
	c.destCopy = c.provider.CreateTextureProxy(c.targetW, c.targetH, c.target.Format(), gpu.TextureUsageTextureBinding)
	c.manager.Append(&task.TextureUploadTask{
		Target:     c.destCopy,
		Descriptor: gpu.TextureDescriptor{Width: c.targetW, Height: c.targetH, Format: c.target.Format(), Usage: gpu.TextureUsageTextureBinding},
		Pixels:     make([]byte, uint64(c.targetW)*uint64(c.targetH)*uint64(c.target.Format().BytesPerPixel())),
		RowBytes:   c.targetW * uint32(c.target.Format().BytesPerPixel()),
		GPU:        c.gpuDevice,
	})
	c.manager.Append(&task.RenderTargetCopyTask{
		Source: c.target,
		Dest:   c.destCopy,
		Region: gpu.Rect{W: int32(c.targetW), H: int32(c.targetH)},
	})
}

// compileRects builds the draw-time state for one batch: shared pipeline
// lookup, vertex buffer upload, and the index range bound to the
// GlobalCache's shared quad index buffer (spec §4.5 flush building blocks
// 1-4).
func (c *Compositor) compileRects(rects []RectRecord, fill Fill, clip Clip) task.DrawOp {
	if fill.BlendMode.NeedsDestinationRead() {
		c.scheduleDestinationCopy()
	}

	desc := rectsPipelineDescriptor(c.target.Format(), c.sampleCount, fill)
	pipeline, pipelineErr := c.global.Pipelines.Get(desc)
	if pipelineErr != nil {
		pipelineErr = fmt.Errorf("compositor: compile pipeline: %w", pipelineErr)
	}

	var vertices []float32
	var indexBuf gpu.Buffer
	var indexCount uint32
	if fill.AntiAlias && c.sampleCount <= 1 {
		vertices = buildAAQuadVertices(rects)
		indexBuf = c.global.Indices.AAQuads
		indexCount = uint32(len(rects) * globalcache.AAQuadIndexCount)
	} else {
		vertices = buildNonAAQuadVertices(rects)
		indexBuf = c.global.Indices.NonAAQuads
		indexCount = uint32(len(rects) * globalcache.NonAAQuadIndexCount)
	}

	data := make([]byte, len(vertices)*4)
	for i, f := range vertices {
		bits := math.Float32bits(f)
		data[i*4] = byte(bits)
		data[i*4+1] = byte(bits >> 8)
		data[i*4+2] = byte(bits >> 16)
		data[i*4+3] = byte(bits >> 24)
	}

	vertexProxy := c.provider.CreateBufferProxy(uint64(len(data)), gpu.BufferUsageVertex)
	c.manager.Append(&task.MeshVertexUploadTask{Target: vertexProxy, Data: data, GPU: c.gpuDevice})

	var scissor *gpu.Rect
	if r, ok := clip.ScissorBounds(); ok {
		scissor = &r
	}

	return &compiledRectsOp{
		pipeline:    pipeline,
		pipelineErr: pipelineErr,
		vertexProxy: vertexProxy,
		indexBuffer: indexBuf,
		indexCount:  indexCount,
		scissor:     scissor,
	}
}

// compiledRectsOp defers pipeline/vertex-buffer resolution to pass
// execution time, since both the pipeline compile and the vertex upload
// happen as separate tasks that run before the OpsRenderTask carrying
// this op (spec §4.4 Ordering).
type compiledRectsOp struct {
	pipeline    *gpu.RenderPipeline
	pipelineErr error
	vertexProxy *proxy.BufferProxy
	indexBuffer gpu.Buffer
	indexCount  uint32
	scissor     *gpu.Rect
}

func (op *compiledRectsOp) Execute(pass *gpu.RenderPass) error {
	if op.pipelineErr != nil {
		return fmt.Errorf("compositor: %w", op.pipelineErr)
	}
	vbuf, err := op.vertexProxy.Buffer()
	if err != nil {
		return fmt.Errorf("compositor: %w", err)
	}
	inner := &RectsDrawOp{
		Pipeline:     op.pipeline,
		VertexBuffer: vbuf,
		IndexBuffer:  op.indexBuffer,
		IndexCount:   op.indexCount,
		Scissor:      op.scissor,
	}
	return inner.Execute(pass)
}

// Flush compiles any pending batch, appends the accumulated draws as one
// OpsRenderTask to the DrawingManager, and resets the compositor for the
// next frame's draws against the same target (spec §4.5 Flush triggers:
// "compositor closed").
func (c *Compositor) Flush() {
	c.flushPending()
	if len(c.committed) == 0 && !c.clearPending {
		return
	}

	t := &task.OpsRenderTask{Target: c.target, Ops: c.committed, SampleCount: c.sampleCount}
	if c.clearPending {
		clear := c.clearColor
		t.ClearColor = &clear
	}
	c.manager.Append(t)

	c.committed = nil
	c.clearPending = false
	c.destCopy = nil
}

// Close flushes any remaining pending draws and marks the compositor
// closed; a second Close is a no-op. Draw calls made after Close are not
// rejected.
func (c *Compositor) Close() {
	if c.closed {
		return
	}
	c.Flush()
	c.closed = true
}
