package gg

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/ops"
	"github.com/tgfx-gpu/tgfx/proxy"
	"github.com/tgfx-gpu/tgfx/resource"
	"github.com/tgfx-gpu/tgfx/task"
)

// Context is the opaque handle a host hands its stream of draw intents to
// and receives command buffers from. It owns every long-lived piece of the
// core for one GPU device: the resource cache, the proxy provider, the
// drawing task graph, and the global cache of shared pipelines/index
// buffers/gradients.
//
// A Context is created against an already-locked device and is not safe
// for concurrent use from more than one goroutine: the core assumes
// single-threaded cooperative scheduling on whichever goroutine holds the
// device lock.
type Context struct {
	mu sync.Mutex

	gpuDevice gpu.GPU
	cache     *resource.Cache
	provider  *proxy.Provider
	manager   *task.DrawingManager
	global    *globalcache.GlobalCache
	logger    *slog.Logger

	frame       uint64
	checkpoints []frameCheckpoint

	closed bool
}

// frameCheckpoint pairs a frame number with the wall-clock time it was
// reached, so PurgeResourcesNotUsedSince can translate a time.Time argument
// into the frame-counter threshold resource.Cache actually tracks.
type frameCheckpoint struct {
	frame uint64
	at    time.Time
}

// New creates a Context around an already-created GPU device. The caller
// retains ownership of device; New builds every Context-scoped cache on
// top of it.
func New(device gpu.GPU, opts ...ContextOption) (*Context, error) {
	if device == nil {
		return nil, fmt.Errorf("tgfx: new context: device is nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	cache := resource.New(o.cacheLimitBytes, o.resourceExpirationFrames)
	provider := proxy.NewProvider(cache)
	manager := task.New(logger)

	global, err := globalcache.New(device, device.Queue(), newProgramCreator(device))
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("tgfx: new context: %w", err)
	}

	return &Context{
		gpuDevice: device,
		cache:     cache,
		provider:  provider,
		manager:   manager,
		global:    global,
		logger:    logger,
	}, nil
}

// Device returns the GPU abstraction this Context was created around.
func (c *Context) Device() gpu.GPU { return c.gpuDevice }

// Provider returns the proxy provider backed by this Context's resource
// cache, for collaborators (a future Canvas, tests) that build draws
// against it.
func (c *Context) Provider() *proxy.Provider { return c.provider }

// Manager returns the drawing task graph draws are appended to before a
// Flush.
func (c *Context) Manager() *task.DrawingManager { return c.manager }

// GlobalCache returns the Context-scoped shared pipeline/index/gradient
// caches.
func (c *Context) GlobalCache() *globalcache.GlobalCache { return c.global }

// NewCompositor creates a batching state machine for draws against target,
// sharing this Context's device, provider, manager, and global cache.
func (c *Context) NewCompositor(target *proxy.TextureProxy, sampleCount uint32) *ops.Compositor {
	return ops.New(c.gpuDevice, c.provider, c.manager, c.global, target, sampleCount)
}

// Flush walks the pending task graph once and submits the resulting
// command buffer to the device queue. It returns false without touching
// signalOut when no task was pending, so a caller can skip an idle frame's
// submission entirely. When signalOut is non-nil and work was submitted,
// the queue's newly inserted semaphore is written through it.
func (c *Context) Flush(signalOut *gpu.Semaphore) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.manager.Pending() {
		return false
	}

	buf, err := c.manager.Flush(c.gpuDevice, c.cache, c.global)
	if err != nil {
		c.logger.Warn("flush failed", "err", err)
		return false
	}
	if buf == nil {
		return false
	}

	queue := c.gpuDevice.Queue()
	if err := queue.Submit(buf); err != nil {
		c.logger.Warn("submit failed", "err", err)
		return false
	}

	if signalOut != nil {
		sem, err := queue.InsertSemaphore()
		if err != nil {
			c.logger.Warn("insert semaphore failed", "err", err)
		} else {
			*signalOut = sem
		}
	}

	c.cache.AdvanceFrameAndPurge()
	c.frame++
	c.checkpoints = append(c.checkpoints, frameCheckpoint{frame: c.frame, at: time.Now()})
	return true
}

// Submit drains the device queue. When syncCpu is true it blocks until
// every submission so far has completed on the GPU; otherwise it is a
// no-op beyond what the backend already guarantees for emission order.
func (c *Context) Submit(syncCpu bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if !syncCpu {
		return true
	}
	if err := c.gpuDevice.Queue().WaitUntilCompleted(); err != nil {
		c.logger.Warn("submit: wait until completed failed", "err", err)
		return false
	}
	return true
}

// FlushAndSubmit is the literal composition of Flush and Submit. It reports
// true only when Flush submitted work and Submit succeeded.
func (c *Context) FlushAndSubmit(syncCpu bool) bool {
	flushed := c.Flush(nil)
	submitted := c.Submit(syncCpu)
	return flushed && submitted
}

// MemoryUsage returns total bytes held by the resource cache, purgeable
// and pinned.
func (c *Context) MemoryUsage() uint64 { return c.cache.MemoryUsage() }

// PurgeableBytes returns bytes the resource cache could recover by
// eviction right now.
func (c *Context) PurgeableBytes() uint64 { return c.cache.PurgeableBytes() }

// CacheLimit returns the resource cache's current byte budget.
func (c *Context) CacheLimit() uint64 { return c.cache.CacheLimit() }

// SetCacheLimit updates the resource cache's byte budget, evicting
// purgeable entries immediately if the new limit is below current usage.
func (c *Context) SetCacheLimit(bytes uint64) { c.cache.SetCacheLimit(bytes) }

// ResourceExpirationFrames returns the number of flushes an unreferenced
// resource survives before natural expiration.
func (c *Context) ResourceExpirationFrames() uint64 { return c.cache.ResourceExpirationFrames() }

// SetResourceExpirationFrames updates the expiration window.
func (c *Context) SetResourceExpirationFrames(n uint64) { c.cache.SetResourceExpirationFrames(n) }

// PurgeResourcesNotUsedSince drops purgeable resources last used before t,
// for low-memory callbacks that cannot wait for natural expiration. Since
// the cache only tracks frame numbers internally, t is translated through
// the checkpoint recorded at the most recent Flush at or before t.
func (c *Context) PurgeResourcesNotUsedSince(t time.Time) {
	c.mu.Lock()
	frame := c.frameForTimeLocked(t)
	c.mu.Unlock()
	c.cache.PurgeNotUsedSince(frame)
}

// PurgeResourcesUntilMemoryTo drops purgeable resources, least-recently-used
// first, until usage is at or below bytes. Reports whether the goal was
// reached.
func (c *Context) PurgeResourcesUntilMemoryTo(bytes uint64) bool {
	return c.cache.PurgeUntilMemoryTo(bytes)
}

// Close releases every resource this Context owns: the global cache's
// shared pipelines/index buffers/gradients, then every resource cache
// entry, pinned or not. A lost device leaves prior draws as no-ops;
// resources are released only here, at context destruction.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.global.Close()
	c.cache.Close()
	return nil
}

// frameForTimeLocked returns the highest recorded checkpoint frame at or
// before t, or 0 if no checkpoint qualifies (nothing purges). Caller holds
// c.mu.
func (c *Context) frameForTimeLocked(t time.Time) uint64 {
	var frame uint64
	for _, cp := range c.checkpoints {
		if cp.at.After(t) {
			break
		}
		frame = cp.frame
	}
	return frame
}

// deviceProgramCreator adapts gpu.GPU to globalcache.ProgramCreator: every
// backend compiles pipelines the same way, through gpu.GPU.CreateRenderPipeline,
// so one creator serves all three backends.
type deviceProgramCreator struct {
	device gpu.GPU
}

func newProgramCreator(device gpu.GPU) *deviceProgramCreator {
	return &deviceProgramCreator{device: device}
}

func (c *deviceProgramCreator) Key(desc gpu.RenderPipelineDescriptor) globalcache.ProgramKey {
	return globalcache.HashDescriptor(desc)
}

func (c *deviceProgramCreator) Create(desc gpu.RenderPipelineDescriptor) (*gpu.RenderPipeline, error) {
	return c.device.CreateRenderPipeline(desc)
}
