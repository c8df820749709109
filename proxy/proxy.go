// Package proxy implements ResourceProxy and ProxyProvider: deferred
// handles to GPU resources that let draw construction happen before any
// backing GPU object exists (spec §4.4).
package proxy

import (
	"fmt"
	"sync"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/resource"
)

// Kind distinguishes the resource a proxy ultimately resolves to.
type Kind int

const (
	KindTexture Kind = iota
	KindBuffer
)

// TextureProxy is a deferred handle to a gpu.Texture. Clients build draws
// against a TextureProxy before the GPU object exists; a ResourceTask
// resolves it at flush time.
type TextureProxy struct {
	mu sync.Mutex

	uniqueKey resource.UniqueKey
	width     uint32
	height    uint32
	format    gpu.PixelFormat
	usage     gpu.TextureUsage
	yuv       gpu.YUVFormat

	handle   *resource.Handle
	resolved gpu.Texture
	failed   bool
}

// UniqueKey returns the identity this proxy's backing resource is cached
// under.
func (p *TextureProxy) UniqueKey() resource.UniqueKey { return p.uniqueKey }

// Width and Height report the proxy's expected dimensions, known even
// before the backing resource is instantiated.
func (p *TextureProxy) Width() uint32  { return p.width }
func (p *TextureProxy) Height() uint32 { return p.height }
func (p *TextureProxy) Format() gpu.PixelFormat { return p.format }

// IsInstantiated reports whether the proxy has been resolved to a live
// texture (successfully or not).
func (p *TextureProxy) IsInstantiated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved != nil || p.failed
}

// Failed reports whether the resource task owning this proxy ran and
// failed to produce a texture. Dependent render tasks use this to decide
// whether to skip (spec §4.4 Ordering).
func (p *TextureProxy) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Texture returns the resolved texture. Callers must not call this before
// the owning ResourceTask has executed.
func (p *TextureProxy) Texture() (gpu.Texture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failed {
		return nil, fmt.Errorf("proxy: resolution failed for %q", p.uniqueKey)
	}
	if p.resolved == nil {
		return nil, fmt.Errorf("proxy: texture not yet instantiated")
	}
	return p.resolved, nil
}

// Resolve is called by a ResourceTask once the backing texture exists.
func (p *TextureProxy) Resolve(h *resource.Handle, tex gpu.Texture) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = h
	p.resolved = tex
}

// Fail marks the proxy unresolvable for this flush; dependent render
// tasks must skip without aborting the flush (spec §4.4 Ordering).
func (p *TextureProxy) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = true
}

// Release drops this holder's reference to the backing resource, if any.
func (p *TextureProxy) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		p.handle.Unref()
		p.handle = nil
	}
}

// BufferProxy is a deferred handle to a gpu.Buffer.
type BufferProxy struct {
	mu sync.Mutex

	uniqueKey resource.UniqueKey
	size      uint64
	usage     gpu.BufferUsage

	handle   *resource.Handle
	resolved gpu.Buffer
	failed   bool
}

func (p *BufferProxy) UniqueKey() resource.UniqueKey { return p.uniqueKey }
func (p *BufferProxy) Size() uint64                  { return p.size }

// Failed reports whether the resource task owning this proxy ran and
// failed to produce a buffer.
func (p *BufferProxy) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *BufferProxy) Buffer() (gpu.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failed {
		return nil, fmt.Errorf("proxy: resolution failed for %q", p.uniqueKey)
	}
	if p.resolved == nil {
		return nil, fmt.Errorf("proxy: buffer not yet instantiated")
	}
	return p.resolved, nil
}

func (p *BufferProxy) Resolve(h *resource.Handle, buf gpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = h
	p.resolved = buf
}

func (p *BufferProxy) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = true
}

func (p *BufferProxy) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		p.handle.Unref()
		p.handle = nil
	}
}

// Provider assigns unique keys and builds proxies, and holds the
// resource.Cache that proxies are ultimately resolved against.
type Provider struct {
	cache *resource.Cache
}

// NewProvider creates a ProxyProvider backed by cache.
func NewProvider(cache *resource.Cache) *Provider {
	return &Provider{cache: cache}
}

// Cache returns the resource cache this provider's proxies resolve
// against, so resolution tasks can share the same instance.
func (pr *Provider) Cache() *resource.Cache { return pr.cache }

// CreateTextureProxy allocates a new deferred texture handle.
func (pr *Provider) CreateTextureProxy(width, height uint32, format gpu.PixelFormat, usage gpu.TextureUsage) *TextureProxy {
	return &TextureProxy{
		uniqueKey: resource.NewUniqueKey(),
		width:     width,
		height:    height,
		format:    format,
		usage:     usage,
	}
}

// CreateYUVTextureProxy allocates a deferred handle for a multi-plane
// texture.
func (pr *Provider) CreateYUVTextureProxy(width, height uint32, yuv gpu.YUVFormat) *TextureProxy {
	return &TextureProxy{
		uniqueKey: resource.NewUniqueKey(),
		width:     width,
		height:    height,
		yuv:       yuv,
		usage:     gpu.TextureUsageTextureBinding,
	}
}

// CreateBufferProxy allocates a new deferred buffer handle.
func (pr *Provider) CreateBufferProxy(size uint64, usage gpu.BufferUsage) *BufferProxy {
	return &BufferProxy{uniqueKey: resource.NewUniqueKey(), size: size, usage: usage}
}
