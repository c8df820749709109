package resource

import (
	"container/list"
	"sync"
)

// Default budget and expiration window (spec §4.2 Policy).
const (
	DefaultCacheLimitBytes  = 512 * 1024 * 1024
	DefaultExpirationFrames = 120
)

// entry is the cache's bookkeeping wrapper around one Resource.
type entry struct {
	resource Resource

	hasScratchKey bool
	scratchKey    ScratchKey

	hasUniqueKey bool
	uniqueKey    UniqueKey

	refCount      int32
	lastUsedFrame uint64

	// purgeableElem is non-nil exactly when refCount == 0; it is this
	// entry's node in purgeableLRU, front = most recently used.
	purgeableElem *list.Element
}

// Handle is a live reference to a cached Resource. Callers obtained a
// Handle from Find or AddToCache and must call Unref exactly once when
// finished, mirroring the proxy's release of its resolved resource.
type Handle struct {
	cache *Cache
	e     *entry
}

// Resource returns the underlying cached object.
func (h *Handle) Resource() Resource { return h.e.resource }

// Unref releases this reference. When the last reference is released the
// resource becomes purgeable (spec: processUnreferencedResources).
func (h *Handle) Unref() { h.cache.unref(h.e) }

// Cache is the per-Context ResourceCache (spec §4.2).
type Cache struct {
	mu sync.Mutex

	budgetBytes      uint64
	usedBytes        uint64
	expirationFrames uint64
	frame            uint64

	scratch map[ScratchKey][]*entry
	unique  map[UniqueKey]*entry

	// purgeableLRU orders entries with refCount == 0, front = most
	// recently used, back = eviction candidate.
	purgeableLRU *list.List

	all map[*entry]struct{}
}

// New creates a ResourceCache with the given byte budget and expiration
// window. A budgetBytes or expirationFrames of 0 falls back to the spec
// defaults.
func New(budgetBytes uint64, expirationFrames uint64) *Cache {
	if budgetBytes == 0 {
		budgetBytes = DefaultCacheLimitBytes
	}
	if expirationFrames == 0 {
		expirationFrames = DefaultExpirationFrames
	}
	return &Cache{
		budgetBytes:      budgetBytes,
		expirationFrames: expirationFrames,
		scratch:          make(map[ScratchKey][]*entry),
		unique:           make(map[UniqueKey]*entry),
		purgeableLRU:     list.New(),
		all:              make(map[*entry]struct{}),
	}
}

// Find returns a purgeable resource matching scratchKey, re-pinning it
// (refCount 1) and marking it in-use for the current frame. Returns
// (nil, false) if no purgeable match exists.
func (c *Cache) Find(key ScratchKey) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.scratch[key] {
		if e.purgeableElem == nil {
			continue // already pinned elsewhere
		}
		c.purgeableLRU.Remove(e.purgeableElem)
		e.purgeableElem = nil
		e.refCount = 1
		e.lastUsedFrame = c.frame
		return &Handle{cache: c, e: e}, true
	}
	return nil, false
}

// FindUnique returns the resource pinned under uniqueKey, incrementing its
// reference count. Returns (nil, false) if no such resource exists.
func (c *Cache) FindUnique(key UniqueKey) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.unique[key]
	if !ok {
		return nil, false
	}
	if e.purgeableElem != nil {
		c.purgeableLRU.Remove(e.purgeableElem)
		e.purgeableElem = nil
	}
	e.refCount++
	e.lastUsedFrame = c.frame
	return &Handle{cache: c, e: e}, true
}

// AddToCache inserts r under the given keys (either may be nil if unused)
// with an initial reference count of 1, evicting LRU purgeable
// entries until the cache is within budget.
func (c *Cache) AddToCache(r Resource, scratchKey *ScratchKey, uniqueKey *UniqueKey) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{resource: r, refCount: 1, lastUsedFrame: c.frame}
	if scratchKey != nil {
		e.hasScratchKey = true
		e.scratchKey = *scratchKey
		c.scratch[e.scratchKey] = append(c.scratch[e.scratchKey], e)
	}
	if uniqueKey != nil {
		e.hasUniqueKey = true
		e.uniqueKey = *uniqueKey
		c.unique[e.uniqueKey] = e
	}
	c.all[e] = struct{}{}
	c.usedBytes += r.ByteSize()

	c.evictLocked(c.budgetBytes)

	return &Handle{cache: c, e: e}
}

func (c *Cache) unref(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.refCount <= 0 {
		return
	}
	e.refCount--
	if e.refCount > 0 {
		return
	}
	// processUnreferencedResources: no external holders left, move to the
	// purgeable list as most-recently-used.
	e.purgeableElem = c.purgeableLRU.PushFront(e)
}

// AdvanceFrameAndPurge increments the frame counter and removes purgeable
// entries whose framesSinceLastUse has reached expirationFrames. Per spec
// policy, call this only after a non-empty flush; empty flushes must not
// advance the counter.
func (c *Cache) AdvanceFrameAndPurge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame++

	for el := c.purgeableLRU.Back(); el != nil; {
		e := el.Value.(*entry)
		prev := el.Prev()
		if c.frame-e.lastUsedFrame >= c.expirationFrames {
			c.removeLocked(e)
		}
		el = prev
	}
}

// PurgeNotUsedSince drops purgeable entries last used before frame
// threshold, for low-memory callbacks that cannot wait for natural
// expiration.
func (c *Cache) PurgeNotUsedSince(frameThreshold uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.purgeableLRU.Back(); el != nil; {
		e := el.Value.(*entry)
		prev := el.Prev()
		if e.lastUsedFrame < frameThreshold {
			c.removeLocked(e)
		}
		el = prev
	}
}

// PurgeUntilMemoryTo drops purgeable entries, least-recently-used first,
// until usedBytes is at or below bytesLimit. Reports whether the goal was
// reached (false means every purgeable entry was dropped and the cache is
// still over bytesLimit because the remainder is pinned).
func (c *Cache) PurgeUntilMemoryTo(bytesLimit uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictLocked(bytesLimit)
	return c.usedBytes <= bytesLimit
}

// evictLocked drops purgeable entries, oldest first, until usedBytes is at
// or below limit or no purgeable entries remain. Caller holds c.mu.
func (c *Cache) evictLocked(limit uint64) {
	for c.usedBytes > limit {
		el := c.purgeableLRU.Back()
		if el == nil {
			return
		}
		c.removeLocked(el.Value.(*entry))
	}
}

// removeLocked fully removes e from every index and destroys its
// resource. Caller holds c.mu; e must currently be purgeable.
func (c *Cache) removeLocked(e *entry) {
	if e.purgeableElem != nil {
		c.purgeableLRU.Remove(e.purgeableElem)
		e.purgeableElem = nil
	}
	if e.hasScratchKey {
		siblings := c.scratch[e.scratchKey]
		for i, s := range siblings {
			if s == e {
				siblings = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		if len(siblings) == 0 {
			delete(c.scratch, e.scratchKey)
		} else {
			c.scratch[e.scratchKey] = siblings
		}
	}
	if e.hasUniqueKey {
		delete(c.unique, e.uniqueKey)
	}
	delete(c.all, e)
	c.usedBytes -= e.resource.ByteSize()
	e.resource.Destroy()
}

// MemoryUsage returns total bytes held by purgeable and pinned resources.
func (c *Cache) MemoryUsage() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedBytes
}

// PurgeableBytes returns bytes recoverable by eviction.
func (c *Cache) PurgeableBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total uint64
	for el := c.purgeableLRU.Front(); el != nil; el = el.Next() {
		total += el.Value.(*entry).resource.ByteSize()
	}
	return total
}

// CacheLimit returns the current byte budget.
func (c *Cache) CacheLimit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budgetBytes
}

// SetCacheLimit updates the byte budget, evicting purgeable entries
// immediately if the new limit is below current usage (spec §6
// setCacheLimit).
func (c *Cache) SetCacheLimit(bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.budgetBytes = bytes
	c.evictLocked(c.budgetBytes)
}

// ResourceExpirationFrames returns the current expiration window.
func (c *Cache) ResourceExpirationFrames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expirationFrames
}

// SetResourceExpirationFrames updates the expiration window.
func (c *Cache) SetResourceExpirationFrames(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expirationFrames = n
}

// Close destroys every resource, pinned or not. Callers must ensure no
// Handles remain outstanding.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := range c.all {
		if e.purgeableElem != nil {
			c.purgeableLRU.Remove(e.purgeableElem)
		}
		e.resource.Destroy()
	}
	c.scratch = make(map[ScratchKey][]*entry)
	c.unique = make(map[UniqueKey]*entry)
	c.all = make(map[*entry]struct{})
	c.purgeableLRU.Init()
	c.usedBytes = 0
}
