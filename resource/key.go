// Package resource implements the per-Context ResourceCache: the owner of
// every GPU object whose creation is non-trivial, keyed both by content
// (ScratchKey) and by externally chosen identity (UniqueKey), bounded by a
// byte budget and a frames-since-last-use expiration window.
//
// Grounded on gogpu-gg's internal/gpu/memory.go container/list LRU and
// internal/cache/cache.go's generic soft-limit cache, generalized from a
// single texture-only manager into the two-key, byte-budgeted cache the
// spec's resource model requires.
package resource

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"
)

// ScratchKey is a content hash of a resource's shape: type tag, dimensions,
// format, sample count, and any other attribute that makes two resources
// fungible. Two resources with equal ScratchKeys may be swapped for one
// another by the cache.
type ScratchKey [sha256.Size]byte

// ScratchKeyBuilder accumulates fields into a stable ScratchKey. Fields must
// be appended in a fixed order by callers so that equal shapes always hash
// to the same key.
type ScratchKeyBuilder struct {
	h []byte
}

// NewScratchKeyBuilder starts a new key for the given type tag.
func NewScratchKeyBuilder(typeTag uint32) *ScratchKeyBuilder {
	b := &ScratchKeyBuilder{h: make([]byte, 0, 32)}
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], typeTag)
	b.h = append(b.h, tmp[:]...)
	return b
}

// AddUint32 appends a 32-bit field to the key.
func (b *ScratchKeyBuilder) AddUint32(v uint32) *ScratchKeyBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.h = append(b.h, tmp[:]...)
	return b
}

// AddUint64 appends a 64-bit field to the key.
func (b *ScratchKeyBuilder) AddUint64(v uint64) *ScratchKeyBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.h = append(b.h, tmp[:]...)
	return b
}

// AddBool appends a boolean field to the key.
func (b *ScratchKeyBuilder) AddBool(v bool) *ScratchKeyBuilder {
	if v {
		b.h = append(b.h, 1)
	} else {
		b.h = append(b.h, 0)
	}
	return b
}

// Build finalizes the key.
func (b *ScratchKeyBuilder) Build() ScratchKey {
	return sha256.Sum256(b.h)
}

// uniqueKeySeq generates process-unique UniqueKey values; callers that need
// stable identity across runs should derive UniqueKeys from their own
// content (e.g. a path's geometry hash) rather than relying on sequence
// order.
var uniqueKeySeq uint64

// UniqueKey is an externally chosen stable identity that pins a resource
// against automatic purge until every holder releases it.
type UniqueKey uint64

// NewUniqueKey allocates a fresh process-unique key.
func NewUniqueKey() UniqueKey {
	return UniqueKey(atomic.AddUint64(&uniqueKeySeq, 1))
}
