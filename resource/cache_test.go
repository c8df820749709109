package resource

import "testing"

type fakeResource struct {
	size      uint64
	destroyed bool
}

func (f *fakeResource) ByteSize() uint64 { return f.size }
func (f *fakeResource) Destroy()         { f.destroyed = true }

func TestFindReusesAfterUnref(t *testing.T) {
	c := New(0, 0)
	key := NewScratchKeyBuilder(1).AddUint32(64).AddUint32(64).Build()

	r := &fakeResource{size: 4096}
	h := c.AddToCache(r, &key, nil)
	h.Unref()

	found, ok := c.Find(key)
	if !ok {
		t.Fatalf("expected to find purgeable resource by scratch key")
	}
	if found.Resource() != r {
		t.Fatalf("expected to reuse the same resource instance")
	}
	found.Unref()
}

func TestFindFailsWhilePinned(t *testing.T) {
	c := New(0, 0)
	key := NewScratchKeyBuilder(1).AddUint32(64).AddUint32(64).Build()

	r := &fakeResource{size: 4096}
	c.AddToCache(r, &key, nil) // never unrefed: stays pinned

	if _, ok := c.Find(key); ok {
		t.Fatalf("expected no purgeable match while the only entry is pinned")
	}
}

func TestAddToCacheEvictsOverBudget(t *testing.T) {
	c := New(100, 0)

	keyA := NewScratchKeyBuilder(1).AddUint32(1).Build()
	keyB := NewScratchKeyBuilder(1).AddUint32(2).Build()

	a := &fakeResource{size: 60}
	ha := c.AddToCache(a, &keyA, nil)
	ha.Unref()

	b := &fakeResource{size: 60}
	hb := c.AddToCache(b, &keyB, nil)
	hb.Unref()

	if !a.destroyed {
		t.Fatalf("expected the older purgeable resource to be evicted over budget")
	}
	if c.MemoryUsage() != 60 {
		t.Fatalf("expected usedBytes == 60, got %d", c.MemoryUsage())
	}
}

func TestAdvanceFrameAndPurgeExpires(t *testing.T) {
	c := New(0, 3)
	key := NewScratchKeyBuilder(1).AddUint32(1).Build()

	r := &fakeResource{size: 16}
	h := c.AddToCache(r, &key, nil)
	h.Unref()

	for i := 0; i < 3; i++ {
		c.AdvanceFrameAndPurge()
	}
	if !r.destroyed {
		t.Fatalf("expected resource to expire after expirationFrames frames")
	}
}

func TestUniqueKeyPinsAcrossFind(t *testing.T) {
	c := New(0, 0)
	uk := NewUniqueKey()

	r := &fakeResource{size: 16}
	h := c.AddToCache(r, nil, &uk)

	found, ok := c.FindUnique(uk)
	if !ok {
		t.Fatalf("expected FindUnique to locate pinned resource")
	}
	found.Unref()
	h.Unref()

	if r.destroyed {
		t.Fatalf("resource should remain purgeable, not destroyed, after unref")
	}
}

func TestPurgeUntilMemoryTo(t *testing.T) {
	c := New(0, 0)
	key := NewScratchKeyBuilder(1).AddUint32(1).Build()

	r := &fakeResource{size: 200}
	h := c.AddToCache(r, &key, nil)
	h.Unref()

	if reached := c.PurgeUntilMemoryTo(100); !reached {
		t.Fatalf("expected purge to reach the byte limit when nothing is pinned")
	}
	if !r.destroyed {
		t.Fatalf("expected resource to be destroyed by PurgeUntilMemoryTo")
	}
}
