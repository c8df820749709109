package resource

// Resource is the common contract every cached GPU object satisfies: a
// byte cost for budget accounting and a Destroy hook the cache calls
// exactly once, at eviction or at Cache.Close.
type Resource interface {
	// ByteSize is the resident memory cost charged against the cache's
	// budget.
	ByteSize() uint64

	// Destroy releases the underlying backend object. The cache guarantees
	// this is called at most once per resource.
	Destroy()
}
