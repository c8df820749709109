package gg

import "log/slog"

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := gg.New(device,
//	    gg.WithCacheLimit(256*1024*1024),
//	    gg.WithResourceExpirationFrames(60),
//	)
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation. A zero
// cache limit or expiration falls back to resource.Cache's own defaults; a
// nil logger falls back to Logger().
type contextOptions struct {
	cacheLimitBytes          uint64
	resourceExpirationFrames uint64
	logger                   *slog.Logger
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{}
}

// WithCacheLimit sets the resource cache's byte budget. Zero falls back to
// resource.DefaultCacheLimitBytes.
func WithCacheLimit(bytes uint64) ContextOption {
	return func(o *contextOptions) {
		o.cacheLimitBytes = bytes
	}
}

// WithResourceExpirationFrames sets the number of flushes an unreferenced
// resource survives before natural expiration. Zero falls back to
// resource.DefaultExpirationFrames.
func WithResourceExpirationFrames(n uint64) ContextOption {
	return func(o *contextOptions) {
		o.resourceExpirationFrames = n
	}
}

// WithLogger attaches a logger to this Context only, overriding the
// package-level logger set via SetLogger.
func WithLogger(l *slog.Logger) ContextOption {
	return func(o *contextOptions) {
		o.logger = l
	}
}
