// Package gg is the GPU abstraction and rendering core of TGFX: the
// pipeline that turns an ordered stream of high-level 2D drawing calls into
// minimized, batched GPU command sequences submitted through a uniform
// backend interface fanning out to OpenGL, Metal, or WebGPU.
//
// # Overview
//
// A Context owns everything scoped to one GPU device: a resource cache
// keyed by content (scratch key) and identity (unique key), a proxy/task
// graph that defers resource creation and uploads into a topologically
// ordered flush, and a global cache of shared pipelines, index buffers, and
// gradient LUTs.
//
//	device, _ := backendwebgpu.New(provider, nil)
//	ctx, err := gg.New(device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	// ... append draws via ctx.NewCompositor(target, sampleCount) ...
//
//	ctx.FlushAndSubmit(true)
//
// # Scope
//
// The public Canvas API, path tessellation, font shaping, SVG parse/export,
// layer trees, the inspector/profiler protocol, platform device creation,
// and image decode are external collaborators layered on top of this core;
// none of them live in this package.
//
// # Backends
//
// gpu/backendwebgpu, gpu/backendgl, and gpu/backendmtl each implement
// gpu.GPU against a host-supplied gpu.DeviceProvider. A Context is
// backend-agnostic: it only ever calls through the gpu.GPU interface.
//
// # Concurrency
//
// A Context assumes single-threaded cooperative scheduling on whichever
// goroutine holds its device lock. It is not safe for concurrent use from
// more than one goroutine.
package gg
