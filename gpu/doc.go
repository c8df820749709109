// Copyright 2026 The tgfx Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu exposes the backend-agnostic GPU abstraction layer: textures,
// buffers, render targets, command encoders, command queues, render passes,
// and pipelines whose contracts are identical whether the concrete backend
// is OpenGL, Metal, or WebGPU (see the gpu/backendgl, gpu/backendmtl, and
// gpu/backendwebgpu subpackages).
//
// Concrete backends implement the GPU interface and are handed to the core
// as a GPU value; callers never type-assert back to a backend-specific type.
package gpu
