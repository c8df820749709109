// Package backendgl implements gpu.GPU for OpenGL ES hosts. It reuses
// gpu/backendwebgpu's device, queue, and resource management (wgpu-native
// runs an OpenGL ES driver underneath on these targets) and overrides only
// shader compilation: WGSL source is cross-compiled to SPIR-V via
// gpu.CompileToSPIRV before pipeline creation, since the GL driver path does
// not accept WGSL text directly (spec §4.1, §9).
package backendgl
