// Package backendmtl implements gpu.GPU for Metal hosts. Like
// gpu/backendgl, it reuses gpu/backendwebgpu's device, queue, and resource
// management and overrides only shader compilation: WGSL is cross-compiled
// to SPIR-V via gpu.CompileToSPIRV, which wgpu-native's Metal driver path
// accepts in place of native MSL (spec §4.1, §9).
package backendmtl
