// Package backendwebgpu implements gpu.GPU against a real WebGPU device
// obtained from the host via gpu.DeviceProvider, using
// github.com/gogpu/wgpu/core for adapter/device/queue bindings (spec §4.1,
// §9). WGSL shader source is submitted to the driver as-is: unlike
// gpu/backendgl and gpu/backendmtl, WebGPU consumes WGSL natively and never
// needs the naga cross-compilation step (gpu.CompileToSPIRV).
package backendwebgpu
