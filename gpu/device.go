package gpu

import "github.com/gogpu/gpucontext"

// DeviceProvider supplies an already-created platform device and queue
// handle to a backend. The core never constructs a platform device itself
// (spec §1 Non-goals: "platform device creation" is a host responsibility);
// every gpu.GPU backend is handed one of these at construction time instead
// of calling into an adapter-request API on its own (spec §6
// "Context::new(device, gpu)").
type DeviceProvider interface {
	// Device returns the host-created device handle. Its Raw method
	// exposes the backend-native identifier (e.g. a wgpu core.DeviceID)
	// that a concrete backend package type-asserts to what it expects;
	// its Adapter method exposes the adapter handle the device was
	// created from, used only for diagnostics.
	Device() *gpucontext.Device

	// Queue returns the host-created command queue handle paired with
	// Device. Its Raw method exposes the backend-native queue
	// identifier (e.g. a wgpu core.QueueID).
	Queue() *gpucontext.Queue
}
