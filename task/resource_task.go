package task

import (
	"fmt"

	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/proxy"
	"github.com/tgfx-gpu/tgfx/resource"
)

// TextureUploadTask allocates (or reuses, by scratch key) the backing
// texture for a TextureProxy and uploads CPU pixel data into it.
type TextureUploadTask struct {
	Target     *proxy.TextureProxy
	ScratchKey *resource.ScratchKey
	Descriptor gpu.TextureDescriptor
	Pixels     []byte
	RowBytes   uint32
	GPU        gpu.GPU

	// Flags carries the draw's render flags. RenderFlagDisableCache skips
	// both the scratch-key reuse lookup below and registration of the
	// newly allocated texture under that key, so this draw neither reads
	// nor pollutes the shared cache (spec §6 RenderFlags).
	Flags gpu.RenderFlags
}

func (t *TextureUploadTask) Execute(ec *ExecContext) error {
	if t.ScratchKey != nil && t.Flags&gpu.RenderFlagDisableCache == 0 {
		if h, ok := ec.Cache.Find(*t.ScratchKey); ok {
			tex := h.Resource().(gpu.Texture)
			if err := ec.Queue.WriteTexture(tex, gpu.Rect{W: int32(t.Descriptor.Width), H: int32(t.Descriptor.Height)}, t.Pixels, t.RowBytes); err != nil {
				t.Target.Fail()
				return fmt.Errorf("texture upload: reuse write: %w", err)
			}
			t.Target.Resolve(h, tex)
			return nil
		}
	}

	tex, err := t.GPU.CreateTexture(t.Descriptor)
	if err != nil {
		t.Target.Fail()
		return fmt.Errorf("texture upload: create: %w", err)
	}
	if err := ec.Queue.WriteTexture(tex, gpu.Rect{W: int32(t.Descriptor.Width), H: int32(t.Descriptor.Height)}, t.Pixels, t.RowBytes); err != nil {
		tex.Destroy()
		t.Target.Fail()
		return fmt.Errorf("texture upload: write: %w", err)
	}

	scratchKey := t.ScratchKey
	if t.Flags&gpu.RenderFlagDisableCache != 0 {
		scratchKey = nil
	}
	h := ec.Cache.AddToCache(tex, scratchKey, uniqueKeyPtr(t.Target.UniqueKey()))
	t.Target.Resolve(h, tex)
	return nil
}

// GPUBufferUploadTask allocates (or reuses) the backing buffer for a
// BufferProxy and uploads CPU data into it.
type GPUBufferUploadTask struct {
	Target     *proxy.BufferProxy
	ScratchKey *resource.ScratchKey
	Size       uint64
	Usage      gpu.BufferUsage
	Data       []byte
	GPU        gpu.GPU

	// Flags carries the draw's render flags; see TextureUploadTask.Flags.
	Flags gpu.RenderFlags
}

func (t *GPUBufferUploadTask) Execute(ec *ExecContext) error {
	if t.ScratchKey != nil && t.Flags&gpu.RenderFlagDisableCache == 0 {
		if h, ok := ec.Cache.Find(*t.ScratchKey); ok {
			buf := h.Resource().(*bufferResource).Buffer
			if len(t.Data) > 0 {
				if err := ec.Queue.WriteBuffer(buf, 0, t.Data); err != nil {
					t.Target.Fail()
					return fmt.Errorf("buffer upload: reuse write: %w", err)
				}
			}
			t.Target.Resolve(h, buf)
			return nil
		}
	}

	buf, err := t.GPU.CreateBuffer(t.Size, t.Usage)
	if err != nil {
		t.Target.Fail()
		return fmt.Errorf("buffer upload: create: %w", err)
	}
	if len(t.Data) > 0 {
		if err := ec.Queue.WriteBuffer(buf, 0, t.Data); err != nil {
			buf.Destroy()
			t.Target.Fail()
			return fmt.Errorf("buffer upload: write: %w", err)
		}
	}
	scratchKey := t.ScratchKey
	if t.Flags&gpu.RenderFlagDisableCache != 0 {
		scratchKey = nil
	}
	h := ec.Cache.AddToCache(&bufferResource{Buffer: buf}, scratchKey, uniqueKeyPtr(t.Target.UniqueKey()))
	t.Target.Resolve(h, buf)
	return nil
}

// MeshVertexUploadTask uploads interleaved vertex data for one OpsRenderTask's
// batched DrawOps. Grounded on the same upload path as GPUBufferUploadTask,
// kept distinct per spec §4.4's task-kind taxonomy. The buffer is
// registered under the proxy's unique key only, with no scratch key.
type MeshVertexUploadTask struct {
	Target *proxy.BufferProxy
	Data   []byte
	GPU    gpu.GPU
}

func (t *MeshVertexUploadTask) Execute(ec *ExecContext) error {
	inner := &GPUBufferUploadTask{Target: t.Target, Size: uint64(len(t.Data)), Usage: gpu.BufferUsageVertex, Data: t.Data, GPU: t.GPU}
	return inner.Execute(ec)
}

// MeshIndexUploadTask uploads index data for one OpsRenderTask's batched
// DrawOps.
type MeshIndexUploadTask struct {
	Target *proxy.BufferProxy
	Data   []byte
	GPU    gpu.GPU
}

func (t *MeshIndexUploadTask) Execute(ec *ExecContext) error {
	inner := &GPUBufferUploadTask{Target: t.Target, Size: uint64(len(t.Data)), Usage: gpu.BufferUsageIndex, Data: t.Data, GPU: t.GPU}
	return inner.Execute(ec)
}

// ReadbackBufferCreateTask allocates a READBACK-usage buffer a later
// CommandEncoder.CopyTextureToBuffer call will populate; the caller maps
// it only after the submission containing that copy has completed.
type ReadbackBufferCreateTask struct {
	Target *proxy.BufferProxy
	Size   uint64
	GPU    gpu.GPU
}

func (t *ReadbackBufferCreateTask) Execute(ec *ExecContext) error {
	buf, err := t.GPU.CreateBuffer(t.Size, gpu.BufferUsageReadback)
	if err != nil {
		t.Target.Fail()
		return fmt.Errorf("readback buffer create: %w", err)
	}
	h := ec.Cache.AddToCache(&bufferResource{Buffer: buf}, nil, uniqueKeyPtr(t.Target.UniqueKey()))
	t.Target.Resolve(h, buf)
	return nil
}

func uniqueKeyPtr(k resource.UniqueKey) *resource.UniqueKey { return &k }

// bufferResource adapts gpu.Buffer (which reports its size via Size, not
// ByteSize) to resource.Resource so it can live in the shared ResourceCache.
type bufferResource struct{ gpu.Buffer }

func (r *bufferResource) ByteSize() uint64 { return r.Buffer.Size() }
