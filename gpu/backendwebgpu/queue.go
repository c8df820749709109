package backendwebgpu

import (
	"context"
	"fmt"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/tgfx-gpu/tgfx/gpu"
)

// Queue implements gpu.CommandQueue over the host device's wgpu queue.
type Queue struct {
	deviceID core.DeviceID
	queueID  core.QueueID
}

func (q *Queue) Submit(buf *gpu.CommandBuffer) error {
	cmdID, ok := buf.Opaque().(core.CommandBufferID)
	if !ok {
		return fmt.Errorf("backendwebgpu: submit: %w", gpu.ErrInvalidDescriptor)
	}
	if err := core.QueueSubmit(q.queueID, []core.CommandBufferID{cmdID}); err != nil {
		return fmt.Errorf("backendwebgpu: submit: %w", err)
	}
	return nil
}

func (q *Queue) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("backendwebgpu: write buffer: %w", gpu.ErrNilResource)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("backendwebgpu: write buffer: %w", gpu.ErrCopyOutOfBounds)
	}
	if err := core.QueueWriteBuffer(q.queueID, b.id, offset, data); err != nil {
		return fmt.Errorf("backendwebgpu: write buffer: %w", err)
	}
	return nil
}

func (q *Queue) WriteTexture(texture gpu.Texture, rect gpu.Rect, pixels []byte, rowBytes uint32) error {
	t, ok := texture.(*Texture)
	if !ok {
		return fmt.Errorf("backendwebgpu: write texture: %w", gpu.ErrNilResource)
	}
	dst := &types.ImageCopyTexture{Texture: t.id, Origin: types.Origin3D{X: uint32(rect.X), Y: uint32(rect.Y)}}
	layout := types.TextureDataLayout{BytesPerRow: rowBytes, RowsPerImage: uint32(rect.H)}
	size := types.Extent3D{Width: uint32(rect.W), Height: uint32(rect.H), DepthOrArrayLayers: 1}
	if err := core.QueueWriteTexture(q.queueID, dst, pixels, layout, size); err != nil {
		return fmt.Errorf("backendwebgpu: write texture: %w", err)
	}
	return nil
}

func (q *Queue) InsertSemaphore() (gpu.Semaphore, error) {
	fenceID, err := core.QueueInsertFence(q.queueID)
	if err != nil {
		return nil, fmt.Errorf("backendwebgpu: insert semaphore: %w", err)
	}
	return &semaphore{deviceID: q.deviceID, id: fenceID}, nil
}

func (q *Queue) WaitSemaphore(sem gpu.Semaphore) error {
	s, ok := sem.(*semaphore)
	if !ok {
		return fmt.Errorf("backendwebgpu: wait semaphore: %w", gpu.ErrInvalidDescriptor)
	}
	if err := core.QueueWaitFence(q.queueID, s.id); err != nil {
		return fmt.Errorf("backendwebgpu: wait semaphore: %w", err)
	}
	return nil
}

func (q *Queue) WaitUntilCompleted() error {
	if err := core.DevicePoll(q.deviceID, true); err != nil {
		return fmt.Errorf("backendwebgpu: wait until completed: %w", err)
	}
	return nil
}

// semaphore wraps a wgpu fence handle, polling the device on Wait rather
// than blocking the OS thread: spec §7 requires Wait to honor ctx
// cancellation, which a pure blocking driver call cannot do.
type semaphore struct {
	deviceID core.DeviceID
	id       core.FenceID
}

func (s *semaphore) Wait(ctx context.Context) error {
	for {
		done, err := core.FencePoll(s.deviceID, s.id)
		if err != nil {
			return fmt.Errorf("backendwebgpu: semaphore wait: %w", err)
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := core.DevicePoll(s.deviceID, false); err != nil {
			return fmt.Errorf("backendwebgpu: semaphore wait: %w", err)
		}
	}
}
