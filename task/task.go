// Package task implements the DrawingManager's task graph: ResourceTasks
// that instantiate proxies, OpsRenderTasks that execute batched DrawOps
// against a resolved render target, TextureResolveTasks for multisample
// resolve, and RenderTargetCopyTasks for destination-texture-copy blends
// (spec §4.4).
//
// Grounded on gogpu-gg's render/renderer.go ordered-task walk, generalized
// from a single render pass per frame into the spec's multi-kind task
// graph with per-task failure isolation.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/resource"
)

// ExecContext carries everything a Task needs to execute: the in-flight
// command encoder, the device's queue, the owning Context's caches, and a
// logger for non-fatal per-task diagnostics.
type ExecContext struct {
	Encoder *gpu.CommandEncoder
	Queue   gpu.CommandQueue
	Cache   *resource.Cache
	Global  *globalcache.GlobalCache
	Logger  *slog.Logger
	Ctx     context.Context
}

// Task is one node in the DrawingManager's task graph.
type Task interface {
	// Execute runs the task. A non-nil error marks the task failed; the
	// DrawingManager records this against the task's dependents but keeps
	// walking the rest of the graph (spec §4.4 Ordering).
	Execute(ec *ExecContext) error
}

// Dependent is implemented by tasks that must be skipped (not merely
// attempted and allowed to fail) once a resource they depend on has
// already failed to resolve.
type Dependent interface {
	DependencyFailed() bool
}

func (ec *ExecContext) logf(task string, err error) {
	if ec.Logger != nil {
		ec.Logger.Warn("task failed", "task", task, "err", err)
	}
}

// runSafely executes t, recovering a panic from a misbehaving backend
// driver into an error so one task's bug cannot abort the whole flush.
// OpsRenderTask additionally recovers each DrawOp on its own, so a panic
// there drops only that op and the pass still ends.
func runSafely(t Task, ec *ExecContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return t.Execute(ec)
}
