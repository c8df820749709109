package task

import (
	"fmt"
	"log/slog"

	"github.com/tgfx-gpu/tgfx/globalcache"
	"github.com/tgfx-gpu/tgfx/gpu"
	"github.com/tgfx-gpu/tgfx/resource"
)

// DrawingManager owns the ordered task graph for one Context: tasks are
// appended as draws are recorded, and Flush walks them exactly once,
// isolating a failed task's effect to its dependents (spec §4.4).
type DrawingManager struct {
	tasks  []Task
	logger *slog.Logger
}

// New creates an empty DrawingManager.
func New(logger *slog.Logger) *DrawingManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &DrawingManager{logger: logger}
}

// Append adds t to the end of the task graph, in emission order.
func (m *DrawingManager) Append(t Task) { m.tasks = append(m.tasks, t) }

// RunImmediate executes t against g/cache/global right away instead of
// deferring it to the next Flush, for callers drawing with
// gpu.RenderFlagDisableAsyncTask set (spec §6 RenderFlags). Only tasks that
// do not touch ExecContext.Encoder are safe to run this way; resource
// tasks (texture/buffer uploads) qualify, render tasks do not and must
// still go through Append.
func (m *DrawingManager) RunImmediate(t Task, g gpu.GPU, cache *resource.Cache, global *globalcache.GlobalCache) error {
	ec := &ExecContext{Queue: g.Queue(), Cache: cache, Global: global, Logger: m.logger}
	if err := runSafely(t, ec); err != nil {
		return fmt.Errorf("drawing manager: run immediate: %w", err)
	}
	return nil
}

// Pending reports whether any task is queued.
func (m *DrawingManager) Pending() bool { return len(m.tasks) > 0 }

// Flush walks every queued task once, in emission order. A ResourceTask
// that fails marks its proxy failed so dependent render tasks skip
// instead of aborting the flush. On success, the encoder is finished into
// a CommandBuffer and returned for the caller (Context.Flush) to submit.
func (m *DrawingManager) Flush(g gpu.GPU, cache *resource.Cache, global *globalcache.GlobalCache) (*gpu.CommandBuffer, error) {
	if len(m.tasks) == 0 {
		return nil, nil
	}

	encoder, err := g.NewCommandEncoder("flush")
	if err != nil {
		return nil, fmt.Errorf("drawing manager: flush: new encoder: %w", err)
	}

	ec := &ExecContext{Encoder: encoder, Queue: g.Queue(), Cache: cache, Global: global, Logger: m.logger}

	for _, t := range m.tasks {
		if dep, ok := t.(Dependent); ok && dep.DependencyFailed() {
			m.logger.Warn("skipping task with failed dependency")
			continue
		}
		if err := runSafely(t, ec); err != nil {
			m.logger.Warn("task execution failed", "err", err)
			continue
		}
	}

	m.tasks = m.tasks[:0]

	buf, err := encoder.Finish()
	if err != nil {
		return nil, fmt.Errorf("drawing manager: flush: finish: %w", err)
	}
	if global != nil {
		global.EndFlush()
	}
	return buf, nil
}
