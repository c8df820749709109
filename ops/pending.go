package ops

import "github.com/tgfx-gpu/tgfx/gpu"

// PendingKind identifies the shape of draw currently being accumulated
// into the compositor's pending batch (spec §4.5).
type PendingKind int

const (
	// PendingNone means no batch is open.
	PendingNone PendingKind = iota
	PendingRect
	PendingRRect
	PendingImage
	PendingAtlas
	PendingShape
	PendingUnknown
)

// Per-op maxima before a batch must flush, regardless of compatibility
// (spec §4.5 Flush triggers).
const (
	MaxRectsPerBatch  = 2048
	MaxRRectsPerBatch = 1024
)

// RectRecord is one queued axis-aligned rect draw.
type RectRecord struct {
	Rect  gpu.Rect
	Color gpu.Color
}

// RRectRecord is one queued rounded-rect draw.
type RRectRecord struct {
	Rect    gpu.Rect
	RadiusX float32
	RadiusY float32
	Color   gpu.Color
}
