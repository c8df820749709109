package ops

import "github.com/tgfx-gpu/tgfx/gpu"

// ClipKind enumerates the four ways a pending batch's clip state can be
// realized at draw time (spec §4.5 clip handling).
type ClipKind int

const (
	// ClipNone applies no restriction.
	ClipNone ClipKind = iota
	// ClipScissor restricts draws to an axis-aligned integer rectangle via
	// the render pass's scissor rect.
	ClipScissor
	// ClipAARect marks an antialiased rectangle clip. The compositor applies
	// its Rect through the scissor test only; no per-pixel coverage term is
	// evaluated in the fragment stage.
	ClipAARect
	// ClipMask restricts draws by a coverage mask texture, for clip shapes
	// that are neither a plain rect nor representable by the scissor test
	// (rounded rects, paths, clip stacks), identified by MaskKey. The
	// compositor neither rasterizes nor samples a mask; it applies only the
	// clip's Rect through the scissor test.
	ClipMask
)

// Clip is the clip state attached to a pending draw. Two Clips are
// structurally equal (for batching purposes) when their Kind and
// discriminating fields match; MaskKey is the content identity of a
// rasterized clip-mask texture, shared across draws that apply the same
// clip shape.
type Clip struct {
	Kind    ClipKind
	Rect    gpu.Rect
	AA      bool
	MaskKey [32]byte
}

// Equal reports whether c and other are batch-compatible: the same clip
// kind with the same discriminating geometry (spec §4.5 Batch
// compatibility test: "structurally equal clip paths").
func (c Clip) Equal(other Clip) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ClipNone:
		return true
	case ClipScissor, ClipAARect:
		return c.Rect == other.Rect && c.AA == other.AA
	case ClipMask:
		return c.MaskKey == other.MaskKey
	default:
		return false
	}
}

// ScissorBounds returns the integer scissor rectangle this clip implies,
// and whether a scissor rect applies at all. ClipScissor, ClipAARect and
// ClipMask return Rect as it is (it is already in whole pixels); ClipNone
// applies no scissor.
func (c Clip) ScissorBounds() (gpu.Rect, bool) {
	switch c.Kind {
	case ClipScissor, ClipAARect, ClipMask:
		return c.Rect, true
	default:
		return gpu.Rect{}, false
	}
}
