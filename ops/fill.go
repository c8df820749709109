// Package ops implements the OpsCompositor: a per-render-target state
// machine that batches consecutive compatible draws into a single DrawOp
// (spec §4.5).
//
// Grounded on gogpu-gg's internal/blend/porter_duff.go BlendMode dispatch
// and render/target.go's per-target draw accumulation, generalized into
// the spec's explicit pending-op state machine with batch-compatibility
// testing and a clear-as-draw fast path.
package ops

import "github.com/tgfx-gpu/tgfx/gpu"

// BlendMode enumerates the Porter-Duff compositing modes a Fill may use.
type BlendMode int

const (
	BlendModeSrcOver BlendMode = iota
	BlendModeSrc
	BlendModeDst
	BlendModeDstOver
	BlendModeSrcIn
	BlendModeDstIn
	BlendModeSrcOut
	BlendModeDstOut
	BlendModeSrcAtop
	BlendModeDstAtop
	BlendModeXor
	BlendModePlus
	BlendModeModulate
	BlendModeScreen
	BlendModeMultiply
)

// NeedsDestinationRead reports whether this blend mode must read the
// current destination color, which forces a destination-texture copy on
// backends without framebuffer fetch (spec §4.5 Destination-texture
// requirement).
func (m BlendMode) NeedsDestinationRead() bool {
	switch m {
	case BlendModeSrc, BlendModeSrcOver:
		return false
	default:
		return true
	}
}

// Shader produces a per-pixel source color (a paint shader, e.g. a
// gradient or image shader). Identity is compared by ShaderKey equality;
// CompareFill treats two nil Shaders as equivalent.
type Shader interface {
	// ShaderKey returns a stable identity for batching comparisons.
	ShaderKey() any
}

// ColorFilter transforms the shader's output color before compositing.
type ColorFilter interface {
	ColorFilterKey() any
}

// MaskFilter modulates per-pixel coverage (e.g. blur) before compositing.
type MaskFilter interface {
	MaskFilterKey() any
}

// Fill is the paint state attached to a draw: antialiasing, blend mode,
// and the optional shader/color-filter/mask-filter chain.
type Fill struct {
	AntiAlias   bool
	BlendMode   BlendMode
	Color       gpu.Color
	Shader      Shader
	ColorFilter ColorFilter
	MaskFilter  MaskFilter
}

// CompareFill reports whether a and b are equivalent for batching
// purposes: identical antialias flag and blend mode, and equivalent
// shader/colorFilter/maskFilter by identity or key equality (spec §4.5
// Batch compatibility test).
func CompareFill(a, b Fill) bool {
	if a.AntiAlias != b.AntiAlias || a.BlendMode != b.BlendMode {
		return false
	}
	if !keysEqual(shaderKey(a.Shader), shaderKey(b.Shader)) {
		return false
	}
	if !keysEqual(colorFilterKey(a.ColorFilter), colorFilterKey(b.ColorFilter)) {
		return false
	}
	if !keysEqual(maskFilterKey(a.MaskFilter), maskFilterKey(b.MaskFilter)) {
		return false
	}
	return true
}

func shaderKey(s Shader) any {
	if s == nil {
		return nil
	}
	return s.ShaderKey()
}

func colorFilterKey(c ColorFilter) any {
	if c == nil {
		return nil
	}
	return c.ColorFilterKey()
}

func maskFilterKey(m MaskFilter) any {
	if m == nil {
		return nil
	}
	return m.MaskFilterKey()
}

func keysEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
