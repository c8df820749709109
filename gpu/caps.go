package gpu

// ShaderCaps describes the per-backend shading language surface. Shader
// source templating consults these fields to emit a valid program for the
// target backend instead of branching on the backend tag directly.
type ShaderCaps struct {
	// VersionDeclString is placed at the top of generated shader source,
	// e.g. "#version 300 es" for GLSL ES 3.0 or "#version 150" for GLSL 3.2.
	VersionDeclString string

	// UsesPrecisionModifiers is true when float types require an explicit
	// precision modifier (lowp/mediump/highp).
	UsesPrecisionModifiers bool

	// FrameBufferFetchSupport is true when the fragment shader can read the
	// current framebuffer contents without a destination-texture copy.
	FrameBufferFetchSupport bool

	// FrameBufferFetchNeedsCustomOutput is true when framebuffer fetch is
	// exposed as an "inout" fragment output rather than a builtin variable.
	FrameBufferFetchNeedsCustomOutput bool

	// FrameBufferFetchColorName is the variable holding the current
	// framebuffer color when FrameBufferFetchSupport is true.
	FrameBufferFetchColorName string

	// FrameBufferFetchExtensionString is the shader extension pragma
	// required to enable framebuffer fetch, if any.
	FrameBufferFetchExtensionString string

	// MaxFragmentSamplers is the maximum number of texture samplers a
	// fragment shader may bind.
	MaxFragmentSamplers int

	// MaxUBOSize is the maximum size, in bytes, of a single uniform buffer.
	MaxUBOSize int

	// UBOOffsetAlignment is the required alignment, in bytes, for offsets
	// into a uniform buffer object.
	UBOOffsetAlignment int
}
