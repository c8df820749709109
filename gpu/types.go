package gpu

import "github.com/gogpu/gputypes"

// BufferUsage is a bitmask describing how a GPUBuffer may be used. The bit
// values are fixed by the wire contract external callers rely on and must
// not be renumbered.
type BufferUsage uint32

// Buffer usage flags. Values are bit-exact per the external interface.
const (
	BufferUsageIndex    BufferUsage = 0x10
	BufferUsageVertex   BufferUsage = 0x20
	BufferUsageUniform  BufferUsage = 0x40
	BufferUsageReadback BufferUsage = 0x800
)

// Contains reports whether all bits in other are set in u.
func (u BufferUsage) Contains(other BufferUsage) bool { return u&other == other }

// TextureUsage is a bitmask describing how a GPUTexture may be used.
type TextureUsage uint32

// Texture usage flags. Values are bit-exact per the external interface.
const (
	TextureUsageTextureBinding  TextureUsage = 0x04
	TextureUsageRenderAttachment TextureUsage = 0x10
)

// Contains reports whether all bits in other are set in u.
func (u TextureUsage) Contains(other TextureUsage) bool { return u&other == other }

// PixelFormat enumerates the bit-exact pixel format surface external callers
// depend on.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatAlpha8
	PixelFormatGray8
	PixelFormatRG88
	PixelFormatRGBA8888
	PixelFormatBGRA8888
	PixelFormatDepth24Stencil8
)

// BytesPerPixel returns the per-texel byte cost of a single-plane format.
// YUV formats are multi-plane and are sized per-plane by the caller.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatAlpha8, PixelFormatGray8:
		return 1
	case PixelFormatRG88:
		return 2
	case PixelFormatRGBA8888, PixelFormatBGRA8888, PixelFormatDepth24Stencil8:
		return 4
	default:
		return 0
	}
}

// YUVFormat enumerates the supported multi-plane pixel layouts.
type YUVFormat int

const (
	YUVFormatUnknown YUVFormat = iota
	// YUVFormatI420 is an 8-bit Y plane followed by 2x2-subsampled U and V planes.
	YUVFormatI420
	// YUVFormatNV12 is an 8-bit Y plane followed by an interleaved, 2x2-subsampled UV plane.
	YUVFormatNV12
)

// PlaneCount returns the number of distinct memory planes for the format.
func (f YUVFormat) PlaneCount() int {
	switch f {
	case YUVFormatI420:
		return 3
	case YUVFormatNV12:
		return 2
	default:
		return 0
	}
}

// SubsamplingFactors returns the horizontal/vertical subsampling shift
// (log2) applied to each plane relative to the luma plane. I420 and NV12
// share the same 2x2 chroma subsampling, so factors are {0,1,1} for I420's
// three planes and {0,1} for NV12's two (luma full res, chroma halved on
// both axes).
func (f YUVFormat) SubsamplingFactors() []int {
	switch f {
	case YUVFormatI420:
		return []int{0, 1, 1}
	case YUVFormatNV12:
		return []int{0, 1}
	default:
		return nil
	}
}

// ColorSpace enumerates the YUV color spaces the core understands for
// render-time conversion. No interpretation beyond conversion is performed.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceBT601Limited
	ColorSpaceREC709
	ColorSpaceREC2020
	ColorSpaceJPEGFull
)

// Origin describes which corner of a render target is row zero.
type Origin int

const (
	// OriginTopLeft means row zero is the visual top of the image.
	OriginTopLeft Origin = iota
	// OriginBottomLeft means row zero is the visual bottom of the image;
	// geometry processors apply a y-flip per invariant I5.
	OriginBottomLeft
)

// RenderFlags are bitwise options a caller may attach to a single draw.
type RenderFlags uint32

const (
	// RenderFlagDisableCache bypasses proxy/resource reuse for this draw.
	RenderFlagDisableCache RenderFlags = 1 << 0
	// RenderFlagDisableAsyncTask forces synchronous data-source evaluation
	// on the calling thread instead of deferring to a ResourceTask.
	RenderFlagDisableAsyncTask RenderFlags = 1 << 1
)

// Color is a straight (non-premultiplied at this layer) RGBA color in
// [0,1] per channel, matching gputypes.Color's layout.
type Color = gputypes.Color

// LoadOp specifies what a render pass does to an attachment at pass start.
type LoadOp = gputypes.LoadOp

// StoreOp specifies what a render pass does to an attachment at pass end.
type StoreOp = gputypes.StoreOp

// Extent3D is a width/height/depth-or-layers triple used by copy commands.
type Extent3D = gputypes.Extent3D

// Origin3D is an x/y/z offset used by copy commands.
type Origin3D = gputypes.Origin3D

// AddressMode controls how a sampler handles texture coordinates outside [0,1].
type AddressMode int

const (
	AddressModeClampToEdge AddressMode = iota
	AddressModeRepeat
	AddressModeMirrorRepeat
	AddressModeClampToBorder
)

// FilterMode controls sampler texel interpolation.
type FilterMode int

const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
)

// MipmapMode controls sampler mip-level selection.
type MipmapMode int

const (
	MipmapModeNearest MipmapMode = iota
	MipmapModeLinear
)

// SamplerDescriptor configures texture sampling for a single bound texture.
type SamplerDescriptor struct {
	AddressModeU AddressMode
	AddressModeV AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
	MipmapMode   MipmapMode
}

// PrimitiveTopology enumerates the two topologies the core ever emits.
type PrimitiveTopology int

const (
	PrimitiveTriangleList PrimitiveTopology = iota
	PrimitiveTriangleStrip
)

// IndexFormat is the element width of an index buffer.
type IndexFormat int

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)
