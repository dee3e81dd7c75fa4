// package common contains types that are shared across the engine packages. They are not interface-wrapped structs, just plain structs that
// describe GPU resources before they are created.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ImageDescriptor describes a GPU image (texture) pending creation by a compute context.
type ImageDescriptor struct {
	// Label is a debug label attached to the GPU object.
	Label string
	// Dimension selects a 1D, 2D or 3D image. 1D images have a height of 1.
	Dimension wgpu.TextureDimension
	// Width is the image width in texels.
	Width uint32
	// Height is the image height in texels. Ignored for 1D images.
	Height uint32
	// Format is the texel format of the image.
	Format wgpu.TextureFormat
	// Usage is the set of usages the image must support (storage, copy source, copy destination, sampling).
	Usage wgpu.TextureUsage
}

// BufferDescriptor describes a linear GPU buffer pending creation by a compute context.
type BufferDescriptor struct {
	// Label is a debug label attached to the GPU object.
	Label string
	// Size is the buffer size in bytes.
	Size uint64
	// Usage is the set of usages the buffer must support.
	Usage wgpu.BufferUsage
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to clamp-to-edge addressing and nearest filtering.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}
