package common

import "github.com/cogentcore/webgpu/wgpu"

// Image is a GPU image owned by, or borrowed from, a compute context.
// Backends wrap their native texture type behind this interface so that orchestration code
// can reason about images without holding API-specific handles.
type Image interface {
	// Label returns the debug label of the image.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Dimension reports whether the image is 1D, 2D or 3D.
	//
	// Returns:
	//   - wgpu.TextureDimension: the image dimension
	Dimension() wgpu.TextureDimension

	// Width returns the image width in texels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height returns the image height in texels, 1 for 1D images.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// Format returns the texel format of the image.
	//
	// Returns:
	//   - wgpu.TextureFormat: the texel format
	Format() wgpu.TextureFormat

	// Release frees the GPU resources held by the image. Borrowed images are never released by their borrower.
	Release()
}

// Buffer is a linear GPU buffer whose contents can be written from the CPU.
type Buffer interface {
	// Label returns the debug label of the buffer.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Size returns the buffer size in bytes.
	//
	// Returns:
	//   - uint64: the buffer size
	Size() uint64

	// Write queues a write of data into the buffer starting at offset.
	//
	// Parameters:
	//   - offset: the byte offset to start writing at, a multiple of 4
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write would run past Size()
	Write(offset uint64, data []byte) error

	// Release frees the GPU resources held by the buffer.
	Release()
}
