package shader

import (
	_ "embed"
	"encoding/binary"
	"unsafe"
)

// GPUViewParamsSource is the canonical WGSL definition of the ViewParams struct.
//
//go:embed assets/view_params.wgsl
var GPUViewParamsSource string

// GPUViewParams is the inline parameter block of the Finalize kernel.
// The WGSL struct occupies 16 bytes in a uniform binding; only the first 12 are meaningful.
type GPUViewParams struct {
	Offset [2]int32 // offset 0: top-left world cell shown in the output image
	Zoom   int32    // offset 8: output pixels per world cell
}

// Size returns the size of the GPUViewParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (12)
func (g *GPUViewParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUViewParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUViewParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], uint32(g.Offset[0]))
	binary.LittleEndian.PutUint32(buf[4:], uint32(g.Offset[1]))
	binary.LittleEndian.PutUint32(buf[8:], uint32(g.Zoom))
	return buf
}
