package renderer

import (
	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ComputeContext is what the Renderer needs from a GPU device at construction time: image and
// buffer allocation, compute pipeline creation and binding set creation.
type ComputeContext interface {
	// CreateImage allocates a GPU image.
	//
	// Parameters:
	//   - desc: the image dimension, size, format and usage
	//
	// Returns:
	//   - common.Image: the allocated image, owned by the caller
	//   - error: an error if the allocation failed
	CreateImage(desc common.ImageDescriptor) (common.Image, error)

	// CreateBuffer allocates a CPU-writable GPU buffer.
	//
	// Parameters:
	//   - desc: the buffer size and usage
	//
	// Returns:
	//   - common.Buffer: the allocated buffer, owned by the caller
	//   - error: an error if the allocation failed
	CreateBuffer(desc common.BufferDescriptor) (common.Buffer, error)

	// RegisterComputePipeline creates the GPU compute pipeline for p from its compute shader and
	// stores it on p.
	//
	// Parameters:
	//   - p: a compute pipeline with its compute shader set
	//
	// Returns:
	//   - error: an error if the shader module, layout or pipeline could not be created
	RegisterComputePipeline(p pipeline.Pipeline) error

	// InitBindGroup creates the bind group layout and bind group for provider. Image, sampler and
	// buffer bindings take the resources already set on the provider; buffer bindings with nothing
	// set get a new buffer of MinBindingSize bytes, stored on the provider.
	//
	// Parameters:
	//   - provider: the provider holding the resources for each binding
	//   - descriptor: the layout descriptor parsed from the shader
	//
	// Returns:
	//   - error: an error if a binding has no resource or a GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
}

// CommandRecorder appends GPU commands to one command sequence. Commands execute on the GPU in
// the order they were recorded.
type CommandRecorder interface {
	// CopyBufferToImage records a copy of the whole buffer into the whole image.
	//
	// Parameters:
	//   - src: the source buffer, tightly packed rows
	//   - dst: the destination image
	//
	// Returns:
	//   - error: an error if the copy could not be recorded
	CopyBufferToImage(src common.Buffer, dst common.Image) error

	// CopyImageToImage records a copy of extent texels from the origin of src to the origin of dst.
	//
	// Parameters:
	//   - src: the source image
	//   - dst: the destination image
	//   - extent: the copy size as [width, height, depth]
	//
	// Returns:
	//   - error: an error if the copy could not be recorded
	CopyImageToImage(src, dst common.Image, extent [3]uint32) error

	// DispatchCompute records one compute dispatch. When inline is non-nil it is delivered to the
	// provider's inline binding before the dispatch executes.
	//
	// Parameters:
	//   - p: the registered compute pipeline
	//   - provider: the binding set bound as group 0
	//   - workGroupCount: the number of workgroups in x, y and z
	//   - inline: the inline parameter block, or nil
	//
	// Returns:
	//   - error: an error if the dispatch could not be recorded
	DispatchCompute(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32, inline []byte) error
}
