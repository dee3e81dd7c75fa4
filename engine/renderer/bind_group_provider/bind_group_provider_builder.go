package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithImage binds an image at a binding index.
//
// Parameters:
//   - binding: the binding index for this image
//   - img: the image to bind; the provider does not take ownership
//
// Returns:
//   - BindGroupProviderOption: a function that binds the image
func WithImage(binding int, img common.Image) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.images[binding] = img
	}
}

// WithBuffer binds a buffer at a binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to bind; the provider takes ownership
//
// Returns:
//   - BindGroupProviderOption: a function that binds the buffer
func WithBuffer(binding int, buf common.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithSampler binds a sampler at a binding index.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - s: the sampler to bind; the provider takes ownership
//
// Returns:
//   - BindGroupProviderOption: a function that binds the sampler
func WithSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}

// WithInlineBinding marks the buffer binding that receives inline data on every dispatch.
//
// Parameters:
//   - binding: the binding index of the inline buffer
//
// Returns:
//   - BindGroupProviderOption: a function that sets the inline binding
func WithInlineBinding(binding int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.inlineBinding = binding
	}
}
