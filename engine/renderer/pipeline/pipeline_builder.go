package pipeline

import (
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option applied to a pipeline during construction via NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader of a render pipeline.
//
// Parameters:
//   - s: a shader loaded for the vertex stage
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader of a render pipeline.
//
// Parameters:
//   - s: a shader loaded for the fragment stage
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithComputeShader sets the kernel of a compute pipeline.
//
// Parameters:
//   - s: a shader loaded for the compute stage
//
// Returns:
//   - PipelineBuilderOption: a function that sets the compute shader for this pipeline
func WithComputeShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.computeShader = s
	}
}

// WithBlendState enables blending with the given state. nil keeps the output opaque.
func WithBlendState(blend *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.renderState.Blend = blend
	}
}

// WithCullMode sets the face culling mode. Defaults to wgpu.CullModeNone.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.renderState.CullMode = mode
	}
}

// WithTopology sets the primitive topology. Defaults to wgpu.PrimitiveTopologyTriangleList.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.renderState.Topology = topology
	}
}

// WithWriteMask sets the color write mask. Defaults to wgpu.ColorWriteMaskAll.
func WithWriteMask(mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.renderState.WriteMask = mask
	}
}
