package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType identifies whether a pipeline is a compute pipeline or a render pipeline.
type PipelineType int

const (
	// PipelineTypeCompute indicates a compute pipeline with a single compute shader entry point.
	PipelineTypeCompute PipelineType = iota

	// PipelineTypeRender indicates a render pipeline with vertex and fragment shader entry points.
	PipelineTypeRender
)

func (t PipelineType) String() string {
	switch t {
	case PipelineTypeCompute:
		return "compute"
	case PipelineTypeRender:
		return "render"
	default:
		return fmt.Sprintf("PipelineType(%d)", int(t))
	}
}

// ErrShaderStage is returned by Validate when a pipeline is missing a shader or holds one
// loaded for the wrong stage.
var ErrShaderStage = errors.New("pipeline: shader stage mismatch")

// RenderState is the fixed-function state of a render pipeline. Compute pipelines ignore it.
type RenderState struct {
	Topology  wgpu.PrimitiveTopology
	FrontFace wgpu.FrontFace
	CullMode  wgpu.CullMode
	WriteMask wgpu.ColorWriteMask

	// Blend is nil for opaque output.
	Blend *wgpu.BlendState
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineType PipelineType
	pipelineKey  string

	vertexShader, fragmentShader, computeShader shader.Shader

	renderPipeline  *wgpu.RenderPipeline
	computePipeline *wgpu.ComputePipeline

	renderState RenderState
}

// Pipeline is either a compute pipeline built from one kernel or a render pipeline built from a
// vertex and fragment shader pair. The GPU object is created later by the context it is registered with.
type Pipeline interface {
	// Type returns the type of the pipeline
	//
	// Returns:
	//   - PipelineType: the type of the pipeline (render or compute)
	Type() PipelineType

	// PipelineKey returns the unique key associated with this pipeline, used for lookups and labels.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex, fragment, or compute)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the underlying pipeline object, either *wgpu.RenderPipeline or *wgpu.ComputePipeline
	// Note: The caller is responsible for type asserting the returned value as either pipeline type.
	//
	// Returns:
	//   - any: the underlying pipeline object.
	Pipeline() any

	// RenderState returns the fixed-function state used when a render pipeline is created.
	RenderState() RenderState

	// Validate checks that the pipeline holds exactly the shader stages its type needs.
	//
	// Returns:
	//   - error: ErrShaderStage wrapped with the offending stage, or nil
	Validate() error

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// SetComputePipeline sets the compute pipeline
	//
	// Parameters:
	//   - p: the WebGPU compute pipeline to set
	SetComputePipeline(p *wgpu.ComputePipeline)

	// Release frees the GPU pipeline object, if one was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface. A PipelineType must be specified and provided upon creation.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: the type of pipeline to create (render or compute)
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified type and configuration
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		pipelineType: pipelineType,
		renderState: RenderState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
			WriteMask: wgpu.ColorWriteMaskAll,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() any {
	switch p.pipelineType {
	case PipelineTypeRender:
		return p.renderPipeline
	case PipelineTypeCompute:
		return p.computePipeline
	default:
		return nil
	}
}

func (p *pipeline) RenderState() RenderState {
	return p.renderState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	case shader.ShaderTypeCompute:
		return p.computeShader
	default:
		return nil
	}
}

func (p *pipeline) Validate() error {
	var want, forbid []shader.ShaderType
	switch p.pipelineType {
	case PipelineTypeCompute:
		want = []shader.ShaderType{shader.ShaderTypeCompute}
		forbid = []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment}
	case PipelineTypeRender:
		want = []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment}
		forbid = []shader.ShaderType{shader.ShaderTypeCompute}
	default:
		return fmt.Errorf("%s: %v: %w", p.pipelineKey, p.pipelineType, ErrShaderStage)
	}

	for _, stage := range want {
		s := p.Shader(stage)
		if s == nil {
			return fmt.Errorf("%s: missing %s shader: %w", p.pipelineKey, stage, ErrShaderStage)
		}
		if s.ShaderType() != stage {
			return fmt.Errorf("%s: %s slot holds a %s shader: %w", p.pipelineKey, stage, s.ShaderType(), ErrShaderStage)
		}
	}
	for _, stage := range forbid {
		if p.Shader(stage) != nil {
			return fmt.Errorf("%s: %s pipeline has a %s shader: %w", p.pipelineKey, p.pipelineType, stage, ErrShaderStage)
		}
	}
	return nil
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetComputePipeline(cp *wgpu.ComputePipeline) {
	p.computePipeline = cp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.computePipeline != nil {
		p.computePipeline.Release()
		p.computePipeline = nil
	}
}
