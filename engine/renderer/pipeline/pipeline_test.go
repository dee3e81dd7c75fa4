package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const testKernel = `
@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
}
`

func mustShader(t *testing.T, shaderType shader.ShaderType, source string) shader.Shader {
	t.Helper()
	s, err := shader.NewShaderFromSource("test", shaderType, source)
	if err != nil {
		t.Fatalf("NewShaderFromSource(%s) error = %v", shaderType, err)
	}
	return s
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("blit", PipelineTypeRender)
	want := RenderState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if got := p.RenderState(); got != want {
		t.Errorf("RenderState() = %+v, want %+v", got, want)
	}
	if p.PipelineKey() != "blit" || p.Type() != PipelineTypeRender {
		t.Errorf("key, type = %s, %v, want blit, render", p.PipelineKey(), p.Type())
	}
	if rp, ok := p.Pipeline().(*wgpu.RenderPipeline); !ok || rp != nil {
		t.Errorf("Pipeline() = %v, want nil *wgpu.RenderPipeline", p.Pipeline())
	}
}

func TestRenderStateOptions(t *testing.T) {
	blend := &wgpu.BlendState{}
	p := NewPipeline("blit", PipelineTypeRender,
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	got := p.RenderState()
	if got.Blend != blend || got.CullMode != wgpu.CullModeBack ||
		got.Topology != wgpu.PrimitiveTopologyTriangleStrip || got.WriteMask != wgpu.ColorWriteMaskRed {
		t.Errorf("RenderState() = %+v, want options applied", got)
	}
}

func TestValidate(t *testing.T) {
	compute := mustShader(t, shader.ShaderTypeCompute, testKernel)
	vertex := mustShader(t, shader.ShaderTypeVertex, shader.BlitSource)
	fragment := mustShader(t, shader.ShaderTypeFragment, shader.BlitSource)

	tests := []struct {
		name    string
		p       Pipeline
		wantErr bool
	}{
		{"compute", NewPipeline("k", PipelineTypeCompute, WithComputeShader(compute)), false},
		{"compute missing", NewPipeline("k", PipelineTypeCompute), true},
		{"compute with vertex", NewPipeline("k", PipelineTypeCompute, WithComputeShader(compute), WithVertexShader(vertex)), true},
		{"compute slot holds vertex", NewPipeline("k", PipelineTypeCompute, WithComputeShader(vertex)), true},
		{"render", NewPipeline("b", PipelineTypeRender, WithVertexShader(vertex), WithFragmentShader(fragment)), false},
		{"render missing fragment", NewPipeline("b", PipelineTypeRender, WithVertexShader(vertex)), true},
		{"render swapped", NewPipeline("b", PipelineTypeRender, WithVertexShader(fragment), WithFragmentShader(vertex)), true},
		{"unknown type", NewPipeline("x", PipelineType(7)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShaderStage) {
				t.Errorf("Validate() error = %v, want %v", err, ErrShaderStage)
			}
		})
	}
}

func TestReleaseWithoutGPUObject(t *testing.T) {
	p := NewPipeline("k", PipelineTypeCompute)
	p.Release()
	if cp, ok := p.Pipeline().(*wgpu.ComputePipeline); !ok || cp != nil {
		t.Errorf("Pipeline() = %v, want nil *wgpu.ComputePipeline", p.Pipeline())
	}
}

func TestPipelineTypeString(t *testing.T) {
	if PipelineTypeCompute.String() != "compute" || PipelineTypeRender.String() != "render" {
		t.Errorf("String() = %s, %s, want compute, render", PipelineTypeCompute, PipelineTypeRender)
	}
}
