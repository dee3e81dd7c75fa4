package surface

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-automata/engine/renderer"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type headlessContext struct {
	renderer.WGPUContext
}

func (headlessContext) Surface() *wgpu.Surface { return nil }

func TestNewPresenterHeadless(t *testing.T) {
	_, err := NewPresenter(headlessContext{}, nil, 640, 480)
	if !errors.Is(err, ErrHeadless) {
		t.Errorf("NewPresenter() error = %v, want %v", err, ErrHeadless)
	}
}

func TestBlitShaders(t *testing.T) {
	vs, fs, err := blitShaders()
	if err != nil {
		t.Fatalf("blitShaders() error = %v", err)
	}
	if vs.EntryPoint() != "vs_main" {
		t.Errorf("vertex EntryPoint() = %q, want vs_main", vs.EntryPoint())
	}
	if fs.EntryPoint() != "fs_main" {
		t.Errorf("fragment EntryPoint() = %q, want fs_main", fs.EntryPoint())
	}

	layouts := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	entries := layouts[0].Entries
	if len(entries) != 2 {
		t.Fatalf("group 0 entries = %d, want 2", len(entries))
	}
	if entries[0].Texture.SampleType == wgpu.TextureSampleTypeUndefined {
		t.Error("binding 0 is not a sampled texture")
	}
	if entries[1].Sampler.Type == wgpu.SamplerBindingTypeUndefined {
		t.Error("binding 1 is not a sampler")
	}
	for _, e := range entries {
		if e.Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
			t.Errorf("binding %d visibility = %v, want vertex|fragment", e.Binding, e.Visibility)
		}
	}

	if _, b, ok := fs.BindingFor(shader.AnnotationArgOutput, shader.AnnotationArgSampler); !ok || b != 1 {
		t.Errorf("BindingFor(output, sampler) = %d, %v, want 1, true", b, ok)
	}
}

func TestWGPUPresentMode(t *testing.T) {
	tests := []struct {
		mode renderer.PresentMode
		want wgpu.PresentMode
	}{
		{renderer.PresentModeVSync, wgpu.PresentModeFifo},
		{renderer.PresentModeUncapped, wgpu.PresentModeImmediate},
	}
	for _, tt := range tests {
		if got := wgpuPresentMode(tt.mode); got != tt.want {
			t.Errorf("wgpuPresentMode(%v) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
