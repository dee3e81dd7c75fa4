package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseWorkgroupSize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [3]uint32
	}{
		{"three dims", "@compute @workgroup_size(8, 8, 1) fn main() {}", [3]uint32{8, 8, 1}},
		{"two dims", "@compute @workgroup_size(16, 4) fn main() {}", [3]uint32{16, 4, 1}},
		{"one dim", "@compute @workgroup_size(64) fn main() {}", [3]uint32{64, 1, 1}},
		{"missing", "@compute fn main() {}", [3]uint32{1, 1, 1}},
		{"commented out", "// @workgroup_size(4, 4, 4)\n@compute @workgroup_size(2, 2, 1) fn main() {}", [3]uint32{2, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseWorkgroupSize(tt.source); got != tt.want {
				t.Errorf("parseWorkgroupSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEntryPoint(t *testing.T) {
	src := BlitSource + "\n@compute @workgroup_size(1) fn crunch() {}"
	tests := []struct {
		stage ShaderType
		want  string
	}{
		{ShaderTypeVertex, "vs_main"},
		{ShaderTypeFragment, "fs_main"},
		{ShaderTypeCompute, "crunch"},
	}
	for _, tt := range tests {
		if got := parseEntryPoint(src, tt.stage); got != tt.want {
			t.Errorf("parseEntryPoint(%v) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestClassifyResource(t *testing.T) {
	tests := []struct {
		name         string
		addressSpace string
		typeName     string
		check        func(t *testing.T, e wgpu.BindGroupLayoutEntry)
	}{
		{
			name:     "sampled uint 2d",
			typeName: "texture_2d<u32>",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.Texture.SampleType != wgpu.TextureSampleTypeUint || e.Texture.ViewDimension != wgpu.TextureViewDimension2D {
					t.Errorf("texture = %+v, want uint 2d", e.Texture)
				}
			},
		},
		{
			name:     "sampled uint 1d",
			typeName: "texture_1d<u32>",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.Texture.ViewDimension != wgpu.TextureViewDimension1D {
					t.Errorf("ViewDimension = %v, want 1D", e.Texture.ViewDimension)
				}
			},
		},
		{
			name:     "storage write",
			typeName: "texture_storage_2d<r32uint, write>",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.StorageTexture.Format != wgpu.TextureFormatR32Uint {
					t.Errorf("Format = %v, want R32Uint", e.StorageTexture.Format)
				}
				if e.StorageTexture.Access != wgpu.StorageTextureAccessWriteOnly {
					t.Errorf("Access = %v, want write-only", e.StorageTexture.Access)
				}
			},
		},
		{
			name:     "sampler",
			typeName: "sampler",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
					t.Errorf("Sampler.Type = %v, want filtering", e.Sampler.Type)
				}
			},
		},
		{
			name:         "uniform",
			addressSpace: "uniform",
			typeName:     "ViewParams",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.Buffer.Type != wgpu.BufferBindingTypeUniform {
					t.Errorf("Buffer.Type = %v, want uniform", e.Buffer.Type)
				}
			},
		},
		{
			name:         "read-only storage",
			addressSpace: "storage, read",
			typeName:     "array<u32>",
			check: func(t *testing.T, e wgpu.BindGroupLayoutEntry) {
				if e.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
					t.Errorf("Buffer.Type = %v, want read-only storage", e.Buffer.Type)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := classifyResource(3, wgpu.ShaderStageCompute, tt.addressSpace, tt.typeName)
			if e.Binding != 3 || e.Visibility != wgpu.ShaderStageCompute {
				t.Errorf("binding/visibility = %d/%v, want 3/compute", e.Binding, e.Visibility)
			}
			tt.check(t, e)
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := computeStructSizes(parseStructBlocks(stripComments(GPUViewParamsSource)))
	tests := []struct {
		typeName string
		want     wgslTypeLayout
	}{
		{"i32", wgslTypeLayout{4, 4}},
		{"vec3<f32>", wgslTypeLayout{12, 16}},
		{"ViewParams", wgslTypeLayout{16, 8}},
		{"array<u32, 4>", wgslTypeLayout{16, 4}},
		{"array<vec3f>", wgslTypeLayout{16, 16}},
	}
	for _, tt := range tests {
		got, ok := resolveTypeLayout(tt.typeName, known)
		if !ok || got != tt.want {
			t.Errorf("resolveTypeLayout(%q) = %v, %v, want %v, true", tt.typeName, got, ok, tt.want)
		}
	}
	if _, ok := resolveTypeLayout("Unknown", known); ok {
		t.Error("resolveTypeLayout(Unknown) ok = true, want false")
	}
}

func TestParseBindGroupLayouts(t *testing.T) {
	pp := NewPreProcessor()
	src, err := pp.Process(finalizeSource)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	layouts, names := parseBindGroupLayouts(src, wgpu.ShaderStageCompute)
	if len(layouts) != 1 {
		t.Fatalf("layouts len = %d, want 1", len(layouts))
	}
	entries := layouts[0].Entries
	if len(entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Errorf("entries[%d].Binding = %d, want %d", i, e.Binding, i)
		}
	}
	if got := entries[2].Buffer.MinBindingSize; got != 16 {
		t.Errorf("viewport MinBindingSize = %d, want 16", got)
	}
	if names[0][0] != "world" || names[0][1] != "frame" || names[0][2] != "viewport" {
		t.Errorf("names = %v, want world/frame/viewport", names[0])
	}
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // e\nf"
	if got := stripComments(src); got != "a  d \nf\n" {
		t.Errorf("stripComments() = %q, want %q", got, "a  d \nf\n")
	}
}
