package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestCopyBytesPerRow(t *testing.T) {
	tests := []struct {
		name    string
		format  wgpu.TextureFormat
		width   uint32
		want    uint32
		wantErr bool
	}{
		{"parameter table", ParameterFormat, ParameterSpace, 256, false},
		{"world row", WorldFormat, WorldSize, 4096, false},
		{"unaligned", wgpu.TextureFormatRGBA8Unorm, 100, 0, true},
		{"unsupported format", wgpu.TextureFormatDepth32Float, 64, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := copyBytesPerRow(tt.format, tt.width)
			if (err != nil) != tt.wantErr {
				t.Fatalf("copyBytesPerRow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("copyBytesPerRow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTexelSize(t *testing.T) {
	tests := []struct {
		format wgpu.TextureFormat
		want   uint32
		ok     bool
	}{
		{wgpu.TextureFormatR16Uint, 2, true},
		{wgpu.TextureFormatR32Uint, 4, true},
		{wgpu.TextureFormatRGBA8Unorm, 4, true},
		{wgpu.TextureFormatBGRA8Unorm, 4, true},
		{wgpu.TextureFormatRGBA16Float, 0, false},
	}
	for _, tt := range tests {
		got, ok := texelSize(tt.format)
		if got != tt.want || ok != tt.ok {
			t.Errorf("texelSize(%v) = %d, %v, want %d, %v", tt.format, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBufferWriteBounds(t *testing.T) {
	b := &wgpuBuffer{label: "view", size: 16}
	tests := []struct {
		name   string
		offset uint64
		n      int
	}{
		{"too long", 0, 17},
		{"offset past end", 12, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Write(tt.offset, make([]byte, tt.n)); err == nil {
				t.Error("Write() error = nil, want bounds error")
			}
		})
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "blit", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "blit", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Label: "extra", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	entries := merged[0].Entries
	if len(entries) != 2 {
		t.Fatalf("group 0 entries = %d, want 2", len(entries))
	}
	if entries[0].Binding != 0 || entries[1].Binding != 1 {
		t.Errorf("group 0 bindings = %d, %d, want 0, 1", entries[0].Binding, entries[1].Binding)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; entries[1].Visibility != want {
		t.Errorf("binding 1 visibility = %v, want %v", entries[1].Visibility, want)
	}
	if entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("binding 0 visibility = %v, want fragment", entries[0].Visibility)
	}
	if merged[1].Label != "extra" {
		t.Errorf("group 1 label = %q, want extra", merged[1].Label)
	}
}
