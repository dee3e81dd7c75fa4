package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadKernelsDefault(t *testing.T) {
	k, err := LoadKernels(DefaultKernels(), WithLoadWorkers(2))
	if err != nil {
		t.Fatalf("LoadKernels() error = %v", err)
	}
	tests := []struct {
		name string
		s    Shader
	}{
		{KernelRandomize, k.Randomize},
		{KernelSimulate, k.Simulate},
		{KernelFinalize, k.Finalize},
	}
	for _, tt := range tests {
		if tt.s == nil {
			t.Fatalf("%s kernel is nil", tt.name)
		}
		if tt.s.Key() != tt.name {
			t.Errorf("Key() = %q, want %q", tt.s.Key(), tt.name)
		}
		if tt.s.ShaderType() != ShaderTypeCompute {
			t.Errorf("%s ShaderType() = %v, want compute", tt.name, tt.s.ShaderType())
		}
	}
}

func TestLoadKernelsReportsEveryFailure(t *testing.T) {
	set := DefaultKernels()
	set.Simulate = "fn nothing() {}"
	set.Finalize = "//@oxy:provider 0 0 sun\n@compute @workgroup_size(1) fn main() {}"

	_, err := LoadKernels(set)
	if err == nil {
		t.Fatal("LoadKernels() error = nil, want error")
	}
	for _, key := range []string{KernelSimulate, KernelFinalize} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("LoadKernels() error = %q, want mention of %s", err, key)
		}
	}
}

func TestKernelSetFromDir(t *testing.T) {
	dir := t.TempDir()
	override := "// custom\n" + simulateSource
	if err := os.WriteFile(filepath.Join(dir, "simulate.wgsl"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := KernelSetFromDir(dir)
	if err != nil {
		t.Fatalf("KernelSetFromDir() error = %v", err)
	}
	if set.Simulate != override {
		t.Error("Simulate was not overridden")
	}
	if set.Randomize != randomizeSource || set.Finalize != finalizeSource {
		t.Error("missing files did not fall back to built-in sources")
	}
}
