package shader

import (
	"strings"
	"testing"
)

func TestParseAnnotationIgnoresPlainLines(t *testing.T) {
	lines := []string{
		"",
		"fn main() {}",
		"// a regular comment",
		"@group(0) @binding(0) var world: texture_2d<u32>;",
	}
	for _, line := range lines {
		a, err := parseAnnotation(line, 1)
		if err != nil || a != nil {
			t.Errorf("parseAnnotation(%q) = %v, %v, want nil, nil", line, a, err)
		}
	}
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantType    AnnotationType
		wantArgs    []AnnotationArg
		wantGroup   int
		wantBinding int
	}{
		{
			name:     "include",
			line:     "//@oxy:include view_params",
			wantType: annotationTypeInclude,
			wantArgs: []AnnotationArg{AnnotationArgViewParams},
		},
		{
			name:        "group",
			line:        "  //@oxy:group 0 2 storage_uniform viewport view_params",
			wantType:    AnnotationTypeBindingGroup,
			wantArgs:    []AnnotationArg{annotationArgStorageTypeUniform, "viewport", AnnotationArgViewParams},
			wantGroup:   0,
			wantBinding: 2,
		},
		{
			name:        "provider with role",
			line:        "//@oxy:provider 1 3 world target",
			wantType:    AnnotationTypeProvider,
			wantArgs:    []AnnotationArg{AnnotationArgWorld, AnnotationArgTarget},
			wantGroup:   1,
			wantBinding: 3,
		},
		{
			name:        "provider without role",
			line:        "//@oxy:provider 0 4 parameters",
			wantType:    AnnotationTypeProvider,
			wantArgs:    []AnnotationArg{AnnotationArgParameters},
			wantGroup:   0,
			wantBinding: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if err != nil {
				t.Fatalf("parseAnnotation() error = %v", err)
			}
			if a.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", a.Type, tt.wantType)
			}
			if a.Line != 7 {
				t.Errorf("Line = %d, want 7", a.Line)
			}
			if len(a.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", a.Args, tt.wantArgs)
			}
			for i := range a.Args {
				if a.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, a.Args[i], tt.wantArgs[i])
				}
			}
			if tt.wantType == annotationTypeInclude {
				if a.Group != nil || a.Binding != nil {
					t.Errorf("include annotation has group/binding set")
				}
				return
			}
			if *a.Group != tt.wantGroup || *a.Binding != tt.wantBinding {
				t.Errorf("group/binding = %d/%d, want %d/%d", *a.Group, *a.Binding, tt.wantGroup, tt.wantBinding)
			}
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantMsg string
	}{
		{"empty", "//@oxy:", "empty"},
		{"unknown type", "//@oxy:mesh 0 0", "unknown @oxy annotation type"},
		{"include arity", "//@oxy:include", "exactly one argument"},
		{"unknown struct", "//@oxy:include camera", "unknown struct type"},
		{"group arity", "//@oxy:group 0 1 storage_uniform viewport", "five arguments"},
		{"group number", "//@oxy:group x 1 storage_uniform viewport view_params", "invalid group number"},
		{"negative binding", "//@oxy:provider 0 -1 world source", "negative"},
		{"address space", "//@oxy:group 0 1 storage_push viewport view_params", "unknown address space"},
		{"identity", "//@oxy:provider 0 0 camera", "unknown provider identity"},
		{"role", "//@oxy:provider 0 0 world scratch", "unknown binding role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAnnotation(tt.line, 3)
			if err == nil {
				t.Fatalf("parseAnnotation(%q) error = nil, want error", tt.line)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if !strings.HasPrefix(err.Error(), "line 3:") {
				t.Errorf("error = %q, want line prefix", err)
			}
		})
	}
}
