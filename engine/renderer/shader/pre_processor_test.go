package shader

import (
	"strings"
	"testing"
)

func TestPreProcessorProcess(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include view_params",
		"//@oxy:provider 0 0 world source",
		"@group(0) @binding(0) var world: texture_2d<u32>;",
		"//@oxy:group 0 2 storage_uniform viewport view_params",
		"fn main() {}",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !strings.Contains(out, "struct ViewParams") {
		t.Errorf("Process() output missing included ViewParams struct:\n%s", out)
	}
	if !strings.Contains(out, "@group(0) @binding(2) var<uniform> viewport: ViewParams;") {
		t.Errorf("Process() output missing generated binding:\n%s", out)
	}
	if strings.Contains(out, "@oxy:include") || strings.Contains(out, "@oxy:group") {
		t.Errorf("Process() left include/group annotations in output:\n%s", out)
	}
	if !strings.Contains(out, "@group(0) @binding(0) var world: texture_2d<u32>;") {
		t.Errorf("Process() dropped hand-written binding:\n%s", out)
	}

	decls := pp.Declarations()
	if len(decls) != 2 {
		t.Fatalf("Declarations() len = %d, want 2", len(decls))
	}
	if decls[0].Type != AnnotationTypeProvider || decls[1].Type != AnnotationTypeBindingGroup {
		t.Errorf("Declarations() types = %q, %q, want provider, group", decls[0].Type, decls[1].Type)
	}
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process("//@oxy:provider 0 0 world source"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, err := pp.Process("fn main() {}"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := len(pp.Declarations()); got != 0 {
		t.Errorf("Declarations() len = %d after second Process, want 0", got)
	}
}

func TestPreProcessorRejectsMalformedAnnotation(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process("fn a() {}\n//@oxy:provider 0 0 moon"); err == nil {
		t.Error("Process() error = nil, want error for unknown identity")
	}
}
