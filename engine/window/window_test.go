package window

import (
	"errors"
	"testing"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("life"),
		WithSize(800, 600),
		WithMinSize(100, 80),
		WithMaxSize(-1, 2000),
		WithResizable(false),
	} {
		opt(w)
	}

	if w.title != "life" {
		t.Errorf("title = %q, want life", w.title)
	}
	if w.width != 800 || w.height != 600 {
		t.Errorf("size = %dx%d, want 800x600", w.width, w.height)
	}
	if w.minWidth != 100 || w.minHeight != 80 {
		t.Errorf("min size = %dx%d, want 100x80", w.minWidth, w.minHeight)
	}
	if w.maxWidth != -1 || w.maxHeight != 2000 {
		t.Errorf("max size = %dx%d, want -1x2000", w.maxWidth, w.maxHeight)
	}
	if w.resizable {
		t.Error("resizable = true, want false")
	}
}

func TestUnopenedWindow(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Error("IsRunning() = true, want false")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("SurfaceDescriptor() != nil")
	}
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Close() error = %v, want %v", err, ErrClosed)
	}
	w.SetTitle("still fine")
	if w.title != "still fine" {
		t.Errorf("title = %q, want still fine", w.title)
	}

	called := false
	w.SetUpdateCallback(func() bool { called = true; return true })
	w.ProcessMessages()
	if called {
		t.Error("ProcessMessages() ran the update callback on a closed window")
	}
}
