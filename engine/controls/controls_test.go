package controls

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-automata/common"
)

type fakeTarget struct {
	calls  []string
	offset [2]int32
	zoom   int32
}

func (f *fakeTarget) SetOffset(x, y float32) {
	f.offset = [2]int32{int32(x * 1024), int32(y * 1024)}
	f.calls = append(f.calls, fmt.Sprintf("offset %d %d", f.offset[0], f.offset[1]))
}
func (f *fakeTarget) OffsetZoom(increment bool) { f.calls = append(f.calls, fmt.Sprintf("zoom %v", increment)) }
func (f *fakeTarget) OffsetRate(increase bool)  { f.calls = append(f.calls, fmt.Sprintf("rate %v", increase)) }
func (f *fakeTarget) Pause()                    { f.calls = append(f.calls, "pause") }
func (f *fakeTarget) SkipFrames(n uint32)       { f.calls = append(f.calls, fmt.Sprintf("skip %d", n)) }
func (f *fakeTarget) ResetWorld()               { f.calls = append(f.calls, "reset") }
func (f *fakeTarget) Offset() [2]int32          { return f.offset }
func (f *fakeTarget) Zoom() int32               { return f.zoom }

func TestKeyDown(t *testing.T) {
	tests := []struct {
		key  uint32
		want string
	}{
		{common.KeyEqual, "zoom true"},
		{common.KeyKPAdd, "zoom true"},
		{common.KeyMinus, "zoom false"},
		{common.KeyKPSubtract, "zoom false"},
		{common.KeyRightBracket, "rate true"},
		{common.KeyLeftBracket, "rate false"},
		{common.KeySpace, "pause"},
		{common.KeyP, "pause"},
		{common.KeyN, "skip 1"},
		{common.KeyR, "reset"},
		{common.Key1, "skip 2"},
		{common.Key4, "skip 16"},
		{common.Key9, "skip 512"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			target := &fakeTarget{zoom: 1}
			c := NewControls(target)
			if !c.KeyDown(tt.key) {
				t.Fatalf("KeyDown(%d) = false, want true", tt.key)
			}
			if len(target.calls) != 1 || target.calls[0] != tt.want {
				t.Errorf("KeyDown(%d) calls = %v, want [%s]", tt.key, target.calls, tt.want)
			}
		})
	}
}

func TestKeyDownUnbound(t *testing.T) {
	target := &fakeTarget{zoom: 1}
	c := NewControls(target)
	for _, key := range []uint32{common.Key0, 'Q'} {
		if c.KeyDown(key) {
			t.Errorf("KeyDown(%d) = true, want false", key)
		}
	}
	if len(target.calls) != 0 {
		t.Errorf("calls = %v, want none", target.calls)
	}
}

func TestWithKeyBinding(t *testing.T) {
	target := &fakeTarget{zoom: 1}
	c := NewControls(target,
		WithKeyBinding(common.KeyR, nil),
		WithKeyBinding('Q', func(t Target) { t.SkipFrames(1000) }),
	)
	if c.KeyDown(common.KeyR) {
		t.Error("KeyDown(R) = true after unbinding")
	}
	if !c.KeyDown('Q') {
		t.Fatal("KeyDown(Q) = false, want true")
	}
	if target.calls[0] != "skip 1000" {
		t.Errorf("calls = %v, want [skip 1000]", target.calls)
	}
}

func TestScroll(t *testing.T) {
	target := &fakeTarget{zoom: 1}
	c := NewControls(target)
	c.Scroll(1.5)
	c.Scroll(0)
	c.Scroll(-0.5)
	want := []string{"zoom true", "zoom false"}
	if fmt.Sprint(target.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", target.calls, want)
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		name   string
		zoom   int32
		start  [2]int32
		moveTo [2]int32
		want   [2]int32
	}{
		{"zoom 1", 1, [2]int32{100, 100}, [2]int32{110, 90}, [2]int32{-10, 10}},
		{"zoom 2", 2, [2]int32{100, 100}, [2]int32{120, 100}, [2]int32{-10, 0}},
		{"from offset", 4, [2]int32{0, 0}, [2]int32{-40, -8}, [2]int32{42, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{zoom: tt.zoom}
			if tt.name == "from offset" {
				target.offset = [2]int32{32, 2}
			}
			c := NewControls(target)
			c.MouseMove(5, 5)
			if len(target.calls) != 0 {
				t.Fatalf("MouseMove before MiddleDown calls = %v, want none", target.calls)
			}

			c.MiddleDown(tt.start[0], tt.start[1])
			c.MouseMove(tt.moveTo[0], tt.moveTo[1])
			if target.offset != tt.want {
				t.Errorf("offset = %v, want %v", target.offset, tt.want)
			}

			c.MiddleUp(tt.moveTo[0], tt.moveTo[1])
			n := len(target.calls)
			c.MouseMove(0, 0)
			if len(target.calls) != n {
				t.Errorf("MouseMove after MiddleUp changed offset to %v", target.offset)
			}
		})
	}
}
