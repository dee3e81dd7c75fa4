package controls

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer"
	"github.com/Carmen-Shannon/oxy-automata/engine/window"
)

// Target is the part of renderer.Renderer the controls drive.
type Target interface {
	SetOffset(x, y float32)
	OffsetZoom(increment bool)
	OffsetRate(increase bool)
	Pause()
	SkipFrames(n uint32)
	ResetWorld()
	Offset() [2]int32
	Zoom() int32
}

var _ Target = renderer.Renderer(nil)

// Action is a control bound to a key.
type Action func(t Target)

// Controls translates window input into renderer control calls.
type Controls interface {
	// KeyDown runs the action bound to keyCode.
	//
	// Parameters:
	//   - keyCode: the GLFW key code, matching the common.Key constants
	//
	// Returns:
	//   - bool: true if a binding existed
	KeyDown(keyCode uint32) bool

	// Scroll zooms in for positive deltas and out for negative ones.
	Scroll(delta float32)

	// MiddleDown starts a pan at the cursor position.
	MiddleDown(x, y int32)

	// MiddleUp ends the pan.
	MiddleUp(x, y int32)

	// MouseMove pans the view while a pan is active. Dragging right moves the view left across the world.
	MouseMove(x, y int32)

	// Attach routes w's input callbacks to these controls.
	Attach(w window.Window)
}

type controls struct {
	target   Target
	logger   *slog.Logger
	bindings map[uint32]Action

	panning     bool
	panStart    [2]int32
	panOrigin   [2]int32
	panPixelDiv int32
}

var _ Controls = &controls{}

// ControlsBuilderOption configures the controls created by NewControls.
type ControlsBuilderOption func(*controls)

// WithKeyBinding binds action to keyCode, replacing any default binding. A nil action removes it.
//
// Parameters:
//   - keyCode: the key code
//   - action: the action to run on key press
//
// Returns:
//   - ControlsBuilderOption: option function to apply
func WithKeyBinding(keyCode uint32, action Action) ControlsBuilderOption {
	return func(c *controls) {
		if action == nil {
			delete(c.bindings, keyCode)
			return
		}
		c.bindings[keyCode] = action
	}
}

// WithLogger sets the logger for pan messages.
func WithLogger(l *slog.Logger) ControlsBuilderOption {
	return func(c *controls) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewControls creates controls for target with the default key map:
//
//	= or keypad +   zoom in
//	- or keypad -   zoom out
//	]               double the rate
//	[               halve the rate
//	Space or P      pause
//	N               advance one generation
//	R               re-seed the world
//	1..9            advance 2^n generations
//
// Parameters:
//   - target: the renderer to control
//   - opts: options applied after the default key map
//
// Returns:
//   - Controls: the controls
func NewControls(target Target, opts ...ControlsBuilderOption) Controls {
	c := &controls{
		target:   target,
		logger:   slog.Default(),
		bindings: DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultKeyMap returns a fresh copy of the default key bindings.
func DefaultKeyMap() map[uint32]Action {
	zoomIn := func(t Target) { t.OffsetZoom(true) }
	zoomOut := func(t Target) { t.OffsetZoom(false) }
	pause := func(t Target) { t.Pause() }

	m := map[uint32]Action{
		common.KeyEqual:        zoomIn,
		common.KeyKPAdd:        zoomIn,
		common.KeyMinus:        zoomOut,
		common.KeyKPSubtract:   zoomOut,
		common.KeyRightBracket: func(t Target) { t.OffsetRate(true) },
		common.KeyLeftBracket:  func(t Target) { t.OffsetRate(false) },
		common.KeySpace:        pause,
		common.KeyP:            pause,
		common.KeyN:            func(t Target) { t.SkipFrames(1) },
		common.KeyR:            func(t Target) { t.ResetWorld() },
	}
	for n := range uint32(9) {
		steps := uint32(1) << (n + 1)
		m[common.Key1+n] = func(t Target) { t.SkipFrames(steps) }
	}
	return m
}

func (c *controls) KeyDown(keyCode uint32) bool {
	action, ok := c.bindings[keyCode]
	if !ok {
		return false
	}
	action(c.target)
	return true
}

func (c *controls) Scroll(delta float32) {
	switch {
	case delta > 0:
		c.target.OffsetZoom(true)
	case delta < 0:
		c.target.OffsetZoom(false)
	}
}

func (c *controls) MiddleDown(x, y int32) {
	c.panning = true
	c.panStart = [2]int32{x, y}
	c.panOrigin = c.target.Offset()
	c.panPixelDiv = max(c.target.Zoom(), 1)
}

func (c *controls) MiddleUp(x, y int32) {
	if !c.panning {
		return
	}
	c.MouseMove(x, y)
	c.panning = false
	c.logger.Debug("pan finished", "offset", c.target.Offset())
}

func (c *controls) MouseMove(x, y int32) {
	if !c.panning {
		return
	}
	cellX := c.panOrigin[0] - (x-c.panStart[0])/c.panPixelDiv
	cellY := c.panOrigin[1] - (y-c.panStart[1])/c.panPixelDiv
	c.target.SetOffset(float32(cellX)/renderer.WorldSize, float32(cellY)/renderer.WorldSize)
}

func (c *controls) Attach(w window.Window) {
	w.SetKeyDownCallback(func(keyCode uint32) { c.KeyDown(keyCode) })
	w.SetScrollCallback(c.Scroll)
	w.SetMiddleMouseDownCallback(c.MiddleDown)
	w.SetMiddleMouseUpCallback(c.MiddleUp)
	w.SetMouseMoveCallback(c.MouseMove)
}
