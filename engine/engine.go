package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/controls"
	"github.com/Carmen-Shannon/oxy-automata/engine/profiler"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer"
	"github.com/Carmen-Shannon/oxy-automata/engine/surface"
	"github.com/Carmen-Shannon/oxy-automata/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// engine implements the Engine interface.
// Window events, command recording and presentation all run on the calling thread.
type engine struct {
	logger *slog.Logger
	title  string

	window        window.Window
	windowOptions []window.WindowBuilderOption

	ctx       renderer.WGPUContext
	output    common.Image
	renderer  renderer.Renderer
	presenter surface.Presenter
	controls  controls.Controls

	rendererOptions []renderer.RendererBuilderOption
	parameters      []int16
	forceSoftware   bool
	presentMode     renderer.PresentMode

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback    func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	shownStatus string
	quit        bool
	err         error
}

// Engine runs the automaton in a window: one recorded and presented frame per event loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the automaton renderer, for control calls outside the default key map.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers a function called before each frame is recorded.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetPresentMode switches between vsync and uncapped presentation.
	SetPresentMode(mode renderer.PresentMode)

	// Run processes window events and renders frames until the window closes, Quit is called or a
	// frame fails. Every GPU resource and the window are released before it returns.
	//
	// Returns:
	//   - error: the frame error that stopped the loop, or nil
	Run() error

	// Quit stops the loop after the current frame. Safe to call multiple times.
	Quit()
}

// NewEngine opens the window, creates the WebGPU context on its surface, and builds the renderer,
// presenter and controls. The output image is sized to the framebuffer rounded up to whole
// workgroups; later resizes stretch it.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: the first construction error; anything created before it is released
func NewEngine(options ...EngineBuilderOption) (_ Engine, err error) {
	e := &engine{
		logger:      slog.Default(),
		title:       "Automata",
		presentMode: renderer.PresentModeVSync,
	}
	for _, opt := range options {
		opt(e)
	}
	defer func() {
		if err != nil {
			e.release()
		}
	}()

	if e.window == nil {
		opts := append([]window.WindowBuilderOption{window.WithTitle(e.title)}, e.windowOptions...)
		if e.window, err = window.NewWindow(opts...); err != nil {
			return nil, err
		}
	}

	if e.ctx, err = renderer.NewWGPUContext(e.window.SurfaceDescriptor(), e.forceSoftware, e.logger); err != nil {
		return nil, err
	}

	width, height := outputExtent(e.window.Width(), e.window.Height())
	if e.output, err = e.ctx.CreateImage(common.ImageDescriptor{
		Label:     "output",
		Dimension: wgpu.TextureDimension2D,
		Width:     width,
		Height:    height,
		Format:    wgpu.TextureFormatRGBA8Unorm,
		Usage:     wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
	}); err != nil {
		return nil, fmt.Errorf("engine: allocate output image: %w", err)
	}

	rendererOptions := append([]renderer.RendererBuilderOption{renderer.WithLogger(e.logger)}, e.rendererOptions...)
	if e.renderer, err = renderer.NewRenderer(e.ctx, e.output, rendererOptions...); err != nil {
		return nil, err
	}
	if e.parameters != nil {
		e.renderer.SetParameters(e.parameters)
	}

	if e.presenter, err = surface.NewPresenter(e.ctx, e.output,
		uint32(e.window.Width()), uint32(e.window.Height()),
		surface.WithPresentMode(e.presentMode),
		surface.WithLogger(e.logger),
	); err != nil {
		return nil, err
	}

	e.controls = controls.NewControls(e.renderer, controls.WithLogger(e.logger))
	e.controls.Attach(e.window)
	e.window.SetResizeCallback(func(width, height int) {
		e.presenter.Configure(uint32(max(width, 0)), uint32(max(height, 0)))
	})

	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	e.logger.Info("engine ready", "output_width", width, "output_height", height)
	return e, nil
}

// outputExtent rounds a framebuffer size up to whole LocalGroupSize tiles, at least one tile.
func outputExtent(width, height int) (uint32, uint32) {
	round := func(n int) uint32 {
		const g = renderer.LocalGroupSize
		if n < g {
			return g
		}
		return uint32((n + g - 1) / g * g)
	}
	return round(width), round(height)
}

// statusTitle formats the window title with the current view and rate.
func statusTitle(base string, zoom int32, rate uint32) string {
	if rate == 0 {
		return fmt.Sprintf("%s | %dx | paused", base, zoom)
	}
	return fmt.Sprintf("%s | %dx | %d gen/frame", base, zoom, rate)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	lastRender := time.Now()
	e.window.SetUpdateCallback(func() bool {
		if e.quit {
			return false
		}
		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if e.frameCallback != nil {
			e.frameCallback(dt)
		}

		generations := uint64(e.renderer.Rate()) + uint64(e.renderer.FrameStep())
		if err := e.frame(); err != nil {
			e.err = err
			e.logger.Error("frame failed", "error", err)
			return false
		}
		e.updateTitle()

		if e.profilingEnabled {
			e.profiler.Tick(generations)
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
		return true
	})

	e.window.ProcessMessages()
	e.release()
	return e.err
}

// frame records the renderer's commands and hands the recorder to the presenter, which appends
// the blit and submits.
func (e *engine) frame() error {
	rec, err := e.ctx.NewCommandRecorder("frame")
	if err != nil {
		return fmt.Errorf("engine: command recorder: %w", err)
	}
	if _, err := e.renderer.AddRenderCommands(rec); err != nil {
		rec.Release()
		return err
	}
	return e.presenter.Present(rec)
}

func (e *engine) updateTitle() {
	status := statusTitle(e.title, e.renderer.Zoom(), e.renderer.Rate())
	if status != e.shownStatus {
		e.window.SetTitle(status)
		e.shownStatus = status
	}
}

// release frees everything in reverse construction order. The renderer borrows the output image
// and the presenter borrows the surface, so both go first.
func (e *engine) release() {
	if e.presenter != nil {
		e.presenter.Release()
		e.presenter = nil
	}
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
	if e.output != nil {
		e.output.Release()
		e.output = nil
	}
	if e.ctx != nil {
		e.ctx.Release()
		e.ctx = nil
	}
	if e.window != nil {
		if err := e.window.Close(); err != nil && !errors.Is(err, window.ErrClosed) {
			e.logger.Warn("close window", "error", err)
		}
		e.window = nil
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) SetPresentMode(mode renderer.PresentMode) {
	e.presentMode = mode
	if e.presenter != nil {
		e.presenter.SetPresentMode(mode)
	}
}

func (e *engine) Quit() {
	e.quit = true
}
