package surface

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BlitKey is the pipeline key of the presenter's fullscreen blit.
const BlitKey = "blit"

// ErrHeadless is returned by NewPresenter for a context created without a window surface.
var ErrHeadless = errors.New("surface: context has no window surface")

// Presenter draws the automaton's output image onto the window surface. The image is stretched
// to the surface size.
type Presenter interface {
	// Configure (re)configures the surface for a new framebuffer size. A zero dimension marks the
	// window minimized; frames are then submitted without presenting.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	Configure(width, height uint32)

	// SetPresentMode switches between vsync and uncapped presentation and reconfigures the surface.
	SetPresentMode(mode renderer.PresentMode)

	// Present appends the blit to rec, submits it and presents the surface texture. rec is consumed
	// whether or not an error is returned.
	//
	// Parameters:
	//   - rec: the frame's recorder, holding the compute work that fills the output image
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired or the commands not submitted
	Present(rec renderer.WGPUCommandRecorder) error

	// Format returns the surface texture format.
	Format() wgpu.TextureFormat

	// Release frees the blit pipeline and its binding set. The output image and the surface stay
	// with their owners.
	Release()
}

type presenter struct {
	logger  *slog.Logger
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device

	format      wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode renderer.PresentMode
	width       uint32
	height      uint32

	blit     pipeline.Pipeline
	bindings bind_group_provider.BindGroupProvider
}

var _ Presenter = &presenter{}

// PresenterBuilderOption configures the presenter created by NewPresenter.
type PresenterBuilderOption func(*presenter)

// WithPresentMode sets the initial present mode. Defaults to renderer.PresentModeVSync.
func WithPresentMode(mode renderer.PresentMode) PresenterBuilderOption {
	return func(p *presenter) {
		p.presentMode = mode
	}
}

// WithLogger sets the logger for surface configuration messages.
func WithLogger(l *slog.Logger) PresenterBuilderOption {
	return func(p *presenter) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPresenter builds the blit pipeline that samples output and configures ctx's surface to
// width x height.
//
// Parameters:
//   - ctx: a context created with a window surface
//   - output: the image the Finalize kernel writes, borrowed
//   - width: the initial framebuffer width
//   - height: the initial framebuffer height
//   - opts: presenter options
//
// Returns:
//   - Presenter: the presenter
//   - error: ErrHeadless, or an error creating the blit shader, pipeline or binding set
func NewPresenter(ctx renderer.WGPUContext, output common.Image, width, height uint32, opts ...PresenterBuilderOption) (_ Presenter, err error) {
	if ctx.Surface() == nil {
		return nil, ErrHeadless
	}
	p := &presenter{
		logger:  slog.Default(),
		surface: ctx.Surface(),
		adapter: ctx.Adapter(),
		device:  ctx.Device(),
	}
	for _, opt := range opts {
		opt(p)
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	capabilities := p.surface.GetCapabilities(p.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return nil, errors.New("surface: adapter reports no surface formats")
	}
	p.format = capabilities.Formats[0]
	p.alphaMode = capabilities.AlphaModes[0]

	vs, fs, err := blitShaders()
	if err != nil {
		return nil, err
	}
	p.blit = pipeline.NewPipeline(BlitKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err = ctx.RegisterRenderPipeline(p.blit, p.format); err != nil {
		return nil, fmt.Errorf("surface: register blit pipeline: %w", err)
	}

	sampler, err := ctx.CreateSampler("output sampler", common.SamplerStagingData{})
	if err != nil {
		return nil, fmt.Errorf("surface: create sampler: %w", err)
	}
	imageGroup, imageBinding, _ := fs.BindingFor(shader.AnnotationArgOutput, shader.AnnotationArgImage)
	samplerGroup, samplerBinding, _ := fs.BindingFor(shader.AnnotationArgOutput, shader.AnnotationArgSampler)
	p.bindings = bind_group_provider.NewBindGroupProvider(BlitKey,
		bind_group_provider.WithImage(imageBinding, output),
		bind_group_provider.WithSampler(samplerBinding, sampler),
	)
	if imageGroup != 0 || samplerGroup != 0 {
		return nil, fmt.Errorf("surface: blit bindings must live in group 0: %w", renderer.ErrMissingBinding)
	}

	layouts := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	if err = ctx.InitBindGroup(p.bindings, layouts[0]); err != nil {
		return nil, fmt.Errorf("surface: bind blit: %w", err)
	}

	p.Configure(width, height)
	return p, nil
}

// blitShaders loads the blit source once per stage.
func blitShaders() (vertex, fragment shader.Shader, err error) {
	vertex, err = shader.NewShaderFromSource(BlitKey, shader.ShaderTypeVertex, shader.BlitSource)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: blit vertex stage: %w", err)
	}
	fragment, err = shader.NewShaderFromSource(BlitKey, shader.ShaderTypeFragment, shader.BlitSource)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: blit fragment stage: %w", err)
	}
	if _, _, ok := fragment.BindingFor(shader.AnnotationArgOutput, shader.AnnotationArgImage); !ok {
		return nil, nil, fmt.Errorf("surface: blit output image: %w", renderer.ErrMissingBinding)
	}
	if _, _, ok := fragment.BindingFor(shader.AnnotationArgOutput, shader.AnnotationArgSampler); !ok {
		return nil, nil, fmt.Errorf("surface: blit output sampler: %w", renderer.ErrMissingBinding)
	}
	return vertex, fragment, nil
}

// wgpuPresentMode maps a PresentMode onto the WebGPU present mode.
func wgpuPresentMode(mode renderer.PresentMode) wgpu.PresentMode {
	if mode == renderer.PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

func (p *presenter) Configure(width, height uint32) {
	p.width, p.height = width, height
	if width == 0 || height == 0 {
		return
	}
	p.surface.Configure(p.adapter, p.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      p.format,
		Width:       width,
		Height:      height,
		PresentMode: wgpuPresentMode(p.presentMode),
		AlphaMode:   p.alphaMode,
	})
	p.logger.Debug("surface configured", "width", width, "height", height)
}

func (p *presenter) SetPresentMode(mode renderer.PresentMode) {
	p.presentMode = mode
	p.Configure(p.width, p.height)
}

func (p *presenter) Present(rec renderer.WGPUCommandRecorder) error {
	if p.width == 0 || p.height == 0 {
		return rec.Submit()
	}

	surfaceTexture, err := p.surface.GetCurrentTexture()
	if err != nil {
		rec.Release()
		return fmt.Errorf("surface: acquire texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		rec.Release()
		return fmt.Errorf("surface: texture view: %w", err)
	}
	defer view.Release()

	pass := rec.Encoder().BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "blit pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{},
		}},
	})
	pass.SetPipeline(p.blit.Pipeline().(*wgpu.RenderPipeline))
	pass.SetBindGroup(0, p.bindings.BindGroup(), nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()

	if err := rec.Submit(); err != nil {
		return fmt.Errorf("surface: submit: %w", err)
	}
	p.surface.Present()
	return nil
}

func (p *presenter) Format() wgpu.TextureFormat {
	return p.format
}

func (p *presenter) Release() {
	if p.bindings != nil {
		p.bindings.Release()
		p.bindings = nil
	}
	if p.blit != nil {
		p.blit.Release()
		p.blit = nil
	}
}
