package renderer

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// WorldSize is the edge length of the square world grid in cells.
	WorldSize = 1024

	// ParameterSpace is the number of 16-bit entries in the parameter table.
	ParameterSpace = 128

	// LocalGroupSize is the X and Y workgroup size every kernel must declare.
	LocalGroupSize = 8

	// MinZoom and MaxZoom bound the number of output pixels per world cell.
	MinZoom = 1
	MaxZoom = 4
)

// WorldFormat is the texel format of both world images. Cells occupy the low 16 bits.
const WorldFormat = wgpu.TextureFormatR32Uint

// ParameterFormat is the texel format of the parameter image.
const ParameterFormat = wgpu.TextureFormatR16Uint

// renderer is the implementation of the Renderer interface.
type renderer struct {
	logger          *slog.Logger
	kernelSet       shader.KernelSet
	validateKernels bool

	// target is borrowed and never released.
	target common.Image

	worldSource common.Image
	worldTarget common.Image
	paramBuffer common.Buffer
	paramImage  common.Image

	randomize, simulate, finalize                         pipeline.Pipeline
	randomizeBindings, simulateBindings, finalizeBindings bind_group_provider.BindGroupProvider

	parameters [ParameterSpace]uint16
	view       shader.GPUViewParams
	rate       uint32
	frameStep  uint32
	reset      bool
}

// Renderer owns the double-buffered world of a GPU cellular automaton and turns it into a
// per-frame command sequence: parameter upload, optional re-seed, N simulation steps and a
// final pass that draws the world into a borrowed output image.
//
// The control methods only change CPU-side state; their effect reaches the GPU the next time
// AddRenderCommands is called. A Renderer is not safe for concurrent use.
type Renderer interface {
	// SetOffset pans the view. x and y are fractions of the world grid; the stored offset is
	// the value times WorldSize, truncated toward zero. Values are not range-checked.
	//
	// Parameters:
	//   - x: the horizontal offset as a fraction of the world width
	//   - y: the vertical offset as a fraction of the world height
	SetOffset(x, y float32)

	// OffsetZoom steps the zoom by one, clamped to [MinZoom, MaxZoom].
	//
	// Parameters:
	//   - increment: true to zoom in, false to zoom out
	OffsetZoom(increment bool)

	// OffsetRate doubles or halves the number of generations simulated per frame.
	// Increasing from 0 gives 1; decreasing from 1 gives 0.
	//
	// Parameters:
	//   - increase: true to double, false to halve
	OffsetRate(increase bool)

	// Pause sets the rate to 0.
	Pause()

	// SkipFrames adds n extra generations to the next frame only.
	//
	// Parameters:
	//   - n: the number of extra generations
	SkipFrames(n uint32)

	// ResetWorld re-seeds the world on the next frame and advances it one extra generation.
	ResetWorld()

	// SetParameters copies values into the parameter table by index, reinterpreting each value's
	// bit pattern as unsigned. Values past ParameterSpace are ignored.
	//
	// Parameters:
	//   - values: the parameter values, starting at index 0
	SetParameters(values []int16)

	// AddRenderCommands appends this frame's commands to rec and returns it. Recording errors are
	// returned as is; state consumed before the failing step stays consumed.
	//
	// Parameters:
	//   - rec: the recorder for the frame's command sequence
	//
	// Returns:
	//   - CommandRecorder: rec
	//   - error: the first recording error
	AddRenderCommands(rec CommandRecorder) (CommandRecorder, error)

	// Offset returns the view offset in world cells.
	Offset() [2]int32

	// Zoom returns the output pixels per world cell.
	Zoom() int32

	// Rate returns the generations simulated per frame.
	Rate() uint32

	// FrameStep returns the extra generations pending for the next frame.
	FrameStep() uint32

	// ResetRequested reports whether the next frame re-seeds the world.
	ResetRequested() bool

	// Parameters returns a copy of the parameter table.
	Parameters() []uint16

	// TargetSize returns the output image size the final pass is dispatched over.
	TargetSize() (width, height uint32)

	// Pipeline returns the compute pipeline registered under key, or nil.
	//
	// Parameters:
	//   - key: one of shader.KernelRandomize, shader.KernelSimulate or shader.KernelFinalize
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// Release frees every GPU resource the renderer allocated. The output image is left alone.
	Release()
}

var _ Renderer = &renderer{}

// roleBinding binds an image to the kernel binding tagged with identity and role.
type roleBinding struct {
	identity shader.AnnotationArg
	role     shader.AnnotationArg
	image    common.Image
}

// NewRenderer allocates the world images and parameter table on ctx, builds the three compute
// pipelines and their binding sets, and returns a renderer that will seed the world on its
// first frame. On error everything allocated so far is released.
//
// Parameters:
//   - ctx: the compute context to allocate on
//   - target: the 2D output image the final pass writes, borrowed for the renderer's lifetime
//   - opts: renderer options
//
// Returns:
//   - Renderer: the renderer
//   - error: ErrTargetNotTwoDimensional, a kernel error, or a wrapped allocation error
func NewRenderer(ctx ComputeContext, target common.Image, opts ...RendererBuilderOption) (_ Renderer, err error) {
	if target == nil || target.Dimension() != wgpu.TextureDimension2D {
		return nil, ErrTargetNotTwoDimensional
	}

	r := &renderer{
		logger:    slog.Default(),
		kernelSet: shader.DefaultKernels(),
		target:    target,
		view:      shader.GPUViewParams{Zoom: MinZoom},
		rate:      1,
		reset:     true,
	}
	for _, opt := range opts {
		opt(r)
	}

	defer func() {
		if err != nil {
			r.Release()
		}
	}()

	kernels, err := shader.LoadKernels(r.kernelSet, shader.WithValidation(r.validateKernels))
	if err != nil {
		return nil, fmt.Errorf("renderer: load kernels: %w", err)
	}
	for _, k := range []shader.Shader{kernels.Randomize, kernels.Simulate, kernels.Finalize} {
		if k.WorkgroupSize() != [3]uint32{LocalGroupSize, LocalGroupSize, 1} {
			return nil, fmt.Errorf("kernel %s declares %v: %w", k.Key(), k.WorkgroupSize(), ErrWorkgroupSize)
		}
	}

	worldUsage := wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst
	if r.worldSource, err = ctx.CreateImage(common.ImageDescriptor{
		Label:     "world source",
		Dimension: wgpu.TextureDimension2D,
		Width:     WorldSize,
		Height:    WorldSize,
		Format:    WorldFormat,
		Usage:     worldUsage,
	}); err != nil {
		return nil, fmt.Errorf("renderer: allocate world source: %w", err)
	}
	if r.worldTarget, err = ctx.CreateImage(common.ImageDescriptor{
		Label:     "world target",
		Dimension: wgpu.TextureDimension2D,
		Width:     WorldSize,
		Height:    WorldSize,
		Format:    WorldFormat,
		Usage:     worldUsage,
	}); err != nil {
		return nil, fmt.Errorf("renderer: allocate world target: %w", err)
	}
	if r.paramBuffer, err = ctx.CreateBuffer(common.BufferDescriptor{
		Label: "parameter staging",
		Size:  ParameterSpace * 2,
		Usage: wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("renderer: allocate parameter buffer: %w", err)
	}
	if r.paramImage, err = ctx.CreateImage(common.ImageDescriptor{
		Label:     "parameters",
		Dimension: wgpu.TextureDimension1D,
		Width:     ParameterSpace,
		Height:    1,
		Format:    ParameterFormat,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("renderer: allocate parameter image: %w", err)
	}

	if r.randomize, r.randomizeBindings, err = r.buildStage(ctx, kernels.Randomize, "", []roleBinding{
		{shader.AnnotationArgWorld, shader.AnnotationArgSource, r.worldSource},
	}); err != nil {
		return nil, err
	}
	if r.simulate, r.simulateBindings, err = r.buildStage(ctx, kernels.Simulate, "", []roleBinding{
		{shader.AnnotationArgWorld, shader.AnnotationArgSource, r.worldSource},
		{shader.AnnotationArgWorld, shader.AnnotationArgTarget, r.worldTarget},
		{shader.AnnotationArgParameters, shader.AnnotationArgTable, r.paramImage},
	}); err != nil {
		return nil, err
	}
	if r.finalize, r.finalizeBindings, err = r.buildStage(ctx, kernels.Finalize, shader.AnnotationArgViewParams, []roleBinding{
		{shader.AnnotationArgWorld, shader.AnnotationArgSource, r.worldSource},
		{shader.AnnotationArgOutput, shader.AnnotationArgImage, r.target},
	}); err != nil {
		return nil, err
	}

	r.logger.Debug("renderer ready",
		"world", WorldSize,
		"target_width", target.Width(),
		"target_height", target.Height(),
	)
	return r, nil
}

// buildStage registers the compute pipeline for s and builds its group 0 binding set from
// bindings. A non-empty inline struct type marks the generated buffer of that type as the
// dispatch's inline block.
func (r *renderer) buildStage(ctx ComputeContext, s shader.Shader, inline shader.AnnotationArg, bindings []roleBinding) (pipeline.Pipeline, bind_group_provider.BindGroupProvider, error) {
	opts := make([]bind_group_provider.BindGroupProviderOption, 0, len(bindings)+1)
	for _, b := range bindings {
		group, binding, ok := s.BindingFor(b.identity, b.role)
		if !ok || group != 0 {
			return nil, nil, fmt.Errorf("kernel %s: %s %s: %w", s.Key(), b.identity, b.role, ErrMissingBinding)
		}
		opts = append(opts, bind_group_provider.WithImage(binding, b.image))
	}
	if inline != "" {
		group, binding, ok := s.StructBinding(inline)
		if !ok || group != 0 {
			return nil, nil, fmt.Errorf("kernel %s: %s: %w", s.Key(), inline, ErrMissingBinding)
		}
		opts = append(opts, bind_group_provider.WithInlineBinding(binding))
	}

	p := pipeline.NewPipeline(s.Key(), pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s))
	if err := ctx.RegisterComputePipeline(p); err != nil {
		return nil, nil, fmt.Errorf("renderer: register %s pipeline: %w", s.Key(), err)
	}

	provider := bind_group_provider.NewBindGroupProvider(s.Key(), opts...)
	if err := ctx.InitBindGroup(provider, s.BindGroupLayoutDescriptor(0)); err != nil {
		provider.Release()
		p.Release()
		return nil, nil, fmt.Errorf("renderer: bind %s: %w", s.Key(), err)
	}
	return p, provider, nil
}

func (r *renderer) SetOffset(x, y float32) {
	r.view.Offset[0] = int32(x * WorldSize)
	r.view.Offset[1] = int32(y * WorldSize)
}

func (r *renderer) OffsetZoom(increment bool) {
	if increment {
		r.view.Zoom++
	} else {
		r.view.Zoom--
	}
	r.view.Zoom = min(max(r.view.Zoom, MinZoom), MaxZoom)
	r.logger.Info("zoom changed", "zoom", r.view.Zoom)
}

func (r *renderer) OffsetRate(increase bool) {
	switch {
	case increase && r.rate == 0:
		r.rate = 1
	case increase:
		if r.rate <= math.MaxUint32/2 {
			r.rate *= 2
		}
	case r.rate > 1:
		r.rate /= 2
	default:
		r.rate = 0
	}
	r.logger.Info("rate changed", "generations_per_frame", r.rate)
}

func (r *renderer) Pause() {
	r.rate = 0
}

func (r *renderer) SkipFrames(n uint32) {
	r.frameStep += n
}

func (r *renderer) ResetWorld() {
	r.reset = true
	r.frameStep++
	r.logger.Info("world reset requested")
}

func (r *renderer) SetParameters(values []int16) {
	if len(values) > ParameterSpace {
		r.logger.Warn("parameter table overflow, extra values ignored",
			"given", len(values),
			"capacity", ParameterSpace,
		)
		values = values[:ParameterSpace]
	}
	for i, v := range values {
		r.parameters[i] = uint16(v)
	}
}

func (r *renderer) AddRenderCommands(rec CommandRecorder) (CommandRecorder, error) {
	worldGroups := [3]uint32{WorldSize / LocalGroupSize, WorldSize / LocalGroupSize, 1}
	worldExtent := [3]uint32{WorldSize, WorldSize, 1}

	if err := r.paramBuffer.Write(0, r.parameterBytes()); err != nil {
		return rec, fmt.Errorf("frame: upload parameters: %w", err)
	}
	if err := rec.CopyBufferToImage(r.paramBuffer, r.paramImage); err != nil {
		return rec, fmt.Errorf("frame: upload parameters: %w", err)
	}

	if r.reset {
		if err := rec.DispatchCompute(r.randomize, r.randomizeBindings, worldGroups, nil); err != nil {
			return rec, fmt.Errorf("frame: randomize: %w", err)
		}
		r.reset = false
	}

	steps := r.rate + r.frameStep
	for range steps {
		if err := rec.DispatchCompute(r.simulate, r.simulateBindings, worldGroups, nil); err != nil {
			return rec, fmt.Errorf("frame: simulate: %w", err)
		}
		if err := rec.CopyImageToImage(r.worldTarget, r.worldSource, worldExtent); err != nil {
			return rec, fmt.Errorf("frame: swap: %w", err)
		}
	}
	r.frameStep = 0

	if err := rec.CopyImageToImage(r.worldTarget, r.worldSource, worldExtent); err != nil {
		return rec, fmt.Errorf("frame: commit: %w", err)
	}

	targetGroups := [3]uint32{r.target.Width() / LocalGroupSize, r.target.Height() / LocalGroupSize, 1}
	if err := rec.DispatchCompute(r.finalize, r.finalizeBindings, targetGroups, r.view.Marshal()); err != nil {
		return rec, fmt.Errorf("frame: finalize: %w", err)
	}
	return rec, nil
}

// parameterBytes packs the parameter table little-endian, two bytes per entry.
func (r *renderer) parameterBytes() []byte {
	buf := make([]byte, ParameterSpace*2)
	for i, v := range r.parameters {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}

func (r *renderer) Offset() [2]int32 {
	return r.view.Offset
}

func (r *renderer) Zoom() int32 {
	return r.view.Zoom
}

func (r *renderer) Rate() uint32 {
	return r.rate
}

func (r *renderer) FrameStep() uint32 {
	return r.frameStep
}

func (r *renderer) ResetRequested() bool {
	return r.reset
}

func (r *renderer) Parameters() []uint16 {
	out := make([]uint16, ParameterSpace)
	copy(out, r.parameters[:])
	return out
}

func (r *renderer) TargetSize() (uint32, uint32) {
	return r.target.Width(), r.target.Height()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	switch key {
	case shader.KernelRandomize:
		return r.randomize
	case shader.KernelSimulate:
		return r.simulate
	case shader.KernelFinalize:
		return r.finalize
	default:
		return nil
	}
}

func (r *renderer) Release() {
	for _, provider := range []bind_group_provider.BindGroupProvider{r.randomizeBindings, r.simulateBindings, r.finalizeBindings} {
		if provider != nil {
			provider.Release()
		}
	}
	r.randomizeBindings, r.simulateBindings, r.finalizeBindings = nil, nil, nil

	for _, p := range []pipeline.Pipeline{r.randomize, r.simulate, r.finalize} {
		if p != nil {
			p.Release()
		}
	}
	r.randomize, r.simulate, r.finalize = nil, nil, nil

	for _, img := range []common.Image{r.worldSource, r.worldTarget, r.paramImage} {
		if img != nil {
			img.Release()
		}
	}
	r.worldSource, r.worldTarget, r.paramImage = nil, nil, nil

	if r.paramBuffer != nil {
		r.paramBuffer.Release()
		r.paramBuffer = nil
	}
}
