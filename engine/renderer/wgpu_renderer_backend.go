package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// copyRowAlignment is the WebGPU alignment for bytesPerRow in buffer-to-texture copies.
const copyRowAlignment = 256

type wgpuContextImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// WGPUContext is the WebGPU compute context. Besides the ComputeContext operations it exposes
// the device objects and the extra pieces the presentation layer needs: render pipelines,
// samplers and command recorders.
type WGPUContext interface {
	ComputeContext

	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// Surface returns the window surface, or nil for a headless context.
	//
	// Returns:
	//   - *wgpu.Surface: the surface or nil
	Surface() *wgpu.Surface

	// RegisterRenderPipeline creates a render pipeline from p's vertex and fragment shaders,
	// drawing into a single color target of the given format.
	//
	// Parameters:
	//   - p: a render pipeline with vertex and fragment shaders set
	//   - format: the color target format, usually the surface format
	//
	// Returns:
	//   - error: an error if the shader modules, layout or pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline, format wgpu.TextureFormat) error

	// CreateSampler creates a sampler. Zero fields of data fall back to clamp-to-edge and nearest filtering.
	//
	// Parameters:
	//   - label: the debug label
	//   - data: the sampler configuration
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler, owned by the caller
	//   - error: an error if the sampler could not be created
	CreateSampler(label string, data common.SamplerStagingData) (*wgpu.Sampler, error)

	// NewCommandRecorder starts a new command sequence.
	//
	// Parameters:
	//   - label: the debug label of the command encoder
	//
	// Returns:
	//   - WGPUCommandRecorder: the recorder
	//   - error: an error if the command encoder could not be created
	NewCommandRecorder(label string) (WGPUCommandRecorder, error)

	// Release releases the device, adapter, surface and instance.
	Release()
}

// WGPUCommandRecorder records into one *wgpu.CommandEncoder. Each dispatch is its own compute
// pass; passes in one encoder execute in recording order.
type WGPUCommandRecorder interface {
	CommandRecorder

	// Encoder exposes the underlying encoder so other passes can be added to the same sequence.
	//
	// Returns:
	//   - *wgpu.CommandEncoder: the encoder, nil after Submit or Release
	Encoder() *wgpu.CommandEncoder

	// Submit finishes the encoder and submits the command buffer to the queue. The recorder cannot
	// be used afterwards.
	//
	// Returns:
	//   - error: an error if the encoder could not be finished
	Submit() error

	// Release drops the encoder without submitting. Safe to call after Submit.
	Release()
}

var _ WGPUContext = &wgpuContextImpl{}

// NewWGPUContext creates the WebGPU instance, adapter, device and queue. A nil surface
// descriptor creates a headless context.
//
// Parameters:
//   - surfaceDescriptor: the window surface descriptor, or nil
//   - forceFallbackAdapter: true to request a software adapter
//   - logger: the logger for device selection messages; nil uses slog.Default()
//
// Returns:
//   - WGPUContext: the context
//   - error: an error if no adapter or device could be acquired
func NewWGPUContext(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, logger *slog.Logger) (WGPUContext, error) {
	runtime.LockOSThread()
	c := &wgpuContextImpl{
		mu:       &sync.Mutex{},
		logger:   common.Coalesce(logger, slog.Default()),
		instance: wgpu.CreateInstance(nil),
	}
	if surfaceDescriptor != nil {
		c.surface = c.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}
	c.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Automata Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("wgpu: request device: %w", err)
	}
	c.device = d
	c.queue = d.GetQueue()

	c.logger.Info("gpu device ready", "software", forceFallbackAdapter, "headless", c.surface == nil)
	return c, nil
}

func (c *wgpuContextImpl) CreateImage(desc common.ImageDescriptor) (common.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dimension := desc.Dimension
	height := desc.Height
	if dimension == wgpu.TextureDimension1D {
		height = 1
	}

	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     desc.Usage,
		Dimension: dimension,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        desc.Format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("image %s: view: %w", desc.Label, err)
	}
	return &wgpuImage{
		label:     desc.Label,
		texture:   tex,
		view:      view,
		dimension: dimension,
		width:     desc.Width,
		height:    height,
		format:    desc.Format,
	}, nil
}

func (c *wgpuContextImpl) CreateBuffer(desc common.BufferDescriptor) (common.Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %s: %w", desc.Label, err)
	}
	return &wgpuBuffer{label: desc.Label, buffer: buf, size: desc.Size, queue: c.queue}, nil
}

func (c *wgpuContextImpl) CreateSampler(label string, data common.SamplerStagingData) (*wgpu.Sampler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(data.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(data.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(data.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(data.MagFilter, wgpu.FilterModeNearest),
		MinFilter:     common.Coalesce(data.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  common.Coalesce(data.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   data.LodMinClamp,
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	})
}

func (c *wgpuContextImpl) RegisterComputePipeline(p pipeline.Pipeline) error {
	if p.Type() != pipeline.PipelineTypeCompute {
		return fmt.Errorf("%s: not a compute pipeline", p.PipelineKey())
	}
	if err := p.Validate(); err != nil {
		return err
	}
	computeShader := p.Shader(shader.ShaderTypeCompute)

	c.mu.Lock()
	defer c.mu.Unlock()

	module, err := c.device.CreateShaderModule(computeShader.Module())
	if err != nil {
		return fmt.Errorf("shader module %s: %w", computeShader.Key(), err)
	}
	defer module.Release()

	layout, err := c.createPipelineLayout(p.PipelineKey(), computeShader.BindGroupLayoutDescriptors())
	if err != nil {
		return err
	}
	defer layout.Release()

	created, err := c.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  p.PipelineKey() + " Compute Pipeline",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: computeShader.EntryPoint(),
		},
	})
	if err != nil {
		return err
	}
	p.SetComputePipeline(created)
	return nil
}

func (c *wgpuContextImpl) RegisterRenderPipeline(p pipeline.Pipeline, format wgpu.TextureFormat) error {
	if p.Type() != pipeline.PipelineTypeRender {
		return fmt.Errorf("%s: not a render pipeline", p.PipelineKey())
	}
	if err := p.Validate(); err != nil {
		return err
	}
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	c.mu.Lock()
	defer c.mu.Unlock()

	vs, err := c.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("shader module %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := c.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("shader module %s: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	merged := MergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	layout, err := c.createPipelineLayout(p.PipelineKey(), merged)
	if err != nil {
		return err
	}
	defer layout.Release()

	state := p.RenderState()
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: state.WriteMask,
		Blend:     state.Blend,
	}

	created, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  state.Topology,
			FrontFace: state.FrontFace,
			CullMode:  state.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

// createPipelineLayout builds a pipeline layout with one bind group layout per declared group.
// Caller holds c.mu.
func (c *wgpuContextImpl) createPipelineLayout(label string, descriptors map[int]wgpu.BindGroupLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	maxGroup := -1
	for g := range descriptors {
		maxGroup = max(maxGroup, g)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	defer func() {
		for _, bgl := range bindGroupLayouts {
			if bgl != nil {
				bgl.Release()
			}
		}
	}()
	for g, desc := range descriptors {
		bgl, err := c.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, err)
		}
		bindGroupLayouts[g] = bgl
	}

	return c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: bindGroupLayouts,
	})
}

func (c *wgpuContextImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = c.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isStorageTexture := entry.StorageTexture.Format != wgpu.TextureFormatUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		switch {
		case isTexture || isStorageTexture:
			img, ok := provider.Image(binding).(*wgpuImage)
			if !ok || img == nil {
				return fmt.Errorf("%s: image binding %d has no wgpu image", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: img.view,
			}
		case isSampler:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("%s: sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			default:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}

			if provider.Buffer(binding) == nil {
				buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s binding %d", provider.Label(), binding),
					Size:  entry.Buffer.MinBindingSize,
					Usage: usage,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, &wgpuBuffer{
					label:  provider.Label(),
					buffer: buf,
					size:   entry.Buffer.MinBindingSize,
					queue:  c.queue,
				})
			}
			buf, ok := provider.Buffer(binding).(*wgpuBuffer)
			if !ok {
				return fmt.Errorf("%s: buffer binding %d has no wgpu buffer", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf.buffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

func (c *wgpuContextImpl) NewCommandRecorder(label string) (WGPUCommandRecorder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	encoder, err := c.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}
	return &wgpuCommandRecorder{encoder: encoder, queue: c.queue}, nil
}

func (c *wgpuContextImpl) Instance() *wgpu.Instance {
	return c.instance
}

func (c *wgpuContextImpl) Adapter() *wgpu.Adapter {
	return c.adapter
}

func (c *wgpuContextImpl) Device() *wgpu.Device {
	return c.device
}

func (c *wgpuContextImpl) Queue() *wgpu.Queue {
	return c.queue
}

func (c *wgpuContextImpl) Surface() *wgpu.Surface {
	return c.surface
}

func (c *wgpuContextImpl) Release() {
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

// wgpuImage is a texture with its default view.
type wgpuImage struct {
	label     string
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	dimension wgpu.TextureDimension
	width     uint32
	height    uint32
	format    wgpu.TextureFormat
}

func (i *wgpuImage) Label() string                    { return i.label }
func (i *wgpuImage) Dimension() wgpu.TextureDimension { return i.dimension }
func (i *wgpuImage) Width() uint32                    { return i.width }
func (i *wgpuImage) Height() uint32                   { return i.height }
func (i *wgpuImage) Format() wgpu.TextureFormat       { return i.format }

// View returns the default texture view, for binding the image outside a BindGroupProvider.
func (i *wgpuImage) View() *wgpu.TextureView { return i.view }

func (i *wgpuImage) Release() {
	if i.view != nil {
		i.view.Release()
		i.view = nil
	}
	if i.texture != nil {
		i.texture.Release()
		i.texture = nil
	}
}

// wgpuBuffer is a GPU buffer written through the queue.
type wgpuBuffer struct {
	label  string
	buffer *wgpu.Buffer
	size   uint64
	queue  *wgpu.Queue
}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() uint64  { return b.size }

func (b *wgpuBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("buffer %s: write of %d bytes at %d exceeds size %d", b.label, len(data), offset, b.size)
	}
	b.queue.WriteBuffer(b.buffer, offset, data)
	return nil
}

func (b *wgpuBuffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

type wgpuCommandRecorder struct {
	encoder *wgpu.CommandEncoder
	queue   *wgpu.Queue
}

func (r *wgpuCommandRecorder) CopyBufferToImage(src common.Buffer, dst common.Image) error {
	buf, ok := src.(*wgpuBuffer)
	if !ok {
		return fmt.Errorf("copy: %s is not a wgpu buffer", src.Label())
	}
	img, ok := dst.(*wgpuImage)
	if !ok {
		return fmt.Errorf("copy: %s is not a wgpu image", dst.Label())
	}
	bytesPerRow, err := copyBytesPerRow(img.format, img.width)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", img.label, err)
	}
	if need := uint64(bytesPerRow) * uint64(img.height); buf.size < need {
		return fmt.Errorf("copy to %s: buffer %s holds %d bytes, need %d", img.label, buf.label, buf.size, need)
	}

	r.encoder.CopyBufferToTexture(
		&wgpu.ImageCopyBuffer{
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bytesPerRow,
				RowsPerImage: img.height,
			},
			Buffer: buf.buffer,
		},
		&wgpu.ImageCopyTexture{
			Texture:  img.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{
			Width:              img.width,
			Height:             img.height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (r *wgpuCommandRecorder) CopyImageToImage(src, dst common.Image, extent [3]uint32) error {
	from, ok := src.(*wgpuImage)
	if !ok {
		return fmt.Errorf("copy: %s is not a wgpu image", src.Label())
	}
	to, ok := dst.(*wgpuImage)
	if !ok {
		return fmt.Errorf("copy: %s is not a wgpu image", dst.Label())
	}
	if from.format != to.format {
		return fmt.Errorf("copy %s to %s: format mismatch", from.label, to.label)
	}

	r.encoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{Texture: from.texture, Aspect: wgpu.TextureAspectAll},
		&wgpu.ImageCopyTexture{Texture: to.texture, Aspect: wgpu.TextureAspectAll},
		&wgpu.Extent3D{
			Width:              extent[0],
			Height:             extent[1],
			DepthOrArrayLayers: extent[2],
		},
	)
	return nil
}

func (r *wgpuCommandRecorder) DispatchCompute(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32, inline []byte) error {
	computePipeline, ok := p.Pipeline().(*wgpu.ComputePipeline)
	if !ok || computePipeline == nil {
		return fmt.Errorf("dispatch %s: pipeline not registered", p.PipelineKey())
	}
	bindGroup := provider.BindGroup()
	if bindGroup == nil {
		return fmt.Errorf("dispatch %s: binding set %s not initialised", p.PipelineKey(), provider.Label())
	}
	if inline != nil {
		buf, binding := provider.InlineBuffer()
		if buf == nil {
			return fmt.Errorf("dispatch %s: inline data given but no inline binding", p.PipelineKey())
		}
		write := bind_group_provider.BufferWrite{Provider: provider, Binding: binding, Data: inline}
		if err := write.Apply(); err != nil {
			return fmt.Errorf("dispatch %s: %w", p.PipelineKey(), err)
		}
	}

	pass := r.encoder.BeginComputePass(nil)
	pass.SetPipeline(computePipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workGroupCount[0], workGroupCount[1], workGroupCount[2])
	pass.End()
	pass.Release()
	return nil
}

func (r *wgpuCommandRecorder) Encoder() *wgpu.CommandEncoder {
	return r.encoder
}

func (r *wgpuCommandRecorder) Submit() error {
	if r.encoder == nil {
		return errors.New("recorder already submitted")
	}
	commandBuffer, err := r.encoder.Finish(nil)
	r.encoder.Release()
	r.encoder = nil
	if err != nil {
		return err
	}
	r.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (r *wgpuCommandRecorder) Release() {
	if r.encoder != nil {
		r.encoder.Release()
		r.encoder = nil
	}
}

// texelSize returns the byte size of one texel for the uncompressed formats this module copies.
func texelSize(format wgpu.TextureFormat) (uint32, bool) {
	switch format {
	case wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint:
		return 2, true
	case wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint, wgpu.TextureFormatR32Float,
		wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8Unorm:
		return 4, true
	default:
		return 0, false
	}
}

// copyBytesPerRow returns the row pitch of a tightly packed buffer-to-texture copy, which
// WebGPU requires to be a multiple of copyRowAlignment.
func copyBytesPerRow(format wgpu.TextureFormat, width uint32) (uint32, error) {
	size, ok := texelSize(format)
	if !ok {
		return 0, fmt.Errorf("unsupported copy format %v", format)
	}
	bytesPerRow := size * width
	if bytesPerRow%copyRowAlignment != 0 {
		return 0, fmt.Errorf("row of %d bytes is not a multiple of %d", bytesPerRow, copyRowAlignment)
	}
	return bytesPerRow, nil
}

// MergeBindGroupLayouts merges the bind group layout descriptors from a vertex and fragment shader
// into a unified set of descriptors suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func MergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertexLayouts), len(fragmentLayouts)))
	for g, desc := range vertexLayouts {
		merged[g] = desc
	}
	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(vDesc.Entries)+len(fDesc.Entries))
		for _, e := range vDesc.Entries {
			byBinding[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, found := byBinding[e.Binding]; found {
				existing.Visibility |= e.Visibility
				e = existing
			}
			byBinding[e.Binding] = e
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: vDesc.Label, Entries: entries}
	}
	return merged
}
