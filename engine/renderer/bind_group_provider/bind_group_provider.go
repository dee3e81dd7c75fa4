package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-automata/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup and bindGroupLayout are created by the compute context in InitBindGroup and owned by the provider.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout

	// images are borrowed: the provider binds them but never releases them.
	images map[int]common.Image
	// buffers are owned, usually created by InitBindGroup for buffer bindings nobody supplied.
	buffers map[int]common.Buffer
	// samplers are owned.
	samplers map[int]*wgpu.Sampler

	// inlineBinding is the binding of the buffer that carries per-dispatch inline data, -1 if none.
	inlineBinding int
}

// BindGroupProvider is one binding set of a kernel: the images, buffers and samplers bound at
// each binding index, plus the GPU bind group built from them.
//
// Usage pattern:
//  1. The orchestrator creates a provider with the images each binding expects
//  2. ComputeContext.InitBindGroup(provider, layout) creates the layout, any missing buffers and the bind group
//  3. Command recording binds BindGroup() and writes inline data into InlineBuffer()
//  4. Release frees the bind group, layout, buffers and samplers; images are left to their owner
type BindGroupProvider interface {
	// Release releases the GPU objects owned by this provider. Bound images are not released.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Image returns the image bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - common.Image: the image or nil
	Image(binding int) common.Image

	// Images returns all bound images keyed by binding index.
	//
	// Returns:
	//   - map[int]common.Image: images keyed by binding index
	Images() map[int]common.Image

	// Buffer returns the buffer bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - common.Buffer: the buffer or nil
	Buffer(binding int) common.Buffer

	// Buffers returns all bound buffers keyed by binding index.
	//
	// Returns:
	//   - map[int]common.Buffer: buffers keyed by binding index
	Buffers() map[int]common.Buffer

	// Sampler returns the sampler bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// Samplers returns all bound samplers keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.Sampler: samplers keyed by binding index
	Samplers() map[int]*wgpu.Sampler

	// InlineBuffer returns the buffer that receives per-dispatch inline data.
	//
	// Returns:
	//   - common.Buffer: the inline buffer, nil if none is configured or it is not created yet
	//   - int: the inline binding index, -1 if none is configured
	InlineBuffer() (common.Buffer, int)

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetImage binds an image at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - img: the image to bind
	SetImage(binding int, img common.Image)

	// SetBuffer binds a buffer at a binding index. The provider takes ownership.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to bind
	SetBuffer(binding int, buf common.Buffer)

	// SetSampler binds a sampler at a binding index. The provider takes ownership.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to bind
	SetSampler(binding int, s *wgpu.Sampler)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label of the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:         label,
		images:        make(map[int]common.Image),
		buffers:       make(map[int]common.Buffer),
		samplers:      make(map[int]*wgpu.Sampler),
		inlineBinding: -1,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Image(binding int) common.Image {
	return p.images[binding]
}

func (p *bindGroupProvider) Images() map[int]common.Image {
	return p.images
}

func (p *bindGroupProvider) Buffer(binding int) common.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]common.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) Samplers() map[int]*wgpu.Sampler {
	return p.samplers
}

func (p *bindGroupProvider) InlineBuffer() (common.Buffer, int) {
	if p.inlineBinding < 0 {
		return nil, -1
	}
	return p.buffers[p.inlineBinding], p.inlineBinding
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetImage(binding int, img common.Image) {
	p.images[binding] = img
}

func (p *bindGroupProvider) SetBuffer(binding int, buf common.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	clear(p.images)
}
