package bind_group_provider

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

type fakeImage struct {
	label    string
	released bool
}

func (f *fakeImage) Label() string                    { return f.label }
func (f *fakeImage) Dimension() wgpu.TextureDimension { return wgpu.TextureDimension2D }
func (f *fakeImage) Width() uint32                    { return 4 }
func (f *fakeImage) Height() uint32                   { return 4 }
func (f *fakeImage) Format() wgpu.TextureFormat       { return wgpu.TextureFormatR32Uint }
func (f *fakeImage) Release()                         { f.released = true }

type fakeBuffer struct {
	data     []byte
	released bool
}

func (f *fakeBuffer) Label() string { return "fake" }
func (f *fakeBuffer) Size() uint64  { return uint64(len(f.data)) }
func (f *fakeBuffer) Release()      { f.released = true }
func (f *fakeBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(f.data)) {
		return errors.New("write out of range")
	}
	copy(f.data[offset:], data)
	return nil
}

func TestNewBindGroupProvider(t *testing.T) {
	img := &fakeImage{label: "world"}
	buf := &fakeBuffer{data: make([]byte, 16)}
	p := NewBindGroupProvider("finalize", WithImage(0, img), WithBuffer(2, buf), WithInlineBinding(2))

	if p.Label() != "finalize" {
		t.Errorf("Label() = %q, want finalize", p.Label())
	}
	if p.Image(0) != img {
		t.Errorf("Image(0) = %v, want %v", p.Image(0), img)
	}
	if p.Image(1) != nil {
		t.Errorf("Image(1) = %v, want nil", p.Image(1))
	}
	if got, binding := p.InlineBuffer(); got != buf || binding != 2 {
		t.Errorf("InlineBuffer() = %v, %d, want %v, 2", got, binding, buf)
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Error("bind group objects set before InitBindGroup")
	}
}

func TestInlineBufferUnset(t *testing.T) {
	p := NewBindGroupProvider("simulate")
	if buf, binding := p.InlineBuffer(); buf != nil || binding != -1 {
		t.Errorf("InlineBuffer() = %v, %d, want nil, -1", buf, binding)
	}
}

func TestReleaseKeepsBorrowedImages(t *testing.T) {
	img := &fakeImage{label: "world"}
	buf := &fakeBuffer{data: make([]byte, 16)}
	p := NewBindGroupProvider("p", WithImage(0, img))
	p.SetBuffer(1, buf)

	p.Release()

	if img.released {
		t.Error("Release() released a borrowed image")
	}
	if !buf.released {
		t.Error("Release() did not release an owned buffer")
	}
	if len(p.Images()) != 0 || len(p.Buffers()) != 0 {
		t.Errorf("after Release() images=%d buffers=%d, want 0, 0", len(p.Images()), len(p.Buffers()))
	}
}

func TestBufferWriteApply(t *testing.T) {
	buf := &fakeBuffer{data: make([]byte, 8)}
	p := NewBindGroupProvider("p", WithBuffer(3, buf))

	tests := []struct {
		name    string
		write   BufferWrite
		wantErr bool
	}{
		{"in range", BufferWrite{Provider: p, Binding: 3, Offset: 4, Data: []byte{1, 2, 3, 4}}, false},
		{"missing binding", BufferWrite{Provider: p, Binding: 0, Data: []byte{1}}, true},
		{"out of range", BufferWrite{Provider: p, Binding: 3, Offset: 8, Data: []byte{1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.write.Apply()
			if (err != nil) != tt.wantErr {
				t.Errorf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if want := []byte{0, 0, 0, 0, 1, 2, 3, 4}; !bytes.Equal(buf.data, want) {
		t.Errorf("buffer = %v, want %v", buf.data, want)
	}
}
