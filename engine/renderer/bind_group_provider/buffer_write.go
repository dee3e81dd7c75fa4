package bind_group_provider

import "fmt"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Apply queues the write on the buffer bound at w.Binding.
//
// Returns:
//   - error: an error if no buffer is bound there or the buffer rejects the write
func (w BufferWrite) Apply() error {
	buf := w.Provider.Buffer(w.Binding)
	if buf == nil {
		return fmt.Errorf("provider %s: no buffer at binding %d", w.Provider.Label(), w.Binding)
	}
	if err := buf.Write(w.Offset, w.Data); err != nil {
		return fmt.Errorf("provider %s: binding %d: %w", w.Provider.Label(), w.Binding, err)
	}
	return nil
}
