package payload

import "fmt"

// Buffer is an append-only byte buffer with a hard capacity.
// Every write is checked against the remaining space and fails as a whole.
type Buffer struct {
	data     []byte
	capacity int
}

// NewBuffer returns an empty buffer that accepts at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity), capacity: capacity}
}

// WriteString appends s or, if it does not fit, leaves the buffer untouched.
func (b *Buffer) WriteString(s string) error {
	if len(s) > b.Remaining() {
		return fmt.Errorf("%w: need %d bytes, %d of %d left", ErrBufferOverflow, len(s), b.Remaining(), b.capacity)
	}
	b.data = append(b.data, s...)
	return nil
}

// Write appends p with the same all-or-nothing rule as WriteString.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.WriteString(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Len is the number of bytes written so far.
func (b *Buffer) Len() int { return len(b.data) }

// Remaining is the number of bytes that can still be written.
func (b *Buffer) Remaining() int { return b.capacity - len(b.data) }

// Bytes returns a copy of the written bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}
