// Package heap provides an anonymous, process-local backing for permem
// regions: a plain Go byte slice that never leaves the process and vanishes
// with it. Useful for tests and for single-process producer/consumer pairs
// that only need the lock-free allocation model, not durability or
// cross-process sharing.
package heap

// Memory is a permem.Memory backed by a heap-allocated byte slice.
type Memory struct {
	buf []byte
}

// New allocates a fresh, zeroed region of the given size.
func New(size uint32) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// Bytes implements permem.Memory.
func (m *Memory) Bytes() []byte {
	return m.buf
}
