// Package mmapfile backs a permem region with a memory-mapped file, so the
// region survives process restarts and can be inspected by a separate
// process (or by cmd/permemctl) after the writer has exited or crashed.
package mmapfile

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/leslie-fei/permem"
)

// Memory is a permem.Memory backed by a file mapped with mmap-go.
type Memory struct {
	f    *os.File
	mm   mmap.MMap
	size uint32
}

// Open maps path read-write, creating it (and truncating it to size) if it
// does not already exist. An existing file shorter than size is extended;
// an existing file at least size bytes long is mapped as-is so an
// already-initialized region can be reattached without losing its content.
func Open(path string, size uint32) (*Memory, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if uint32(info.Size()) < size {
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	mm, err := mmap.MapRegion(f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Memory{f: f, mm: mm, size: size}, nil
}

// OpenReadOnly maps an existing file read-only. The file must already be at
// least size bytes long: there is no fresh region to initialize here, and
// initializing one requires writing, so a missing file yields ErrReadOnly
// rather than a bare os.PathError.
func OpenReadOnly(path string, size uint32) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, permem.ErrReadOnly
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if uint32(info.Size()) < size {
		_ = f.Close()
		return nil, fmt.Errorf("mmapfile: %s is %d bytes, want at least %d", path, info.Size(), size)
	}

	mm, err := mmap.MapRegion(f, int(size), mmap.RDONLY, 0, 0)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Memory{f: f, mm: mm, size: size}, nil
}

// Bytes implements permem.Memory.
func (m *Memory) Bytes() []byte {
	return m.mm
}

// Flush pushes dirty pages to the underlying file without unmapping.
func (m *Memory) Flush() error {
	return m.mm.Flush()
}

// Close unmaps the region and closes the underlying file.
func (m *Memory) Close() error {
	if err := m.mm.Unmap(); err != nil {
		_ = m.f.Close()
		return err
	}
	return m.f.Close()
}
