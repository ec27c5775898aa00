//go:build linux

// Package shm backs a permem region with SysV shared memory, so unrelated
// processes on the same host can attach to the same region by key without
// any of them needing to be the one that created it.
package shm

import (
	"fmt"
	"hash/crc32"

	"golang.org/x/sys/unix"
)

// Memory is a permem.Memory backed by a SysV shared memory segment.
type Memory struct {
	key   string
	id    int
	size  uint32
	slice []byte
}

// Open attaches to the shared memory segment identified by key, sized
// size, creating it if it does not already exist and create is true.
// Segments are keyed by the low 32 bits of key's CRC32, matching how the
// teacher's own shared-memory backing derived a numeric key from a string.
func Open(key string, size uint32, create bool) (*Memory, error) {
	flag := 0600
	if create {
		flag |= unix.IPC_CREAT
	}

	shmKey := int(crc32.ChecksumIEEE([]byte(key)))
	id, err := unix.SysvShmGet(shmKey, int(size), flag)
	if err != nil {
		return nil, fmt.Errorf("shm: shmget %s: %w", key, err)
	}

	slice, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: shmat %s: %w", key, err)
	}

	m := &Memory{
		key:   key,
		id:    id,
		size:  size,
		slice: slice,
	}
	return m, nil
}

// Bytes implements permem.Memory.
func (m *Memory) Bytes() []byte {
	return m.slice
}

// ID returns the underlying SysV shared memory identifier.
func (m *Memory) ID() int {
	return m.id
}

// Detach unmaps the segment from this process's address space without
// destroying it -- other attachers, including future ones, are unaffected.
func (m *Memory) Detach() error {
	if m.slice == nil {
		return nil
	}
	err := unix.SysvShmDetach(m.slice)
	m.slice = nil
	return err
}

// Destroy marks the segment for removal once every attacher has detached.
// Safe to call before or after Detach; irreversible.
func (m *Memory) Destroy() error {
	_, err := unix.SysvShmCtl(m.id, unix.IPC_RMID, nil)
	return err
}
