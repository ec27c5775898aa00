package mmapfile

import (
	"io"

	"github.com/leslie-fei/permem"
)

// Snapshot writes only the region's used prefix -- the header plus every
// byte up to its current freeptr -- rather than the whole backing buffer.
// A region typically reserves far more space than it ever uses, and the
// unused tail compresses to nothing but still costs I/O to copy; writing
// just the used prefix is what the original allocator's own file writer
// does (PersistentMemoryAllocator::used()).
func Snapshot(r *permem.Region, w io.Writer) error {
	used := r.GetMemoryInfo().Used
	_, err := w.Write(r.Bytes()[:used])
	return err
}

// IsFileAcceptable reports whether the mapped bytes of an existing file
// could plausibly hold a permem region, without attaching to it. It wraps
// permem.IsFileAcceptable so callers checking a file on disk don't need to
// map it read-write first.
func IsFileAcceptable(m *Memory) bool {
	return permem.IsFileAcceptable(m.Bytes())
}
