package permem

import (
	"sync/atomic"
	"unsafe"
)

// Reference is a non-zero byte offset from the start of a region, always a
// multiple of the region's AllocAlignment, always pointing to a block
// header. The zero value means "none".
type Reference uint32

const (
	blockCookieFree      uint32 = 0
	blockCookieAllocated uint32 = 0xBADCAFEE
)

// listTailMarker is stored in a published block's next field while it is
// the last element of the publication list. It can never collide with a
// real Reference, since every real reference is at least headEnd, which
// is always well past the region header. Distinguishing "tail" (nonzero)
// from "never published" (zero) is what lets MakeIterable be idempotent
// without re-linking an already-published tail block into a self-loop.
const listTailMarker uint32 = 1

// blockHeader is the fixed, persisted per-object header. size and typ are
// written before cookie; cookie is written last (release) so a reader that
// observes a committed cookie (acquire) is guaranteed to see a consistent
// size and typ per spec section 4.2 step 4's "last-write-wins publication".
type blockHeader struct {
	size   uint32
	typ    atomic.Uint32
	cookie atomic.Uint32
	next   atomic.Uint32
}

var blockHeaderSize = uint32(unsafe.Sizeof(blockHeader{}))

// alignUp rounds n up to the next multiple of align. align must be a power
// of two.
func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// isPowerOfTwo reports whether n is a nonzero power of two.
func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
