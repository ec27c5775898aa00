// Package permem implements a lock-free, append-only object allocator over
// a caller-supplied fixed-size byte region. The region may live in
// anonymous process memory, in a memory-mapped file, or in memory shared by
// multiple processes (see the backing/ subpackages) -- Region itself only
// ever sees a []byte and never assumes anything about who else can see it.
//
// Many writers may allocate and publish typed objects concurrently using
// only atomic operations; any reader, including one that opens the region
// long after the writer exited or crashed, can enumerate every published
// object and interpret it by its type tag. There is no locking, no
// deallocation, and no defragmentation -- see spec.md for the full design
// rationale.
package permem

import (
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// regionCookie identifies this on-disk/in-memory format and version. A
// region whose header does not start with this value (or with all zero
// bytes, meaning "never initialized") is either foreign or corrupted.
const regionCookie uint32 = 0x8FE38B7E

// reservedHeaderWords pads regionHeader so that future fields can be added
// without reflowing the offsets of existing ones (spec.md's own Open
// Question about header padding).
const reservedHeaderWords = 8

// regionHeader is the fixed-offset, persisted region header. Per spec
// section 3, everything except freeptr/head/tail/corrupt/full is written
// once at initialization and never changes again.
type regionHeader struct {
	cookie         uint32
	id             uint32
	nameRef        uint32
	totalSize      uint32
	pageSize       uint32
	allocAlignment uint32

	freeptr atomic.Uint32
	head    atomic.Uint32 // first block on the iterable list, or 0
	tail    atomic.Uint32 // best-effort hint to the last block, or 0
	corrupt atomic.Uint32 // sticky, nonzero once set
	full    atomic.Uint32 // sticky, nonzero once set

	reserved [reservedHeaderWords]uint32
}

var regionHeaderSize = uint32(unsafe.Sizeof(regionHeader{}))

// MemoryInfo is a point-in-time snapshot of a region's capacity. It may
// race with concurrent allocation (spec section 4.6).
type MemoryInfo struct {
	Total uint32
	Free  uint32
	Used  uint32
}

// Region is an attached view over a byte region. Multiple Regions -- in the
// same process or different ones -- may be attached to the same underlying
// bytes simultaneously; all coordination between them happens through
// atomic operations on the shared bytes, never through Region's own fields.
type Region struct {
	mem      Memory
	buf      []byte
	header   *regionHeader
	base     uintptr
	headEnd  uint32 // header_end: first byte available for blocks
	align    uint32 // sanitized alloc alignment, always a power of two
	pageSize uint32 // sanitized page size, always a power of two
	readOnly bool
	maxHops  uint32

	// sizeOK is false when the header's claimed total_size exceeds the
	// actual backing buffer -- a mismatched reattach or an adversarial
	// header (spec section 1's threat model) -- or when the header's cookie
	// is foreign. Allocate refuses outright rather than trust
	// hdr.totalSize as an in-bounds limit.
	sizeOK bool

	panicOnInvalid bool

	recorder Recorder
	logger   *zap.Logger

	// roCorrupt shadows the sticky corrupt flag for read-only attachers so
	// they never write into memory they don't own (spec section 4.1).
	roCorrupt atomic.Uint32
}

// Open attaches to mem, initializing it if it has never been used before
// (and the caller is not read-only), or attaching to its existing state
// otherwise. See spec section 4.1 for the full attach/init/corrupt
// three-way branch.
func Open(mem Memory, opts Options) (*Region, error) {
	buf := mem.Bytes()
	if uint32(len(buf)) < regionHeaderSize {
		return nil, ErrRegionTooSmall
	}

	hdr := (*regionHeader)(unsafe.Pointer(&buf[0]))
	r := &Region{
		mem:            mem,
		buf:            buf,
		header:         hdr,
		base:           uintptr(unsafe.Pointer(&buf[0])),
		readOnly:       opts.ReadOnly,
		recorder:       recorderOrDefault(opts.Recorder),
		logger:         loggerOrDefault(opts.Logger),
		panicOnInvalid: opts.PanicOnInvalidAlloc,
	}

	switch hdr.cookie {
	case regionCookie:
		r.attach()
		r.logger.Debug("permem: attached existing region",
			zap.Uint32("id", hdr.id), zap.Uint32("total_size", hdr.totalSize))
	case 0:
		if opts.ReadOnly {
			return nil, ErrUninitialized
		}
		if err := r.initFresh(buf, opts); err != nil {
			return nil, err
		}
		r.logger.Info("permem: initialized fresh region",
			zap.Uint32("id", r.header.id), zap.Uint32("total_size", r.header.totalSize),
			zap.Uint32("page_size", r.header.pageSize))
	default:
		// Foreign or scrambled cookie: still usable for read-only
		// inspection, but never for allocation.
		r.attach()
		r.sizeOK = false
		r.setCorrupt()
		r.logger.Warn("permem: region cookie mismatch, marking corrupt",
			zap.Uint32("cookie", hdr.cookie))
	}

	return r, nil
}

// initFresh validates opts and writes a brand-new region header. cookie is
// written last so a reader can distinguish a fully-initialized region from
// one that crashed mid-init (spec section 4.1).
func (r *Region) initFresh(buf []byte, opts Options) error {
	totalSize := uint32(len(buf))
	if uint64(totalSize) > 1<<31-1 {
		return ErrTotalSizeTooLarge
	}

	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if !isPowerOfTwo(pageSize) || pageSize > totalSize || totalSize%pageSize != 0 {
		return ErrBadPageSize
	}

	align := opts.AllocAlignment
	if align == 0 {
		align = DefaultAllocAlignment
	}
	if !isPowerOfTwo(align) || align < 8 {
		return ErrBadAlignment
	}

	hdr := r.header
	hdr.id = opts.ID
	hdr.totalSize = totalSize
	hdr.pageSize = pageSize
	hdr.allocAlignment = align
	hdr.freeptr.Store(alignUp(regionHeaderSize, align))
	hdr.head.Store(0)
	hdr.tail.Store(0)
	hdr.corrupt.Store(0)
	hdr.full.Store(0)

	r.align = align
	r.pageSize = pageSize
	r.headEnd = hdr.freeptr.Load()
	r.maxHops = maxHopsFor(totalSize, align)
	r.sizeOK = true

	if opts.Name != "" {
		ref, err := r.rawAllocName(opts.Name)
		if err != nil {
			return err
		}
		hdr.nameRef = uint32(ref)
	}

	// Cookie last: a crash here leaves cookie == 0, i.e. still "fresh" to
	// the next opener, never a half-initialized non-zero header.
	hdr.cookie = regionCookie
	return nil
}

// attach reads header_end/max-hops from an already-initialized header. The
// caller's id/name/page_size/alloc_alignment are ignored, per spec section
// 4.1 ("documented behavior so that readers opening existing regions
// needn't know identifying metadata").
func (r *Region) attach() {
	hdr := r.header
	align := hdr.allocAlignment
	if !isPowerOfTwo(align) {
		// A foreign/garbage header can claim any alignment; fall back to a
		// safe default rather than let alignUp's bit trick misbehave on a
		// non-power-of-two value. The region is corrupt either way.
		align = DefaultAllocAlignment
	}
	pageSize := hdr.pageSize
	if !isPowerOfTwo(pageSize) {
		pageSize = DefaultPageSize
	}
	r.align = align
	r.pageSize = pageSize
	r.headEnd = alignUp(regionHeaderSize, align)
	r.maxHops = maxHopsFor(hdr.totalSize, align)

	// A reattach against a shorter buffer than the header claims (two
	// processes opening the same path with different sizes, or a header
	// with adversarial content) must never let hdr.totalSize stand in for
	// a trustworthy upper bound: Allocate compares candidate offsets
	// against it directly, and a lie here would walk freeptr straight
	// past the real buffer into an out-of-range block header.
	if uint64(hdr.totalSize) > uint64(len(r.buf)) {
		r.sizeOK = false
		r.setCorrupt()
		return
	}
	r.sizeOK = true
}

// rawAllocName reserves space for a NUL-terminated name blob directly out
// of freeptr, bypassing Allocate/blockHeader: the name blob is not a typed
// object, it has no type tag and is never iterated, so it does not need a
// block header at all. Only called during initFresh, before any other
// writer can observe the region, so a plain bump (no CAS) is correct.
func (r *Region) rawAllocName(name string) (Reference, error) {
	hdr := r.header
	size := uint32(len(name)) + 1
	aligned := alignUp(size, hdr.allocAlignment)
	start := hdr.freeptr.Load()
	if uint64(start)+uint64(aligned) > uint64(hdr.totalSize) {
		return 0, ErrRegionTooSmall
	}
	copy(r.buf[start:], name)
	r.buf[start+uint32(len(name))] = 0
	hdr.freeptr.Store(start + aligned)
	return Reference(start), nil
}

// maxHopsFor is the retry/hop budget used by both MakeIterable's tail walk
// and iterator traversal: spec.md's suggested "total_size / min_block_size".
func maxHopsFor(totalSize, align uint32) uint32 {
	minBlock := alignUp(blockHeaderSize+1, align)
	if minBlock == 0 {
		return 1
	}
	hops := totalSize / minBlock
	if hops == 0 {
		hops = 1
	}
	return hops
}

// ReadOnly reports whether this attachment refuses mutation.
func (r *Region) ReadOnly() bool {
	return r.readOnly
}

// ID returns the region's persisted identifier.
func (r *Region) ID() uint32 {
	return r.header.id
}

// Name returns the region's persisted name, or "" if none was set.
func (r *Region) Name() string {
	ref := r.header.nameRef
	if ref == 0 || uint64(ref) >= uint64(len(r.buf)) {
		return ""
	}
	end := ref
	for end < uint32(len(r.buf)) && r.buf[end] != 0 {
		end++
	}
	return string(r.buf[ref:end])
}

// Bytes returns the full backing buffer this region is attached to. Most
// callers want GetMemoryInfo or a typed accessor instead; this exists for
// backing implementations that need to persist or copy the raw region,
// such as mmapfile.Snapshot writing only its used prefix.
func (r *Region) Bytes() []byte {
	return r.buf
}

// blockAt returns the block header at ref without any validation, or nil
// if ref does not even fit within the backing buffer. Callers must
// validate ref (validRef) before trusting anything it points to.
func (r *Region) blockAt(ref Reference) *blockHeader {
	if ref == 0 {
		return nil
	}
	off := uint64(ref)
	if off+uint64(blockHeaderSize) > uint64(len(r.buf)) {
		return nil
	}
	return (*blockHeader)(unsafe.Pointer(r.base + uintptr(ref)))
}

// validRef reports whether ref is aligned, within [header_end, freeptr),
// and points to a committed block. It never mutates corrupt state --
// spec section 4.3 says mis-validated references are simply treated as
// not-found, since readers may legitimately hold stale references.
func (r *Region) validRef(ref Reference) (*blockHeader, bool) {
	hdr := r.header
	if ref == 0 {
		return nil, false
	}
	if uint32(ref)%r.align != 0 {
		return nil, false
	}
	if uint32(ref) < r.headEnd {
		return nil, false
	}
	if uint32(ref) >= hdr.freeptr.Load() {
		return nil, false
	}
	blk := r.blockAt(ref)
	if blk == nil {
		return nil, false
	}
	if blk.cookie.Load() != blockCookieAllocated {
		return nil, false
	}
	return blk, true
}

// setCorrupt sets the sticky corruption flag. Read-only attachers write to
// a process-local shadow instead of the shared header (spec section 4.1).
func (r *Region) setCorrupt() {
	var first bool
	if r.readOnly {
		first = r.roCorrupt.CompareAndSwap(0, 1)
	} else {
		first = r.header.corrupt.CompareAndSwap(0, 1)
	}
	if first {
		r.recorder.SetCorrupt()
		r.logger.Warn("permem: corruption detected", zap.Uint32("id", r.header.id))
	}
}

// setFull sets the sticky full flag.
func (r *Region) setFull() {
	if r.header.full.CompareAndSwap(0, 1) {
		r.recorder.SetFull()
		r.logger.Info("permem: region is full", zap.Uint32("id", r.header.id))
	}
}

// IsFileAcceptable is a static predicate a file-backed variant uses before
// attempting to attach: buf must be large enough to hold the header, and
// its header-claimed total_size must not exceed buf's actual length. This
// deliberately does not check the cookie -- an adversarial or truncated
// file can pass this check and still come back from Open with IsCorrupt()
// true, matching the original allocator's own AcceptableTest, which feeds
// random garbage through this same predicate before construction.
func IsFileAcceptable(buf []byte) bool {
	if uint32(len(buf)) < regionHeaderSize {
		return false
	}
	hdr := (*regionHeader)(unsafe.Pointer(&buf[0]))
	return uint64(hdr.totalSize) <= uint64(len(buf))
}
