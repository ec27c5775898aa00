package permem

import "unsafe"

// GetAsObject overlays a *T directly onto the block at ref if ref is valid,
// its declared type matches expectedType, and the block is large enough to
// hold a T. Returns nil otherwise. The caller's T is expected to be a
// fixed-layout struct of the kind the region was designed to carry --
// exactly like overlaying regionHeader/blockHeader onto raw bytes, just
// parameterized over the caller's own type.
func GetAsObject[T any](r *Region, ref Reference, expectedType uint32) *T {
	blk, ok := r.validRef(ref)
	if !ok {
		return nil
	}
	if blk.typ.Load() != expectedType {
		return nil
	}

	var zero T
	need := uint32(unsafe.Sizeof(zero))
	if blk.size < blockHeaderSize || blk.size-blockHeaderSize < need {
		return nil
	}

	dataOff := uintptr(ref) + uintptr(blockHeaderSize)
	return (*T)(unsafe.Pointer(r.base + dataOff))
}

// GetAllocSize returns the usable payload size of ref (excluding the block
// header), or 0 if ref is not a valid, committed block.
func (r *Region) GetAllocSize(ref Reference) uint32 {
	blk, ok := r.validRef(ref)
	if !ok {
		return 0
	}
	return blk.size - blockHeaderSize
}

// PayloadBytes returns the raw payload bytes of ref, excluding its block
// header, or nil if ref is not a valid, committed block. The returned
// slice aliases the region's backing buffer; callers must not retain it
// past the region's lifetime.
func (r *Region) PayloadBytes(ref Reference) []byte {
	blk, ok := r.validRef(ref)
	if !ok {
		return nil
	}
	start := uint32(ref) + blockHeaderSize
	end := start + (blk.size - blockHeaderSize)
	return r.buf[start:end]
}

// GetType returns ref's declared type tag, or 0 if ref is not a valid,
// committed block.
func (r *Region) GetType(ref Reference) uint32 {
	blk, ok := r.validRef(ref)
	if !ok {
		return 0
	}
	return blk.typ.Load()
}

// SetType overwrites ref's type tag in place, e.g. to mark an object as
// deleted-but-retained without reclaiming its space (spec section 4.3).
// Returns false if the region is read-only or ref is not a valid block.
func (r *Region) SetType(ref Reference, typ uint32) bool {
	if r.readOnly {
		return false
	}
	blk, ok := r.validRef(ref)
	if !ok {
		return false
	}
	blk.typ.Store(typ)
	return true
}
