package permem

// Allocate reserves size bytes of type-tagged storage and returns a
// Reference to the new block, or 0 on failure. size==0, a size that cannot
// fit in a single page even alone, a read-only region, a region whose
// header claims a total_size larger than its actual backing buffer, a
// region opened over a foreign cookie, or a full region all fail and
// return 0 (spec section 4.2 step 1). Every call
// -- including rejected ones -- is reported to the Recorder once, with
// size 0 for a rejected request, matching the original allocator's
// histogram behavior.
func (r *Region) Allocate(size uint32, typ uint32) Reference {
	hdr := r.header

	if r.readOnly {
		r.recorder.ObserveAlloc(0)
		return 0
	}

	if !r.sizeOK {
		r.recorder.ObserveAlloc(0)
		return 0
	}

	if size == 0 || uint64(size)+uint64(blockHeaderSize) > uint64(r.pageSize) {
		r.recorder.ObserveAlloc(0)
		if r.panicOnInvalid {
			panic("permem: invalid allocation request")
		}
		return 0
	}

	if r.IsFull() {
		r.recorder.ObserveAlloc(0)
		return 0
	}

	blockSize := alignUp(blockHeaderSize+size, r.align)

	var start uint32
	for {
		cur := hdr.freeptr.Load()
		candidate := cur
		end := candidate + blockSize

		startPage := candidate / r.pageSize
		lastByte := end - 1
		endPage := lastByte / r.pageSize
		if startPage != endPage {
			candidate = (startPage + 1) * r.pageSize
			end = candidate + blockSize
		}

		if uint64(end) > uint64(hdr.totalSize) {
			r.setFull()
			r.recorder.ObserveAlloc(0)
			return 0
		}

		if hdr.freeptr.CompareAndSwap(cur, end) {
			start = candidate
			break
		}
	}

	// Zero the header, write size/type, then commit the cookie last -- a
	// crash or a concurrent reader anywhere before the final Store sees an
	// uncommitted block, never a torn one (spec section 4.2 step 4).
	blk := r.blockAt(Reference(start))
	blk.next.Store(0)
	blk.cookie.Store(blockCookieFree)
	blk.size = blockSize
	blk.typ.Store(typ)
	blk.cookie.Store(blockCookieAllocated)

	r.recorder.ObserveAlloc(size)
	return Reference(start)
}

