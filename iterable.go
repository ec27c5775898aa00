package permem

// MakeIterable appends ref to the region's globally visible, singly-linked
// publication list, threaded through each block's next field. It is
// idempotent (a second call on the same ref is a no-op), lock-free (no
// writer can block another), and crash-safe: a crash between Allocate and
// MakeIterable simply leaves the block allocated but never published --
// there is no intermediate state that could leave the list broken.
//
// A published block's next field is never left at 0: the current tail
// carries listTailMarker instead, so "already published" can be told
// apart from "currently last" without re-linking the tail into itself.
//
// An invalid ref (unaligned, out of range, or uncommitted) is silently
// ignored, matching Allocate/GetAsObject's "stale references are not an
// error" contract. Only a broken list found while walking to the tail
// marks the region corrupt.
func (r *Region) MakeIterable(ref Reference) {
	if r.readOnly {
		return
	}

	blk, ok := r.validRef(ref)
	if !ok {
		return
	}
	if !blk.next.CompareAndSwap(0, listTailMarker) {
		return // already published, or another caller just claimed it
	}

	hdr := r.header
	for {
		headRef := hdr.head.Load()
		if headRef == 0 {
			if hdr.head.CompareAndSwap(0, uint32(ref)) {
				hdr.tail.Store(uint32(ref))
				return
			}
			continue // someone else just published the first element
		}

		tailRef, ok := r.findTail(Reference(headRef))
		if !ok {
			r.setCorrupt()
			return
		}
		tailBlk := r.blockAt(tailRef)

		if tailBlk.next.CompareAndSwap(listTailMarker, uint32(ref)) {
			// Best-effort: correctness never depends on this succeeding.
			hdr.tail.CompareAndSwap(uint32(tailRef), uint32(ref))
			return
		}
		// Lost the race to another writer publishing at the same tail;
		// retry from the (now possibly stale) head/tail hint.
	}
}

// findTail walks forward from the region's tail hint (or from head, if the
// hint is unset or is not a valid block) until it finds the block still
// carrying listTailMarker.
// Bounded by maxHops so a welded-together cycle can never hang a writer.
func (r *Region) findTail(head Reference) (Reference, bool) {
	hdr := r.header
	cur := Reference(hdr.tail.Load())
	if cur == 0 {
		cur = head
	}
	curBlk, ok := r.validRef(cur)
	if !ok {
		// The hint itself was garbage; fall back to walking from head.
		cur = head
		curBlk, ok = r.validRef(cur)
		if !ok {
			return 0, false
		}
	}

	for hops := uint32(0); ; hops++ {
		if hops > r.maxHops {
			return 0, false
		}
		nxt := curBlk.next.Load()
		if nxt == listTailMarker {
			return cur, true
		}
		if nxt == 0 {
			return 0, false // reachable block that was never published
		}
		nb, ok := r.validRef(Reference(nxt))
		if !ok {
			return 0, false
		}
		cur = Reference(nxt)
		curBlk = nb
	}
}
