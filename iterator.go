package permem

// Iterator walks the region's publication list from some starting point.
// It carries no lock and holds no reference to the Region itself, so it is
// cheap to copy and safe to keep across a long-lived scan; a zero Iterator
// starts from the head of the list.
type Iterator struct {
	last Reference
	hops uint32
}

// CreateIterator returns an Iterator that will resume traversal after
// start. A zero start begins at the head of the list (spec section 4.5's
// "iteration may resume from any previously returned reference").
func (r *Region) CreateIterator(start Reference) Iterator {
	return Iterator{last: start}
}

// GetNextIterable advances it and returns the next published reference and
// its type, or (0, 0) once the list is exhausted or a cycle is detected.
// Traversal is bounded by the region's hop budget regardless of what it
// finds in next fields, so a malicious or corrupted list can never hang a
// reader (spec section 4.5, grounded on the original allocator's
// MaliciousTest self-loop/backward-loop/loop-to-head scenarios).
func (r *Region) GetNextIterable(it *Iterator) (Reference, uint32) {
	var cur Reference
	if it.last == 0 {
		cur = Reference(r.header.head.Load())
		if cur == 0 {
			return 0, 0 // empty list, not corruption
		}
	} else {
		blk, ok := r.validRef(it.last)
		if !ok {
			r.setCorrupt()
			return 0, 0
		}
		nxt := blk.next.Load()
		if nxt == listTailMarker {
			return 0, 0 // reached the end of the list
		}
		if nxt == 0 {
			r.setCorrupt() // reachable block that was never published
			return 0, 0
		}
		cur = Reference(nxt)
	}

	it.hops++
	if it.hops > r.maxHops {
		r.setCorrupt()
		return 0, 0
	}

	blk, ok := r.validRef(cur)
	if !ok {
		r.setCorrupt()
		return 0, 0
	}

	it.last = cur
	return cur, blk.typ.Load()
}

// CountIterables walks the entire list from the head and returns how many
// objects it holds. Intended for tests and diagnostics, not the allocation
// hot path: it pays the full traversal cost every call.
func (r *Region) CountIterables() uint32 {
	it := r.CreateIterator(0)
	var n uint32
	for {
		ref, _ := r.GetNextIterable(&it)
		if ref == 0 {
			return n
		}
		n++
	}
}
