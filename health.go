package permem

// IsFull reports whether the region has permanently stopped accepting new
// allocations. Once set this never clears -- there is no reclamation path
// that could make room again (spec section 4.6).
func (r *Region) IsFull() bool {
	return r.header.full.Load() != 0
}

// IsCorrupt reports whether this attachment has observed the region's
// structure violate an invariant it depends on -- an unaligned or
// out-of-range reference reached while walking the publication list, or a
// hop budget exhausted mid-traversal. A read-only attacher's corruption
// flag is process-local and never affects other attachers (spec section
// 4.1); a read-write attacher's flag is shared and sticky for everyone.
func (r *Region) IsCorrupt() bool {
	if r.readOnly {
		return r.roCorrupt.Load() != 0
	}
	return r.header.corrupt.Load() != 0
}

// GetMemoryInfo returns a point-in-time snapshot of the region's capacity.
// Free/Used may race with concurrent Allocate calls; callers should treat
// the numbers as approximate (spec section 4.6).
func (r *Region) GetMemoryInfo() MemoryInfo {
	hdr := r.header
	total := hdr.totalSize
	used := hdr.freeptr.Load()
	if used > total {
		used = total
	}
	return MemoryInfo{
		Total: total,
		Free:  total - used,
		Used:  used,
	}
}
