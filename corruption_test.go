package permem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetNextIterable_SelfLoopIsDetected mirrors the original allocator's
// malicious-input test: a block whose next field points back to itself
// must not hang a reader, and must flip the region corrupt.
func TestGetNextIterable_SelfLoopIsDetected(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	ref := r.Allocate(16, 1)
	require.NotZero(t, ref)
	r.MakeIterable(ref)

	blk := r.blockAt(ref)
	blk.next.Store(uint32(ref))

	it := r.CreateIterator(0)
	for i := 0; i < int(r.maxHops)+2; i++ {
		got, _ := r.GetNextIterable(&it)
		if got == 0 {
			break
		}
	}

	assert.True(t, r.IsCorrupt())
}

// TestGetNextIterable_LoopToHeadIsDetected mirrors a two-node cycle where
// the second block's next points back to the first (the list head),
// rather than a block looping to itself.
func TestGetNextIterable_LoopToHeadIsDetected(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	ref1 := r.Allocate(16, 1)
	ref2 := r.Allocate(16, 2)
	require.NotZero(t, ref1)
	require.NotZero(t, ref2)
	r.MakeIterable(ref1)
	r.MakeIterable(ref2)

	blk2 := r.blockAt(ref2)
	blk2.next.Store(uint32(ref1))

	it := r.CreateIterator(0)
	for i := 0; i < int(r.maxHops)+2; i++ {
		got, _ := r.GetNextIterable(&it)
		if got == 0 {
			break
		}
	}

	assert.True(t, r.IsCorrupt())
}

func TestValidRef_NeverSetsCorrupt(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	_, ok := r.validRef(Reference(123456))
	assert.False(t, ok)
	assert.False(t, r.IsCorrupt())
}
