package permem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_ReturnsDistinctAlignedRefs(t *testing.T) {
	r := newTestRegion(t, 1<<20, DefaultOptions())

	ref1 := r.Allocate(32, 1)
	ref2 := r.Allocate(64, 2)
	require.NotZero(t, ref1)
	require.NotZero(t, ref2)
	assert.NotEqual(t, ref1, ref2)
	assert.Zero(t, uint32(ref1)%r.align)
	assert.Zero(t, uint32(ref2)%r.align)
}

func TestAllocate_RejectsZeroSize(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	assert.Zero(t, r.Allocate(0, 1))
}

func TestAllocate_RejectsOversizeForPage(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSize = 4096
	r := newTestRegion(t, 1<<16, opts)
	assert.Zero(t, r.Allocate(4096, 1))
}

func TestAllocate_PanicsWhenConfigured(t *testing.T) {
	opts := DefaultOptions()
	opts.PanicOnInvalidAlloc = true
	r := newTestRegion(t, 1<<16, opts)
	assert.Panics(t, func() { r.Allocate(0, 1) })
}

func TestAllocate_ReadOnlyRegionAlwaysFails(t *testing.T) {
	buf := make([]byte, 1<<16)
	_, err := Open(NewMemory(buf), DefaultOptions())
	require.NoError(t, err)

	r, err := Open(NewMemory(buf), Options{ReadOnly: true})
	require.NoError(t, err)
	assert.Zero(t, r.Allocate(16, 1))
}

// TestAllocate_NeverStraddlesPageBoundary mirrors the page-spill scenario:
// a block that would cross a page boundary is pushed to the next page
// instead of being split or allowed to straddle.
func TestAllocate_NeverStraddlesPageBoundary(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSize = 65536
	opts.AllocAlignment = 8
	r := newTestRegion(t, 1<<20, opts)

	headEnd := r.headEnd

	ref1 := r.Allocate(32768, 1)
	require.NotZero(t, ref1)
	assert.Equal(t, headEnd, uint32(ref1))

	ref2 := r.Allocate(65520, 2)
	require.NotZero(t, ref2)
	assert.Equal(t, uint32(65536), uint32(ref2))

	ref3 := r.Allocate(115, 3)
	require.NotZero(t, ref3)
	assert.Equal(t, uint32(131072), uint32(ref3))
}

func TestAllocate_SetsFullWhenExhausted(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSize = 4096
	opts.AllocAlignment = 8
	r := newTestRegion(t, 4096*2, opts)

	var last Reference
	for i := 0; i < 1000; i++ {
		ref := r.Allocate(64, 1)
		if ref == 0 {
			break
		}
		last = ref
	}
	require.NotZero(t, last)
	assert.True(t, r.IsFull())
	assert.Zero(t, r.Allocate(64, 1))
}
