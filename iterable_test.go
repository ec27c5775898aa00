package permem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeIterable_SingleElement(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	ref := r.Allocate(16, 1)
	require.NotZero(t, ref)

	r.MakeIterable(ref)

	assert.Equal(t, uint32(1), r.CountIterables())
}

func TestMakeIterable_PreservesOrder(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	var refs []Reference
	for i := 0; i < 5; i++ {
		ref := r.Allocate(16, uint32(i+1))
		require.NotZero(t, ref)
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		r.MakeIterable(ref)
	}

	it := r.CreateIterator(0)
	for _, want := range refs {
		got, typ := r.GetNextIterable(&it)
		assert.Equal(t, want, got)
		assert.Equal(t, r.GetType(want), typ)
	}
	end, _ := r.GetNextIterable(&it)
	assert.Zero(t, end)
}

func TestMakeIterable_IsIdempotent(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	ref := r.Allocate(16, 1)
	require.NotZero(t, ref)

	r.MakeIterable(ref)
	r.MakeIterable(ref)
	r.MakeIterable(ref)

	assert.Equal(t, uint32(1), r.CountIterables())
}

func TestMakeIterable_IgnoresInvalidRef(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	r.MakeIterable(Reference(999999))
	assert.False(t, r.IsCorrupt())
	assert.Equal(t, uint32(0), r.CountIterables())
}

func TestMakeIterable_NoOpOnReadOnly(t *testing.T) {
	buf := make([]byte, 1<<16)
	w, err := Open(NewMemory(buf), DefaultOptions())
	require.NoError(t, err)
	ref := w.Allocate(16, 1)
	require.NotZero(t, ref)

	ro, err := Open(NewMemory(buf), Options{ReadOnly: true})
	require.NoError(t, err)
	ro.MakeIterable(ref)
	assert.Equal(t, uint32(0), ro.CountIterables())
}
