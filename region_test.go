package permem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegion(t *testing.T, size uint32, opts Options) *Region {
	t.Helper()
	buf := make([]byte, size)
	r, err := Open(NewMemory(buf), opts)
	require.NoError(t, err)
	return r
}

func TestOpen_InitializesFreshRegion(t *testing.T) {
	opts := DefaultOptions()
	opts.ID = 7
	opts.Name = "widgets"
	r := newTestRegion(t, 1<<20, opts)

	assert.Equal(t, uint32(7), r.ID())
	assert.Equal(t, "widgets", r.Name())
	assert.False(t, r.IsFull())
	assert.False(t, r.IsCorrupt())
	assert.False(t, r.ReadOnly())
}

func TestOpen_ReattachesExistingRegion(t *testing.T) {
	buf := make([]byte, 1<<20)
	opts := DefaultOptions()
	opts.ID = 42

	r1, err := Open(NewMemory(buf), opts)
	require.NoError(t, err)
	ref := r1.Allocate(64, 1)
	require.NotZero(t, ref)

	r2, err := Open(NewMemory(buf), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, uint32(42), r2.ID())
	assert.Equal(t, uint32(1), r2.GetType(ref))
}

func TestOpen_ReadOnlyUninitializedRegionFails(t *testing.T) {
	buf := make([]byte, 1<<16)
	opts := DefaultOptions()
	opts.ReadOnly = true
	_, err := Open(NewMemory(buf), opts)
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestOpen_RegionTooSmall(t *testing.T) {
	buf := make([]byte, 4)
	_, err := Open(NewMemory(buf), DefaultOptions())
	assert.ErrorIs(t, err, ErrRegionTooSmall)
}

func TestOpen_BadPageSize(t *testing.T) {
	buf := make([]byte, 1<<16)
	opts := DefaultOptions()
	opts.PageSize = 3
	_, err := Open(NewMemory(buf), opts)
	assert.ErrorIs(t, err, ErrBadPageSize)
}

func TestOpen_BadAlignment(t *testing.T) {
	buf := make([]byte, 1<<16)
	opts := DefaultOptions()
	opts.AllocAlignment = 3
	_, err := Open(NewMemory(buf), opts)
	assert.ErrorIs(t, err, ErrBadAlignment)
}

func TestOpen_ForeignCookieMarksCorrupt(t *testing.T) {
	buf := make([]byte, 1<<16)
	for i := range buf[:64] {
		buf[i] = 0xAB
	}
	r, err := Open(NewMemory(buf), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.IsCorrupt())
}

func TestIsFileAcceptable(t *testing.T) {
	buf := make([]byte, 1<<16)
	assert.True(t, IsFileAcceptable(buf))

	assert.False(t, IsFileAcceptable(buf[:4]))
}

func TestGetMemoryInfo(t *testing.T) {
	r := newTestRegion(t, 1<<16, DefaultOptions())
	info := r.GetMemoryInfo()
	assert.Equal(t, uint32(1<<16), info.Total)
	assert.Equal(t, info.Used+info.Free, info.Total)

	ref := r.Allocate(100, 1)
	require.NotZero(t, ref)
	info2 := r.GetMemoryInfo()
	assert.Greater(t, info2.Used, info.Used)
}
