package permem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCorrupt_ReadOnlyShadowDoesNotAffectWriter(t *testing.T) {
	buf := make([]byte, 1<<16)
	w, err := Open(NewMemory(buf), DefaultOptions())
	require.NoError(t, err)

	ro, err := Open(NewMemory(buf), Options{ReadOnly: true})
	require.NoError(t, err)

	ro.setCorrupt()
	assert.True(t, ro.IsCorrupt())
	assert.False(t, w.IsCorrupt())
}

func TestIsFull_StaysFalseWithRoom(t *testing.T) {
	r := newTestRegion(t, 1<<20, DefaultOptions())
	r.Allocate(16, 1)
	assert.False(t, r.IsFull())
}
