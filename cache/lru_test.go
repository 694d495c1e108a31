package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Put(1, []byte("aaaa"))
	c.Put(2, []byte("bb"))
	assert.Equal(t, int64(6), c.SizeBytes())

	_, ok := c.Get(1) // 1 becomes most recent
	require.True(t, ok)

	c.Put(3, []byte("c"))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(2)
	assert.False(t, ok, "least recently used entry is evicted")
	assert.Equal(t, int64(5), c.SizeBytes())
}

func TestLRU_ReplaceAndDelete(t *testing.T) {
	t.Parallel()

	c, err := NewLRU(4)
	require.NoError(t, err)

	c.Put(7, []byte("12345"))
	c.Put(7, []byte("12"))
	assert.Equal(t, int64(2), c.SizeBytes())

	got, ok := c.Get(7)
	require.True(t, ok)
	assert.Equal(t, []byte("12"), got)

	c.Delete(7)
	c.Delete(8)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.SizeBytes())
}

func TestNewLRU_InvalidSize(t *testing.T) {
	t.Parallel()

	_, err := NewLRU(0)
	require.Error(t, err)
}
