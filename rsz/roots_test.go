package rsz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoots_ClaimOnce(t *testing.T) {
	t.Parallel()

	a := &Instance{Index: 1, Value: &leaf{Value: 1}}
	b := &Instance{Index: 2, Value: &leaf{Value: 2}}
	roots := NewRoots([]*Instance{a, b})
	assert.Equal(t, 2, roots.Len())

	got, err := roots.Claim(1)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = roots.Claim(1)
	require.ErrorIs(t, err, ErrAlreadyClaimed)

	_, err = roots.Claim(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	err = roots.Verify()
	require.ErrorIs(t, err, ErrOrphanedRoot)
	var orphaned *OrphanedRootError
	require.ErrorAs(t, err, &orphaned)
	assert.Equal(t, []int{0}, orphaned.Indices)

	_, err = roots.Claim(0)
	require.NoError(t, err)
	require.NoError(t, roots.Verify())
	assert.Empty(t, roots.Unclaimed())
}

func TestUserDataRef_ResolvesOnce(t *testing.T) {
	t.Parallel()

	roots := NewRoots([]*Instance{{Index: 1, Value: &leaf{Value: 7}}})
	ref := RootRef(0)

	idx, ok := ref.Index()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.False(t, ref.Resolved())
	_, ok = RefAs[*leaf](&ref)
	assert.False(t, ok, "unresolved reference has no value")

	require.NoError(t, ref.Resolve(roots))
	assert.True(t, ref.Resolved())
	_, ok = ref.Index()
	assert.False(t, ok, "resolved reference is no longer an index")

	l, ok := RefAs[*leaf](&ref)
	require.True(t, ok)
	assert.Equal(t, uint32(7), l.Value)
	_, ok = RefAs[*node](&ref)
	assert.False(t, ok, "type mismatch yields no value")

	require.ErrorIs(t, ref.Resolve(roots), ErrAlreadyClaimed)
}

func TestUserDataRef_SharedRootFails(t *testing.T) {
	t.Parallel()

	roots := NewRoots([]*Instance{{Index: 1}})
	first, second := RootRef(0), RootRef(0)
	require.NoError(t, first.Resolve(roots))
	require.ErrorIs(t, second.Resolve(roots), ErrAlreadyClaimed)
	_, ok := second.Index()
	assert.True(t, ok, "failed resolve leaves the index in place")
}
