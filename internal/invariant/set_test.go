package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

func mkInv(kind Kind, a, b string) BinaryInvariant {
	return New(kind, event.NewType(a), event.NewType(b), tracegraph.TimeRelation)
}

func TestSet_AddDedupsAndPreservesOrder(t *testing.T) {
	s := NewSet()
	inv1 := mkInv(AlwaysFollowedBy, "a", "b")
	inv2 := mkInv(NeverFollowedBy, "c", "d")

	assert.True(t, s.Add(inv1))
	assert.True(t, s.Add(inv2))
	assert.False(t, s.Add(inv1))

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []BinaryInvariant{inv1, inv2}, s.All())
}

func TestSet_Remove(t *testing.T) {
	s := NewSet()
	inv1 := mkInv(AlwaysFollowedBy, "a", "b")
	inv2 := mkInv(NeverFollowedBy, "c", "d")
	s.Add(inv1)
	s.Add(inv2)

	s.Remove(inv1)
	assert.False(t, s.Contains(inv1))
	assert.True(t, s.Contains(inv2))
	assert.Equal(t, 1, s.Len())

	// Removing an absent invariant is a no-op.
	s.Remove(inv1)
	assert.Equal(t, 1, s.Len())
}

func TestSet_CountByKind(t *testing.T) {
	s := NewSet()
	s.Add(mkInv(AlwaysFollowedBy, "a", "b"))
	s.Add(mkInv(AlwaysFollowedBy, "c", "d"))
	s.Add(mkInv(NeverFollowedBy, "e", "f"))

	counts := s.CountByKind()
	assert.Equal(t, 2, counts[AlwaysFollowedBy])
	assert.Equal(t, 1, counts[NeverFollowedBy])
	assert.Equal(t, 0, counts[AlwaysPrecedes])
}

func TestSet_EqualAndSubset(t *testing.T) {
	a := NewSet()
	a.Add(mkInv(AlwaysFollowedBy, "a", "b"))
	a.Add(mkInv(NeverFollowedBy, "c", "d"))

	b := NewSet()
	b.Add(mkInv(NeverFollowedBy, "c", "d"))
	b.Add(mkInv(AlwaysFollowedBy, "a", "b"))

	assert.True(t, a.Equal(b))
	assert.True(t, a.Subset(b))

	c := NewSet()
	c.Add(mkInv(AlwaysFollowedBy, "a", "b"))
	assert.True(t, c.Subset(a))
	assert.False(t, a.Subset(c))
	assert.False(t, a.Equal(c))
}

func TestSet_String(t *testing.T) {
	s := NewSet()
	assert.Equal(t, "", s.String())
	s.Add(mkInv(AlwaysFollowedBy, "a", "b"))
	assert.Equal(t, "a AlwaysFollowedBy(t) b", s.String())
}
