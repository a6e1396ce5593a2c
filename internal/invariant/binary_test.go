package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

func TestBinaryInvariant_String(t *testing.T) {
	a := event.NewType("a")
	b := event.NewType("b")

	afby := New(AlwaysFollowedBy, a, b, tracegraph.TimeRelation)
	assert.Equal(t, "a AlwaysFollowedBy(t) b", afby.String())

	ap := New(AlwaysPrecedes, a, b, tracegraph.TimeRelation)
	assert.Equal(t, "b AlwaysPrecedes(t) a", ap.String())

	nfby := New(NeverFollowedBy, a, b, tracegraph.TimeRelation)
	assert.Equal(t, "a NeverFollowedBy(t) b", nfby.String())
}

type typedLabel string

func (l typedLabel) EventType() event.Type { return event.NewType(string(l)) }

func TestShorten_AFby_IsIdentity(t *testing.T) {
	inv := New(AlwaysFollowedBy, event.NewType("a"), event.NewType("b"), tracegraph.TimeRelation)
	path := []typedLabel{"a", "x", "y"}
	assert.Equal(t, path, Shorten(inv, path))
}

func TestShorten_AP_TrimsAfterWitness(t *testing.T) {
	inv := New(AlwaysPrecedes, event.NewType("a"), event.NewType("b"), tracegraph.TimeRelation)
	path := []typedLabel{"b", "x", "a", "z"}
	assert.Equal(t, []typedLabel{"b"}, Shorten(inv, path))
}

func TestShorten_NFby_TrimsAfterWitness(t *testing.T) {
	inv := New(NeverFollowedBy, event.NewType("a"), event.NewType("b"), tracegraph.TimeRelation)
	path := []typedLabel{"a", "x", "b", "z"}
	assert.Equal(t, []typedLabel{"a", "x", "b"}, Shorten(inv, path))
}

func TestKind_ShortName(t *testing.T) {
	assert.Equal(t, "AFby", AlwaysFollowedBy.ShortName())
	assert.Equal(t, "AP", AlwaysPrecedes.ShortName())
	assert.Equal(t, "NFby", NeverFollowedBy.ShortName())
}
