package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewType_DomainLabel(t *testing.T) {
	ty := NewType("login")
	assert.Equal(t, Domain, ty.Kind())
	assert.Equal(t, "login", ty.Label())
	assert.False(t, ty.IsSentinel())
	assert.Equal(t, "login", ty.String())
}

func TestSentinelTypes_IgnoreLabel(t *testing.T) {
	assert.Equal(t, InitialType(), InitialType())
	assert.Equal(t, TerminalType(), TerminalType())
	assert.NotEqual(t, InitialType(), TerminalType())
	assert.True(t, InitialType().IsSentinel())
	assert.Equal(t, "INITIAL", InitialType().String())
	assert.Equal(t, "TERMINAL", TerminalType().String())
}

func TestNewType_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent (NFD) should equal precomposed "é" (NFC).
	decomposed := NewType("évent")
	composed := NewType("évent")
	assert.Equal(t, composed, decomposed)
}

func TestInterner_DeduplicatesEqualTypes(t *testing.T) {
	in := NewInterner()
	a := in.Domain("click")
	b := in.Domain("click")
	assert.Equal(t, a, b)

	c := in.Intern(NewType("click"))
	assert.Equal(t, a, c)
}

func TestInterner_DistinctLabelsStayDistinct(t *testing.T) {
	in := NewInterner()
	a := in.Domain("click")
	b := in.Domain("scroll")
	assert.NotEqual(t, a, b)
}

func TestType_Validate(t *testing.T) {
	require.NoError(t, NewType("ok").Validate())
	require.NoError(t, InitialType().Validate())
	require.NoError(t, TerminalType().Validate())

	var zero Type
	require.Error(t, zero.Validate())
}
