package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavoriteSet_ToggleTwiceRestoresMembership(t *testing.T) {
	s := NewFavoriteSet()

	s.Add("42")
	assert.True(t, s.Has("42"))
	assert.Equal(t, 1, s.Len())

	s.Remove("42")
	assert.False(t, s.Has("42"))
	assert.Equal(t, 0, s.Len())
}

func TestFavoriteSet_RemoveMissingIsNoop(t *testing.T) {
	s := NewFavoriteSet()
	s.Remove("nope")
	assert.Equal(t, 0, s.Len())
}

func TestFavoriteSet_AddIsIdempotent(t *testing.T) {
	s := NewFavoriteSet()
	s.Add("a")
	s.Add("a")
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("a"))
}
