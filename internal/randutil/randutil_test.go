package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestDerive(t *testing.T) {
	assert.Equal(t, Derive(7, 3), Derive(7, 3))
	assert.NotEqual(t, Derive(7, 3), Derive(7, 4))
	assert.NotEqual(t, Derive(7, 0), int64(7))
}

func TestPick(t *testing.T) {
	rng := New(1)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for range 100 {
		seen[Pick(rng, items)] = true
	}
	assert.Len(t, seen, 3)
}
