package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsetSetTest(t *testing.T) {
	b := New(130)
	assert.Equal(t, 130, b.Len())
	assert.Zero(t, b.Count())

	for _, i := range []int{0, 63, 64, 129} {
		b.Set(i)
		assert.True(t, b.Test(i))
	}
	assert.Equal(t, 4, b.Count())
	assert.False(t, b.Test(1))
	assert.False(t, b.Test(128))
}

func TestBitsetOutOfRange(t *testing.T) {
	b := New(8)
	b.Set(-1)
	b.Set(8)
	assert.Zero(t, b.Count())
	assert.False(t, b.Test(-1))
	assert.False(t, b.Test(8))
}

func TestBitsetZeroLength(t *testing.T) {
	b := New(0)
	assert.Equal(t, 0, b.Len())
	assert.Zero(t, b.Count())
}
