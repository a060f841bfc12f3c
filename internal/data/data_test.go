package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt_EqualAndHash(t *testing.T) {
	d := Int()
	assert.True(t, d.Equal(3, 3))
	assert.False(t, d.Equal(3, 4))
	assert.Equal(t, d.Hash(7, 3), d.Hash(7, 3))
	assert.NotEqual(t, d.Hash(7, 3), d.Hash(8, 3), "seed should perturb hash")
}

func TestString_NFCNormalization(t *testing.T) {
	d := String()
	// "é" precomposed (U+00E9) vs decomposed (e + U+0301)
	pre := "café"
	dec := "café"
	assert.True(t, d.Equal(pre, dec), "canonically equivalent strings should be equal")
	assert.Equal(t, d.Hash(1, pre), d.Hash(1, dec))
}

func TestSlice_Equal(t *testing.T) {
	d := Slice(Int())
	assert.True(t, d.Equal([]int{1, 2}, []int{1, 2}))
	assert.False(t, d.Equal([]int{1, 2}, []int{1, 3}))
	assert.False(t, d.Equal([]int{1, 2}, []int{1, 2, 3}))
	assert.True(t, d.Equal(nil, []int{}), "nil and empty compare equal")
}

func TestSlice_SanitizeCopies(t *testing.T) {
	d := Slice(Int())
	in := []int{1, 2, 3}
	out := d.Sanitize(in)
	assert.Equal(t, in, out)

	out[0] = 99
	assert.Equal(t, 1, in[0], "sanitized copy must not alias the input")
}

func TestSlice_Show(t *testing.T) {
	d := Slice(Int())
	assert.Equal(t, "[1; 2; 3]", d.Show([]int{1, 2, 3}))
	assert.Equal(t, "[]", d.Show(nil))
}

func TestPairDesc(t *testing.T) {
	d := PairDesc(Int(), Int())
	assert.True(t, d.Equal(Pair[int, int]{1, 2}, Pair[int, int]{1, 2}))
	assert.False(t, d.Equal(Pair[int, int]{1, 2}, Pair[int, int]{2, 1}))
	assert.Equal(t, "(1, 2)", d.Show(Pair[int, int]{1, 2}))
}

func TestFloat64_HashDistinguishesValues(t *testing.T) {
	d := Float64()
	assert.NotEqual(t, d.Hash(0, 1.5), d.Hash(0, 2.5))
	assert.True(t, d.Equal(1.5, 1.5))
}

func TestComparable_Strings(t *testing.T) {
	d := Comparable[string]()
	assert.True(t, d.Equal("a", "a"))
	assert.Equal(t, d.Hash(5, "a"), d.Hash(5, "a"))
}
