package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfString_Equal(t *testing.T) {
	assert.True(t, Equal(OfString("a"), OfString("a")))
	assert.False(t, Equal(OfString("a"), OfString("b")))
}

func TestPair_NotCommutative(t *testing.T) {
	a, b := OfString("a"), OfString("b")
	assert.True(t, Equal(Pair(a, b), Pair(a, b)))
	assert.False(t, Equal(Pair(a, b), Pair(b, a)))
}

func TestPair_NotEqualToLeaf(t *testing.T) {
	a := OfString("a")
	assert.False(t, Equal(Pair(a, a), a))
}

func TestFork_Deterministic(t *testing.T) {
	n := OfString("root")
	l1, r1 := Fork(n)
	l2, r2 := Fork(n)

	assert.True(t, Equal(l1, l2), "left fork should be stable")
	assert.True(t, Equal(r1, r2), "right fork should be stable")
	assert.False(t, Equal(l1, r1), "fork halves should be distinct")
	assert.False(t, Equal(l1, n), "fork child should differ from parent")
}

func TestGensym_Unique(t *testing.T) {
	seen := make([]Name, 0, 100)
	for i := 0; i < 100; i++ {
		n := Gensym()
		for _, prev := range seen {
			assert.False(t, Equal(n, prev), "gensym produced a duplicate")
		}
		seen = append(seen, n)
	}
}

func TestHash_EqualNamesEqualHashes(t *testing.T) {
	cases := []struct {
		name string
		a, b Name
	}{
		{"leaf", OfString("x"), OfString("x")},
		{"pair", Pair(OfString("x"), OfString("y")), Pair(OfString("x"), OfString("y"))},
	}
	l, _ := Fork(OfString("f"))
	l2, _ := Fork(OfString("f"))
	cases = append(cases, struct {
		name string
		a, b Name
	}{"fork", l, l2})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Hash(42, tc.a), Hash(42, tc.b))
		})
	}
}

func TestHash_SeedChangesHash(t *testing.T) {
	n := OfString("x")
	assert.NotEqual(t, Hash(1, n), Hash(2, n))
}

func TestHash_PairBoundary(t *testing.T) {
	// ("ab","c") and ("a","bc") must not collide via concatenation.
	a := Pair(OfString("ab"), OfString("c"))
	b := Pair(OfString("a"), OfString("bc"))
	assert.False(t, Equal(a, b))
	assert.NotEqual(t, Hash(0, a), Hash(0, b))
}

func TestString_Render(t *testing.T) {
	assert.Equal(t, "a", OfString("a").String())
	assert.Equal(t, "(a,b)", Pair(OfString("a"), OfString("b")).String())
	l, r := Fork(OfString("n"))
	assert.Equal(t, "n.l", l.String())
	assert.Equal(t, "n.r", r.String())
}
