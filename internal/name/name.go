// Package name provides the first-class identity tokens used to key
// nominal memoization.
//
// Names are opaque immutable trees. The engine compares and hashes them
// but never inspects their structure. Stable names across program edits
// are what make nominal memo hits survive input changes.
package name

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// kind discriminates the name tree node variants.
type kind int

const (
	kindLeaf kind = iota + 1
	kindPair
	kindFork
	kindSym
)

// Name is an opaque identity token.
//
// Names are immutable after construction and safe to share. The zero
// Name is not valid; construct via OfString, Pair, Fork or Gensym.
type Name struct {
	kind  kind
	leaf  string // kindLeaf
	left  *Name  // kindPair, kindFork
	right *Name  // kindPair
	bit   uint8  // kindFork: 0 = left branch, 1 = right branch
	sym   string // kindSym: uuid string
}

// OfString creates a name from a string label.
// Equal strings yield equal names.
func OfString(s string) Name {
	return Name{kind: kindLeaf, leaf: s}
}

// Pair combines two names into one. Pairing is not commutative:
// Pair(a, b) and Pair(b, a) are distinct names.
func Pair(a, b Name) Name {
	ac, bc := a, b
	return Name{kind: kindPair, left: &ac, right: &bc}
}

// Fork deterministically splits a name into two distinct children.
// Fork(n) always returns the same pair for the same n.
func Fork(n Name) (Name, Name) {
	nc1, nc2 := n, n
	return Name{kind: kindFork, left: &nc1, bit: 0},
		Name{kind: kindFork, left: &nc2, bit: 1}
}

// Gensym returns a fresh unique name. Two Gensym results are never equal.
func Gensym() Name {
	return Name{kind: kindSym, sym: uuid.NewString()}
}

// Equal reports structural equality of two names.
func Equal(a, b Name) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case kindLeaf:
		return a.leaf == b.leaf
	case kindPair:
		return Equal(*a.left, *b.left) && Equal(*a.right, *b.right)
	case kindFork:
		return a.bit == b.bit && Equal(*a.left, *b.left)
	case kindSym:
		return a.sym == b.sym
	default:
		return false
	}
}

// Hash computes a seeded 64-bit hash of the name.
// Equal names hash equally under the same seed.
func Hash(seed uint64, n Name) uint64 {
	d := xxhash.New()
	var buf [8]byte
	putU64(buf[:], seed)
	d.Write(buf[:])
	hashInto(d, n)
	return d.Sum64()
}

func hashInto(d *xxhash.Digest, n Name) {
	d.Write([]byte{byte(n.kind)})
	switch n.kind {
	case kindLeaf:
		d.WriteString(n.leaf)
	case kindPair:
		hashInto(d, *n.left)
		d.Write([]byte{0x00}) // boundary between the halves
		hashInto(d, *n.right)
	case kindFork:
		d.Write([]byte{n.bit})
		hashInto(d, *n.left)
	case kindSym:
		d.WriteString(n.sym)
	}
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// String renders the name for diagnostics.
func (n Name) String() string {
	switch n.kind {
	case kindLeaf:
		return n.leaf
	case kindPair:
		return fmt.Sprintf("(%s,%s)", n.left, n.right)
	case kindFork:
		if n.bit == 0 {
			return fmt.Sprintf("%s.l", n.left)
		}
		return fmt.Sprintf("%s.r", n.left)
	case kindSym:
		return "#" + n.sym[:8]
	default:
		return "<invalid>"
	}
}
