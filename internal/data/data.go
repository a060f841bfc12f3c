// Package data provides the value descriptors the engine consumes.
//
// Every type stored in a cell or returned from a thunk crosses the
// graph boundary through a Desc: equality drives change suppression,
// seeded hashing drives memo-table bucketing, Show drives diagnostics,
// and Sanitize copies shared state so values handed out by the engine
// cannot alias its internals.
package data

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Desc describes how the engine treats values of type T.
//
// All four functions must be non-nil. Equal and Hash must agree:
// Equal(a, b) implies Hash(s, a) == Hash(s, b) for every seed s.
type Desc[T any] struct {
	Equal    func(a, b T) bool
	Hash     func(seed uint64, v T) uint64
	Show     func(v T) string
	Sanitize func(v T) T
}

// Comparable builds a descriptor for any comparable type.
// Sanitize is the identity: comparable values carry no shared state.
func Comparable[T comparable]() Desc[T] {
	return Desc[T]{
		Equal:    func(a, b T) bool { return a == b },
		Hash:     func(seed uint64, v T) uint64 { return HashString(seed, fmt.Sprintf("%v", v)) },
		Show:     func(v T) string { return fmt.Sprintf("%v", v) },
		Sanitize: func(v T) T { return v },
	}
}

// Int is a descriptor for int with direct integer hashing.
func Int() Desc[int] {
	return Desc[int]{
		Equal:    func(a, b int) bool { return a == b },
		Hash:     func(seed uint64, v int) uint64 { return HashU64(seed, uint64(int64(v))) },
		Show:     func(v int) string { return fmt.Sprintf("%d", v) },
		Sanitize: func(v int) int { return v },
	}
}

// Float64 is a descriptor for float64. NaN never equals NaN, matching
// the IEEE comparison the rest of the engine sees.
func Float64() Desc[float64] {
	return Desc[float64]{
		Equal:    func(a, b float64) bool { return a == b },
		Hash:     func(seed uint64, v float64) uint64 { return HashU64(seed, math.Float64bits(v)) },
		Show:     func(v float64) string { return fmt.Sprintf("%g", v) },
		Sanitize: func(v float64) float64 { return v },
	}
}

// String is a descriptor for NFC-normalized string comparison and hashing.
func String() Desc[string] {
	return Desc[string]{
		Equal:    func(a, b string) bool { return Normalize(a) == Normalize(b) },
		Hash:     func(seed uint64, v string) uint64 { return HashString(seed, Normalize(v)) },
		Show:     func(v string) string { return v },
		Sanitize: func(v string) string { return v },
	}
}

// Slice lifts an element descriptor to a slice descriptor.
// Sanitize copies the backing array, element-wise.
func Slice[T any](elem Desc[T]) Desc[[]T] {
	return Desc[[]T]{
		Equal: func(a, b []T) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !elem.Equal(a[i], b[i]) {
					return false
				}
			}
			return true
		},
		Hash: func(seed uint64, v []T) uint64 {
			h := HashU64(seed, uint64(len(v)))
			for _, e := range v {
				h = elem.Hash(h, e)
			}
			return h
		},
		Show: func(v []T) string {
			out := "["
			for i, e := range v {
				if i > 0 {
					out += "; "
				}
				out += elem.Show(e)
			}
			return out + "]"
		},
		Sanitize: func(v []T) []T {
			if v == nil {
				return nil
			}
			out := make([]T, len(v))
			for i, e := range v {
				out[i] = elem.Sanitize(e)
			}
			return out
		},
	}
}

// Pair is a generic two-field product for composite memo arguments.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// PairDesc builds a descriptor for Pair[A, B] from its halves.
func PairDesc[A, B any](fst Desc[A], snd Desc[B]) Desc[Pair[A, B]] {
	return Desc[Pair[A, B]]{
		Equal: func(a, b Pair[A, B]) bool {
			return fst.Equal(a.Fst, b.Fst) && snd.Equal(a.Snd, b.Snd)
		},
		Hash: func(seed uint64, v Pair[A, B]) uint64 {
			return snd.Hash(fst.Hash(seed, v.Fst), v.Snd)
		},
		Show: func(v Pair[A, B]) string {
			return fmt.Sprintf("(%s, %s)", fst.Show(v.Fst), snd.Show(v.Snd))
		},
		Sanitize: func(v Pair[A, B]) Pair[A, B] {
			return Pair[A, B]{Fst: fst.Sanitize(v.Fst), Snd: snd.Sanitize(v.Snd)}
		},
	}
}

// HashU64 folds one 64-bit word into a seeded xxhash.
func HashU64(seed, v uint64) uint64 {
	var buf [16]byte
	putU64(buf[0:8], seed)
	putU64(buf[8:16], v)
	return xxhash.Sum64(buf[:])
}

// HashString hashes a string under a seed.
func HashString(seed uint64, s string) uint64 {
	d := xxhash.New()
	var buf [8]byte
	putU64(buf[:], seed)
	d.Write(buf[:])
	d.WriteString(s)
	return d.Sum64()
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
