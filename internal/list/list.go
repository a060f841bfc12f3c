// Package list provides articulated cons lists over the DCG.
//
// A list is a chain of mutable cells, one per element, each holding a
// cons whose tail is the handle of the next cell. Mutating one cell
// dirties only the computations that observed that cell, which is
// what makes list transformations incremental.
package list

import (
	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/name"
)

// List is one spine element: either the empty list or a cons of a
// head value and the articulation of the rest.
type List[T any] struct {
	Nil  bool
	Head T
	Tail dcg.Node[List[T]]
}

// NilOf returns the empty list value.
func NilOf[T any]() List[T] {
	return List[T]{Nil: true}
}

// Cons builds a cons value.
func Cons[T any](head T, tail dcg.Node[List[T]]) List[T] {
	return List[T]{Head: head, Tail: tail}
}

// Desc describes list values: heads by the element descriptor, tails
// by articulation identity.
func Desc[T any](elem data.Desc[T]) data.Desc[List[T]] {
	nodes := dcg.NodeDesc[List[T]]()
	return data.Desc[List[T]]{
		Equal: func(a, b List[T]) bool {
			if a.Nil != b.Nil {
				return false
			}
			if a.Nil {
				return true
			}
			return elem.Equal(a.Head, b.Head) && nodes.Equal(a.Tail, b.Tail)
		},
		Hash: func(seed uint64, v List[T]) uint64 {
			if v.Nil {
				return data.HashU64(seed, 0)
			}
			return nodes.Hash(elem.Hash(data.HashU64(seed, 1), v.Head), v.Tail)
		},
		Show: func(v List[T]) string {
			if v.Nil {
				return "nil"
			}
			return elem.Show(v.Head) + " :: " + nodes.Show(v.Tail)
		},
		Sanitize: func(v List[T]) List[T] {
			if v.Nil {
				return v
			}
			return List[T]{Head: elem.Sanitize(v.Head), Tail: v.Tail}
		},
	}
}

// FromSlice builds an articulated list with one cell per element plus
// a terminator cell. The returned cells allow in-place mutation of
// individual elements; cells[i] holds the cons for xs[i].
func FromSlice[T any](
	eng *dcg.Engine,
	nm name.Name,
	elem data.Desc[T],
	xs []T,
) (dcg.Node[List[T]], []*dcg.Cell[List[T]]) {
	desc := Desc(elem)

	cellName := nm
	var endName name.Name
	endName, cellName = name.Fork(cellName)
	end := dcg.NewCell(eng, endName, NilOf[T](), desc)

	next := dcg.Node[List[T]](end)
	cells := make([]*dcg.Cell[List[T]], len(xs))
	for i := len(xs) - 1; i >= 0; i-- {
		var cn name.Name
		cn, cellName = name.Fork(cellName)
		c := dcg.NewCell(eng, cn, Cons(xs[i], next), desc)
		cells[i] = c
		next = c
	}
	return next, cells
}

// SetAt replaces the element held by cells[i], keeping the tail.
func SetAt[T any](cells []*dcg.Cell[List[T]], i int, v T) {
	old := cells[i].Force()
	cells[i].Set(Cons(v, old.Tail))
}

// ToSlice forces the whole spine and collects the heads.
func ToSlice[T any](n dcg.Node[List[T]]) []T {
	var out []T
	for n != nil {
		l := n.Force()
		if l.Nil {
			break
		}
		out = append(out, l.Head)
		n = l.Tail
	}
	return out
}
