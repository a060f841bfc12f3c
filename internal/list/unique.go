package list

import (
	"sort"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/name"
)

// uniqueArg carries the recursion state of Unique: the sorted set of
// values seen so far and the articulation of the remaining input.
type uniqueArg = data.Pair[[]int, dcg.Node[List[int]]]

// Uniq flags repeated values in an int list: the output list carries
// 0 at the first occurrence of a value and 1 at every later one.
type Uniq struct {
	mfn  *dcg.Mfn[uniqueArg, List[int]]
	runs int
}

// NewUniq declares the memoized recursion on the engine.
func NewUniq(eng *dcg.Engine, nm name.Name) *Uniq {
	argDesc := data.PairDesc(data.Slice(data.Int()), dcg.NodeDesc[List[int]]())
	resDesc := Desc(data.Int())

	u := &Uniq{}
	u.mfn = dcg.MkMfn(eng, nm, argDesc, resDesc,
		func(m *dcg.Mfn[uniqueArg, List[int]], arg uniqueArg) List[int] {
			u.runs++
			l := arg.Snd.Force()
			if l.Nil {
				return NilOf[int]()
			}

			flag := 0
			if containsSorted(arg.Fst, l.Head) {
				flag = 1
			}
			return Cons(flag, m.Art(uniqueArg{
				Fst: insertSorted(arg.Fst, l.Head),
				Snd: l.Tail,
			}))
		})
	return u
}

// Apply articulates the transformation over an input list.
func (u *Uniq) Apply(input dcg.Node[List[int]]) dcg.Node[List[int]] {
	return u.mfn.Art(uniqueArg{Snd: input})
}

// Runs reports how many times the body has executed.
func (u *Uniq) Runs() int {
	return u.runs
}

// containsSorted reports membership in a sorted slice.
func containsSorted(xs []int, v int) bool {
	i := sort.SearchInts(xs, v)
	return i < len(xs) && xs[i] == v
}

// insertSorted returns a sorted copy with v added; the input is never
// mutated (argument values are shared across memo entries).
func insertSorted(xs []int, v int) []int {
	i := sort.SearchInts(xs, v)
	if i < len(xs) && xs[i] == v {
		return xs
	}
	out := make([]int, 0, len(xs)+1)
	out = append(out, xs[:i]...)
	out = append(out, v)
	out = append(out, xs[i:]...)
	return out
}
