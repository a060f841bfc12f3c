package geom

import (
	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/list"
	"github.com/roach88/grifola/internal/name"
)

type pointList = list.List[Point]

type lineCloudArg = data.Pair[Line, Cloud]
type cloudPairArg = data.Pair[Cloud, Cloud]

// QuickHull computes convex hulls of articulated clouds.
//
// Each recursion stage (side filtering, furthest-point search, the
// hull split itself, and result concatenation) is its own memoized
// function; the result is an articulated list of hull points in
// traversal order, starting at the lexicographically smallest point.
// Collinear points are not part of the hull.
type QuickHull struct {
	filter   *dcg.Mfn[lineCloudArg, pointList]
	furthest *dcg.Mfn[lineCloudArg, furthestAcc]
	split    *dcg.Mfn[lineCloudArg, pointList]
	appendTo *dcg.Mfn[cloudPairArg, pointList]
	top      *dcg.Mfn[Cloud, pointList]
}

// furthestAcc is the running result of the furthest-point search.
type furthestAcc struct {
	Found bool
	Best  Point
	Dist  float64 // cross magnitude of Best against the query line
}

func furthestDesc() data.Desc[furthestAcc] {
	pd := PointDesc()
	f := data.Float64()
	return data.Desc[furthestAcc]{
		Equal: func(a, b furthestAcc) bool { return a == b },
		Hash: func(seed uint64, v furthestAcc) uint64 {
			h := data.HashU64(seed, boolBit(v.Found))
			return f.Hash(pd.Hash(h, v.Best), v.Dist)
		},
		Show: func(v furthestAcc) string {
			if !v.Found {
				return "none"
			}
			return pd.Show(v.Best)
		},
		Sanitize: func(v furthestAcc) furthestAcc { return v },
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// NewQuickHull declares the hull recursion on the engine.
func NewQuickHull(eng *dcg.Engine, nm name.Name) *QuickHull {
	pd := PointDesc()
	plDesc := list.Desc(pd)
	cloudDesc := dcg.NodeDesc[pointList]()
	lcDesc := data.PairDesc(LineDesc(), cloudDesc)

	q := &QuickHull{}

	filterName, nm := name.Fork(nm)
	q.filter = dcg.MkMfn(eng, filterName, lcDesc, plDesc,
		func(m *dcg.Mfn[lineCloudArg, pointList], arg lineCloudArg) pointList {
			l := arg.Snd.Force()
			if l.Nil {
				return list.NilOf[Point]()
			}
			rest := m.Art(lineCloudArg{Fst: arg.Fst, Snd: l.Tail})
			if cross(arg.Fst, l.Head) > 0 {
				return list.Cons(l.Head, rest)
			}
			// Skip without consuming an output slot: recurse eagerly.
			return rest.Force()
		})

	furthestName, nm := name.Fork(nm)
	q.furthest = dcg.MkMfn(eng, furthestName, lcDesc, furthestDesc(),
		func(m *dcg.Mfn[lineCloudArg, furthestAcc], arg lineCloudArg) furthestAcc {
			l := arg.Snd.Force()
			if l.Nil {
				return furthestAcc{}
			}
			acc := m.Art(lineCloudArg{Fst: arg.Fst, Snd: l.Tail}).Force()
			d := cross(arg.Fst, l.Head)
			if !acc.Found || d > acc.Dist || (d == acc.Dist && less(l.Head, acc.Best)) {
				return furthestAcc{Found: true, Best: l.Head, Dist: d}
			}
			return acc
		})

	appendName, nm := name.Fork(nm)
	q.appendTo = dcg.MkMfn(eng, appendName, data.PairDesc(cloudDesc, cloudDesc), plDesc,
		func(m *dcg.Mfn[cloudPairArg, pointList], arg cloudPairArg) pointList {
			l := arg.Fst.Force()
			if l.Nil {
				return arg.Snd.Force()
			}
			return list.Cons(l.Head, m.Art(cloudPairArg{Fst: l.Tail, Snd: arg.Snd}))
		})

	splitName, nm := name.Fork(nm)
	q.split = dcg.MkMfn(eng, splitName, lcDesc, plDesc,
		func(m *dcg.Mfn[lineCloudArg, pointList], arg lineCloudArg) pointList {
			// Hull points strictly left of line A->B, in traversal
			// order, excluding the endpoints themselves.
			far := q.furthest.Art(arg).Force()
			if !far.Found || far.Dist <= 0 {
				return list.NilOf[Point]()
			}

			leftSide := q.filter.Art(lineCloudArg{
				Fst: Line{A: arg.Fst.A, B: far.Best},
				Snd: arg.Snd,
			})
			rightSide := q.filter.Art(lineCloudArg{
				Fst: Line{A: far.Best, B: arg.Fst.B},
				Snd: arg.Snd,
			})

			before := m.Art(lineCloudArg{Fst: Line{A: arg.Fst.A, B: far.Best}, Snd: leftSide})
			after := m.Art(lineCloudArg{Fst: Line{A: far.Best, B: arg.Fst.B}, Snd: rightSide})

			mid := dcg.Thunk(eng, name.Gensym(), plDesc, func() pointList {
				return list.Cons(far.Best, after)
			})
			return q.appendTo.Art(cloudPairArg{Fst: before, Snd: mid}).Force()
		})

	topName, _ := name.Fork(nm)
	q.top = dcg.MkMfn(eng, topName, cloudDesc, plDesc,
		func(m *dcg.Mfn[Cloud, pointList], cloud Cloud) pointList {
			pts := forcePoints(cloud)
			if len(pts) < 2 {
				if len(pts) == 1 {
					end := dcg.Thunk(eng, name.Gensym(), plDesc, func() pointList {
						return list.NilOf[Point]()
					})
					return list.Cons(pts[0], end)
				}
				return list.NilOf[Point]()
			}

			lo, hi := pts[0], pts[0]
			for _, p := range pts[1:] {
				if less(p, lo) {
					lo = p
				}
				if less(hi, p) {
					hi = p
				}
			}

			upper := q.split.Art(lineCloudArg{Fst: Line{A: lo, B: hi}, Snd: cloud})
			lower := q.split.Art(lineCloudArg{Fst: Line{A: hi, B: lo}, Snd: cloud})

			loPt, hiPt := lo, hi
			withLower := dcg.Thunk(eng, name.Gensym(), plDesc, func() pointList {
				end := dcg.Thunk(eng, name.Gensym(), plDesc, func() pointList {
					return list.NilOf[Point]()
				})
				return list.Cons(hiPt, q.appendTo.Art(cloudPairArg{Fst: lower, Snd: end}))
			})
			first := q.appendTo.Art(cloudPairArg{Fst: upper, Snd: withLower}).Force()
			return list.Cons(loPt, pin(eng, plDesc, first))
		})

	return q
}

// pin wraps an already computed list value as a node so it can be a
// cons tail.
func pin(eng *dcg.Engine, d data.Desc[pointList], v pointList) dcg.Node[pointList] {
	return dcg.Thunk(eng, name.Gensym(), d, func() pointList { return v })
}

// Hull articulates the hull of a cloud.
func (q *QuickHull) Hull(cloud Cloud) dcg.Node[pointList] {
	return q.top.Art(cloud)
}

// forcePoints forces a whole cloud spine, recording a dependency on
// every cons cell.
func forcePoints(cloud Cloud) []Point {
	var out []Point
	n := cloud
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
