// Package geom provides incremental planar geometry over articulated
// point clouds: convex hulls by quickhull and pairwise cloud
// distances. Clouds are the articulated lists from package list; each
// stage of the recursion is a memoized function, so point mutations
// re-run only the affected branches.
package geom

import (
	"fmt"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/list"
)

// Point is a point in the plane.
type Point struct {
	X, Y float64
}

// PointDesc describes points for the engine.
func PointDesc() data.Desc[Point] {
	f := data.Float64()
	return data.Desc[Point]{
		Equal: func(a, b Point) bool { return a == b },
		Hash: func(seed uint64, p Point) uint64 {
			return f.Hash(f.Hash(seed, p.X), p.Y)
		},
		Show: func(p Point) string {
			return fmt.Sprintf("(%g,%g)", p.X, p.Y)
		},
		Sanitize: func(p Point) Point { return p },
	}
}

// Line is the directed line through A and B.
type Line struct {
	A, B Point
}

// LineDesc describes directed lines.
func LineDesc() data.Desc[Line] {
	pd := PointDesc()
	return data.Desc[Line]{
		Equal: func(a, b Line) bool { return a == b },
		Hash: func(seed uint64, l Line) uint64 {
			return pd.Hash(pd.Hash(seed, l.A), l.B)
		},
		Show: func(l Line) string {
			return pd.Show(l.A) + "->" + pd.Show(l.B)
		},
		Sanitize: func(l Line) Line { return l },
	}
}

// Cloud is an articulated list of points.
type Cloud = dcg.Node[list.List[Point]]

// cross is the z component of (B-A) x (P-A): positive when P lies
// strictly left of the directed line A->B.
func cross(l Line, p Point) float64 {
	return (l.B.X-l.A.X)*(p.Y-l.A.Y) - (l.B.Y-l.A.Y)*(p.X-l.A.X)
}

// DistSq is the squared euclidean distance between two points.
func DistSq(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// less orders points lexicographically; used for deterministic
// extreme-point selection.
func less(p, q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}
