package geom

import (
	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/name"
)

type pointCloudArg = data.Pair[Point, Cloud]

// MaxDist computes the maximum squared distance between two clouds:
// the largest DistSq(a, b) over a in the first cloud and b in the
// second. The per-point scan and the outer fold are both memoized,
// so mutating one point re-runs one inner scan plus the outer spine.
type MaxDist struct {
	inner *dcg.Mfn[pointCloudArg, float64]
	outer *dcg.Mfn[cloudPairArg, float64]
}

// NewMaxDist declares the distance recursion on the engine.
func NewMaxDist(eng *dcg.Engine, nm name.Name) *MaxDist {
	cloudDesc := dcg.NodeDesc[pointList]()
	f := data.Float64()

	md := &MaxDist{}

	innerName, nm := name.Fork(nm)
	md.inner = dcg.MkMfn(eng, innerName, data.PairDesc(PointDesc(), cloudDesc), f,
		func(m *dcg.Mfn[pointCloudArg, float64], arg pointCloudArg) float64 {
			l := arg.Snd.Force()
			if l.Nil {
				return 0
			}
			rest := m.Art(pointCloudArg{Fst: arg.Fst, Snd: l.Tail}).Force()
			return max(DistSq(arg.Fst, l.Head), rest)
		})

	outerName, _ := name.Fork(nm)
	md.outer = dcg.MkMfn(eng, outerName, data.PairDesc(cloudDesc, cloudDesc), f,
		func(m *dcg.Mfn[cloudPairArg, float64], arg cloudPairArg) float64 {
			l := arg.Fst.Force()
			if l.Nil {
				return 0
			}
			rest := m.Art(cloudPairArg{Fst: l.Tail, Snd: arg.Snd}).Force()
			return max(md.inner.Art(pointCloudArg{Fst: l.Head, Snd: arg.Snd}).Force(), rest)
		})

	return md
}

// Between articulates the maximum squared distance between two clouds.
func (md *MaxDist) Between(a, b Cloud) dcg.Node[float64] {
	return md.outer.Art(cloudPairArg{Fst: a, Snd: b})
}
