// Package harness runs end-to-end engine scenarios: build an input,
// read the output, apply mutations, read again. Results snapshot the
// observable values per phase plus the engine counters, which is what
// the golden tests and the CLI both consume.
package harness

import (
	"fmt"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/geom"
	"github.com/roach88/grifola/internal/list"
	"github.com/roach88/grifola/internal/name"
	"github.com/roach88/grifola/internal/stats"
)

// Application names understood by the runner.
const (
	AppListUnique   = "list_unique"
	AppQuickHull    = "quickhull"
	AppCloudMaxDist = "cloud_max_dist"
)

// Mutation replaces one input element between reads. Value is used by
// the list application, Point by the geometry applications (always
// applied to the first cloud).
type Mutation struct {
	Index int        `json:"index"`
	Value int        `json:"value,omitempty"`
	Point geom.Point `json:"point,omitempty"`
}

// Scenario is one self-contained engine exercise.
type Scenario struct {
	Name      string       `json:"name"`
	App       string       `json:"app"`
	Ints      []int        `json:"ints,omitempty"`
	CloudA    []geom.Point `json:"cloud_a,omitempty"`
	CloudB    []geom.Point `json:"cloud_b,omitempty"`
	Mutations []Mutation   `json:"mutations,omitempty"`
}

// Phase is the observable output of one read: the initial read first,
// then one per mutation.
type Phase struct {
	Ints   []int        `json:"ints,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
	Dist   *float64     `json:"dist,omitempty"`
}

// Result is a completed scenario run.
type Result struct {
	Phases   []Phase
	Counters stats.Counters
}

// Run executes a scenario on a fresh engine built with opts.
func Run(sc *Scenario, opts ...dcg.Option) (*Result, error) {
	eng := dcg.New(opts...)

	switch sc.App {
	case AppListUnique:
		return runListUnique(eng, sc)
	case AppQuickHull:
		return runQuickHull(eng, sc)
	case AppCloudMaxDist:
		return runCloudMaxDist(eng, sc)
	default:
		return nil, fmt.Errorf("unknown application %q", sc.App)
	}
}

func runListUnique(eng *dcg.Engine, sc *Scenario) (*Result, error) {
	head, cells := list.FromSlice(eng, name.OfString(sc.Name), data.Int(), sc.Ints)
	u := list.NewUniq(eng, name.OfString(sc.Name+"/uniq"))
	out := u.Apply(head)

	res := &Result{}
	res.Phases = append(res.Phases, Phase{Ints: list.ToSlice(out)})

	for _, mut := range sc.Mutations {
		if mut.Index < 0 || mut.Index >= len(cells) {
			return nil, fmt.Errorf("mutation index %d out of range (%d elements)", mut.Index, len(cells))
		}
		list.SetAt(cells, mut.Index, mut.Value)
		res.Phases = append(res.Phases, Phase{Ints: list.ToSlice(out)})
		eng.Flush()
	}

	res.Counters = eng.Counters().Snapshot()
	return res, nil
}

func runQuickHull(eng *dcg.Engine, sc *Scenario) (*Result, error) {
	cloud, cells := list.FromSlice(eng, name.OfString(sc.Name), geom.PointDesc(), sc.CloudA)
	q := geom.NewQuickHull(eng, name.OfString(sc.Name+"/hull"))
	hull := q.Hull(cloud)

	res := &Result{}
	res.Phases = append(res.Phases, Phase{Points: list.ToSlice(hull)})

	for _, mut := range sc.Mutations {
		if mut.Index < 0 || mut.Index >= len(cells) {
			return nil, fmt.Errorf("mutation index %d out of range (%d points)", mut.Index, len(cells))
		}
		list.SetAt(cells, mut.Index, mut.Point)
		res.Phases = append(res.Phases, Phase{Points: list.ToSlice(q.Hull(cloud))})
		eng.Flush()
	}

	res.Counters = eng.Counters().Snapshot()
	return res, nil
}

func runCloudMaxDist(eng *dcg.Engine, sc *Scenario) (*Result, error) {
	a, cells := list.FromSlice(eng, name.OfString(sc.Name+"/a"), geom.PointDesc(), sc.CloudA)
	b, _ := list.FromSlice(eng, name.OfString(sc.Name+"/b"), geom.PointDesc(), sc.CloudB)
	md := geom.NewMaxDist(eng, name.OfString(sc.Name+"/dist"))
	d := md.Between(a, b)

	res := &Result{}
	v := d.Force()
	res.Phases = append(res.Phases, Phase{Dist: &v})

	for _, mut := range sc.Mutations {
		if mut.Index < 0 || mut.Index >= len(cells) {
			return nil, fmt.Errorf("mutation index %d out of range (%d points)", mut.Index, len(cells))
		}
		list.SetAt(cells, mut.Index, mut.Point)
		cur := d.Force()
		res.Phases = append(res.Phases, Phase{Dist: &cur})
		eng.Flush()
	}

	res.Counters = eng.Counters().Snapshot()
	return res, nil
}
