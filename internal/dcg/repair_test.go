package dcg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/name"
)

func TestThunk_CachesAcrossForces(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 2, data.Int())

	count := 0
	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		count++
		return c.Force() * 2
	})

	assert.Equal(t, 4, th.Force())
	assert.Equal(t, 4, th.Force())
	assert.Equal(t, 1, count, "second force must not re-run the body")
}

func TestThunk_SetPropagates(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 2, data.Int())

	count := 0
	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		count++
		return c.Force() * 2
	})

	assert.Equal(t, 4, th.Force())
	c.Set(10)
	assert.Equal(t, 20, th.Force())
	assert.Equal(t, 2, count)
}

func TestRepair_UnchangedResultSuppressesParent(t *testing.T) {
	eng := New()
	a := NewCell(eng, name.OfString("a"), 1, data.Int())

	midCount, topCount := 0, 0
	mid := Thunk(eng, name.OfString("mid"), data.Int(), func() int {
		midCount++
		return a.Force() * 0 // constant regardless of input
	})
	top := Thunk(eng, name.OfString("top"), data.Int(), func() int {
		topCount++
		return mid.Force() + 7
	})

	assert.Equal(t, 7, top.Force())
	assert.Equal(t, 1, midCount)
	assert.Equal(t, 1, topCount)

	a.Set(5)
	assert.Equal(t, 7, top.Force())
	assert.Equal(t, 2, midCount, "mid must re-run: its input changed")
	assert.Equal(t, 1, topCount, "top must not re-run: mid's result is unchanged")
}

func TestRepair_CheckReceiptDisabled(t *testing.T) {
	eng := New(WithCheckReceipt(false))
	a := NewCell(eng, name.OfString("a"), 1, data.Int())

	midCount, topCount := 0, 0
	mid := Thunk(eng, name.OfString("mid"), data.Int(), func() int {
		midCount++
		return a.Force() * 0
	})
	top := Thunk(eng, name.OfString("top"), data.Int(), func() int {
		topCount++
		return mid.Force() + 7
	})

	assert.Equal(t, 7, top.Force())
	a.Set(5)
	assert.Equal(t, 7, top.Force())
	assert.Equal(t, 2, topCount, "without receipt checking every dirty edge re-evaluates")
}

func TestRepair_ChangedResultReevaluatesParent(t *testing.T) {
	eng := New()
	a := NewCell(eng, name.OfString("a"), 1, data.Int())

	topCount := 0
	mid := Thunk(eng, name.OfString("mid"), data.Int(), func() int {
		return a.Force() * 2
	})
	top := Thunk(eng, name.OfString("top"), data.Int(), func() int {
		topCount++
		return mid.Force() + 1
	})

	assert.Equal(t, 3, top.Force())
	a.Set(10)
	assert.Equal(t, 21, top.Force())
	assert.Equal(t, 2, topCount)
}

func TestRepair_UnrelatedSetDoesNotReevaluate(t *testing.T) {
	eng := New()
	used := NewCell(eng, name.OfString("used"), 1, data.Int())
	unused := NewCell(eng, name.OfString("unused"), 100, data.Int())

	count := 0
	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		count++
		return used.Force()
	})

	assert.Equal(t, 1, th.Force())
	unused.Set(200)
	assert.Equal(t, 1, th.Force())
	assert.Equal(t, 1, count, "mutating an unobserved cell must not reach this thunk")
}

func TestRepair_DiamondSharedChildRepairedOnce(t *testing.T) {
	eng := New()
	a := NewCell(eng, name.OfString("a"), 1, data.Int())

	sharedCount := 0
	shared := Thunk(eng, name.OfString("shared"), data.Int(), func() int {
		sharedCount++
		return a.Force() + 1
	})
	left := Thunk(eng, name.OfString("left"), data.Int(), func() int {
		return shared.Force() * 10
	})
	right := Thunk(eng, name.OfString("right"), data.Int(), func() int {
		return shared.Force() * 100
	})
	top := Thunk(eng, name.OfString("top"), data.Int(), func() int {
		return left.Force() + right.Force()
	})

	assert.Equal(t, 220, top.Force())
	assert.Equal(t, 1, sharedCount, "both arms observe one shared node")

	a.Set(2)
	assert.Equal(t, 330, top.Force())
	assert.Equal(t, 2, sharedCount, "repair re-runs the shared node once, not per arm")
}

func TestEvaluate_PanicUnwindsFrameAndRetainsState(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 1, data.Int())

	boom := false
	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		if boom {
			panic("body failure")
		}
		return c.Force()
	})

	assert.Equal(t, 1, th.Force())

	boom = true
	c.Set(2)
	assert.PanicsWithValue(t, "body failure", func() { th.Force() })
	assert.False(t, eng.InForce(), "force frame must be popped on panic")

	// Engine remains usable: the panicking evaluation left no frame
	// behind, and a later successful evaluation replaces the state.
	boom = false
	// The aborted evaluation already obsoleted the old edges, so the
	// next force re-evaluates and succeeds.
	assert.Equal(t, 2, th.Force())
}

func TestForce_SelfForceDuringEvaluationPanics(t *testing.T) {
	eng := New()
	var th *Ptr[struct{}, int]
	th = Thunk(eng, name.OfString("t"), data.Int(), func() int {
		return th.Force() // structural failure: no value exists yet
	})
	assert.Panics(t, func() { th.Force() })
}

func TestRepair_DeepChain(t *testing.T) {
	eng := New()
	base := NewCell(eng, name.OfString("base"), 1, data.Int())

	const depth = 500
	prev := Node[int](base)
	for i := 0; i < depth; i++ {
		p := prev
		prev = Thunk(eng, name.Gensym(), data.Int(), func() int {
			return p.Force() + 1
		})
	}

	assert.Equal(t, 1+depth, prev.Force())

	base.Set(10)
	assert.Equal(t, 10+depth, prev.Force())
}
