package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/name"
	"github.com/roach88/grifola/internal/testutil"
)

func TestFromSlice_ToSliceRoundtrip(t *testing.T) {
	eng := dcg.New()
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(), []int{1, 2, 3})

	assert.Equal(t, []int{1, 2, 3}, ToSlice(head))
	assert.Len(t, cells, 3)
}

func TestFromSlice_Empty(t *testing.T) {
	eng := dcg.New()
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(), nil)

	assert.Empty(t, ToSlice(head))
	assert.Empty(t, cells)
}

func TestSetAt_MutatesOneElement(t *testing.T) {
	eng := dcg.New()
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(), []int{1, 2, 3})

	SetAt(cells, 1, 99)
	assert.Equal(t, []int{1, 99, 3}, ToSlice(head))
}

func TestUniq_AllDistinct(t *testing.T) {
	eng := dcg.New()
	head, _ := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)

	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, ToSlice(out))
}

func TestUniq_AlternatingRepeats(t *testing.T) {
	eng := dcg.New()
	head, _ := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 0, 2, 0, 3, 0, 4, 0, 5})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)

	assert.Equal(t, []int{0, 0, 1, 0, 1, 0, 1, 0, 1, 0}, ToSlice(out))
}

func TestUniq_Empty(t *testing.T) {
	eng := dcg.New()
	head, _ := FromSlice(eng, name.OfString("xs"), data.Int(), nil)

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)

	assert.Empty(t, ToSlice(out))
}

func TestUniq_SecondReadRunsNoBodies(t *testing.T) {
	eng := dcg.New()
	head, _ := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)

	ToSlice(out)
	runs := u.Runs()
	ToSlice(out)
	assert.Equal(t, runs, u.Runs(), "re-reading without mutation must not run any body")
}

func TestUniq_IncrementalityWitness(t *testing.T) {
	eng := dcg.New()
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)

	ToSlice(out)
	runsAfterBuild := u.Runs()
	require.Equal(t, 11, runsAfterBuild, "one run per element plus the terminator")

	SetAt(cells, 3, 99)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, ToSlice(out))

	delta := u.Runs() - runsAfterBuild
	assert.Less(t, delta, 10, "only the affected suffix may re-run")
	assert.Greater(t, delta, 0, "the mutated element itself must re-run")
}

func TestUniq_MutationToRepeat(t *testing.T) {
	eng := dcg.New()
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 2, 3, 4})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)
	require.Equal(t, []int{0, 0, 0, 0, 0}, ToSlice(out))

	// Turning element 2 into a repeat of element 0 flags it.
	SetAt(cells, 2, 0)
	assert.Equal(t, []int{0, 0, 1, 0, 0}, ToSlice(out))
}

func TestUniq_MutationEventProfile(t *testing.T) {
	rec := testutil.NewEventRecorder()
	eng := dcg.New(dcg.WithSink(rec))
	head, cells := FromSlice(eng, name.OfString("xs"), data.Int(),
		[]int{0, 1, 2, 3, 4})

	u := NewUniq(eng, name.OfString("uniq"))
	out := u.Apply(head)
	ToSlice(out)

	rec.Reset()
	SetAt(cells, 2, 7)
	ToSlice(out)

	assert.Equal(t, 1, rec.Count(dcg.EventSet))
	assert.Equal(t, 1, rec.Count(dcg.EventDirty), "one force edge observes the mutated cell")
	evals := rec.Count(dcg.EventEvaluate)
	assert.Greater(t, evals, 0)
	assert.Less(t, evals, 5, "only the suffix behind the mutation re-evaluates")
}

func TestDesc_TailIdentity(t *testing.T) {
	eng := dcg.New()
	d := Desc(data.Int())

	headA, _ := FromSlice(eng, name.OfString("a"), data.Int(), []int{1})
	headB, _ := FromSlice(eng, name.OfString("b"), data.Int(), []int{1})

	consA := Cons(5, headA)
	consA2 := Cons(5, headA)
	consB := Cons(5, headB)

	assert.True(t, d.Equal(consA, consA2), "same head, same tail articulation")
	assert.False(t, d.Equal(consA, consB), "tails compare by articulation identity, not content")
	assert.True(t, d.Equal(NilOf[int](), NilOf[int]()))
	assert.False(t, d.Equal(NilOf[int](), consA))
}
