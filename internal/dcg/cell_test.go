package dcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/name"
)

func TestCell_SetForceRoundtrip(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 1, data.Int())

	assert.Equal(t, 1, c.Force())

	c.Set(5)
	assert.Equal(t, 5, c.Force())
}

func TestCell_ForceIdempotent(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 42, data.Int())

	assert.Equal(t, 42, c.Force())
	assert.Equal(t, 42, c.Force())
}

func TestCell_SetEqualValueIsNoop(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 3, data.Int())

	before := eng.Seq()
	c.Set(3)
	assert.Equal(t, before, eng.Seq(), "equal set must not advance the mutation sequence")

	c.Set(4)
	assert.Equal(t, before+1, eng.Seq())
}

func TestCell_SetEqualValueDoesNotDirty(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 3, data.Int())

	count := 0
	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		count++
		return c.Force() * 2
	})

	assert.Equal(t, 6, th.Force())
	c.Set(3) // unchanged
	assert.Equal(t, 6, th.Force())
	assert.Equal(t, 1, count, "no dirtying means no re-evaluation")
}

func TestCell_SetInsideForcePanics(t *testing.T) {
	eng := New()
	c := NewCell(eng, name.OfString("c"), 1, data.Int())

	th := Thunk(eng, name.OfString("t"), data.Int(), func() int {
		c.Set(2) // misuse
		return 0
	})

	defer func() {
		r := recover()
		require.NotNil(t, r, "Set inside a force context must panic")
		me, ok := r.(*MisuseError)
		require.True(t, ok, "panic value should be a *MisuseError, got %T", r)
		assert.Equal(t, ErrCodeSetInForce, me.Code)
	}()
	th.Force()
}

func TestCell_SanitizeCopiesOnBothBoundaries(t *testing.T) {
	eng := New()
	in := []int{1, 2, 3}
	c := NewCell(eng, name.OfString("c"), in, data.Slice(data.Int()))

	in[0] = 99 // caller mutates after handing over
	got := c.Force()
	assert.Equal(t, []int{1, 2, 3}, got, "cell must not alias caller state")

	got[1] = 99 // caller mutates the observed value
	assert.Equal(t, []int{1, 2, 3}, c.Force(), "observed value must not alias cell state")
}
