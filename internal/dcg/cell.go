package dcg

import (
	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/name"
)

// Cell is an externally written input node.
//
// Cells are the leaves mutation enters through: Set flips the reverse
// graph dirty, and the next Force at an affected suspension triggers
// repair. Cells are owned by the caller and are never torn down by
// reference counting.
type Cell[T any] struct {
	eng   *Engine
	meta  *Meta
	nm    name.Name
	desc  data.Desc[T]
	value T
}

// NewCell creates a fresh mutable cell holding value.
func NewCell[T any](eng *Engine, nm name.Name, value T, desc data.Desc[T]) *Cell[T] {
	return &Cell[T]{
		eng:   eng,
		meta:  newMeta(eng.ids.Next()),
		nm:    nm,
		desc:  desc,
		value: desc.Sanitize(value),
	}
}

// Set replaces the cell's value and dirties the reverse graph.
//
// Forbidden while any force context is active (panics with a
// *MisuseError). A value equal to the current one under the cell's
// descriptor is a no-op: nothing is dirtied and the global mutation
// sequence does not advance.
func (c *Cell[T]) Set(value T) {
	if c.eng.InForce() {
		panicMisuse(ErrCodeSetInForce, c.meta.id,
			"Set on cell %s while a force context is active", c.nm)
	}
	if c.desc.Equal(c.value, value) {
		return
	}

	c.value = c.desc.Sanitize(value)
	c.eng.seq.Next()
	c.eng.emit(EventSet, c.meta.id, c.nm.String())
	c.eng.dirty(c.meta)
}

// Force returns the stored value, recording a dependency edge if a
// force context is active.
func (c *Cell[T]) Force() T {
	return force[T](c)
}

// Name returns the cell's name.
func (c *Cell[T]) Name() name.Name {
	return c.nm
}

// Meta returns the cell's identity record.
func (c *Cell[T]) Meta() *Meta {
	return c.meta
}

// observe fetches the value and a receipt bound to this observation.
// A cell is always consistent: its value is exactly what was last Set.
func (c *Cell[T]) observe() (T, func() (bool, GraphState), GraphState) {
	observed := c.value
	check := func() (bool, GraphState) {
		return c.desc.Equal(observed, c.value), Consistent
	}
	return c.desc.Sanitize(observed), check, Consistent
}

func (c *Cell[T]) nodeMeta() *Meta     { return c.meta }
func (c *Cell[T]) nodeEngine() *Engine { return c.eng }

// addRef is a no-op: cells are caller-owned and never torn down.
func (c *Cell[T]) addRef() {}

// refUndo returns nil: edges to cells release nothing.
func (c *Cell[T]) refUndo() func() { return nil }
