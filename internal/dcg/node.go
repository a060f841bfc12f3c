package dcg

import (
	"fmt"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/name"
)

// Node is the observable handle over any DCG node: a cell, an
// anonymous thunk, or a memoized articulation.
//
// Forcing a node returns its (sanitized) value and, when a force
// context is active, records a dependency edge from the running thunk
// to this node.
type Node[T any] interface {
	// Force observes the node's value, repairing it first if needed.
	Force() T

	// Meta returns the node's identity record.
	Meta() *Meta

	observe() (T, func() (bool, GraphState), GraphState)
	nodeMeta() *Meta
	nodeEngine() *Engine
	addRef()
	refUndo() func()
}

// slotKind tracks the lifecycle stage of a suspension slot.
type slotKind int

const (
	slotEmpty slotKind = iota
	slotPrenode
	slotNode
)

// slot is the shared backing of every suspension pointer with the
// same identity. It transitions Empty -> Prenode -> Node and never
// back: eviction moves the memo-table entry away, not the slot.
type slot[R any] struct {
	kind    slotKind
	meta    *Meta
	refc    int    // prenode-stage count; moves into the node on transition
	undo    func() // memo-entry removal
	evalFn  func() R
	resDesc data.Desc[R]
	node    *suspNode[R]
}

// newPrenode allocates a slot at the Prenode stage with a fresh meta.
func newPrenode[R any](eng *Engine, resDesc data.Desc[R], evalFn func() R, undo func()) *slot[R] {
	return &slot[R]{
		kind:    slotPrenode,
		meta:    newMeta(eng.ids.Next()),
		undo:    undo,
		evalFn:  evalFn,
		resDesc: resDesc,
	}
}

// addRef bumps the slot's reference count at whichever stage it is in.
func (sl *slot[R]) addRef() {
	if sl.kind == slotNode {
		sl.node.refc++
		return
	}
	sl.refc++
}

// decr drops one reference. A prenode is never auto-destroyed (it has
// no state to release yet). A node reaching zero is destroyed now or
// queued into the engine's undo buffer.
func (sl *slot[R]) decr(eng *Engine, now bool) {
	if sl.kind != slotNode {
		sl.refc--
		return
	}
	sn := sl.node
	sn.refc--
	if sn.refc <= 0 && eng.cfg.RefCount && !sn.destroyed {
		eng.scheduleDestroy(sn.meta.id, sn.destroy, now)
	}
}

// suspNode is the evaluated representation of a suspension: the cached
// value plus the outgoing edges the most recent evaluation recorded.
// The outgoing lists are the strong references; only the reverse sets
// on the far metas are weak.
type suspNode[R any] struct {
	eng        *Engine
	meta       *Meta
	refc       int
	undo       func()
	resDesc    data.Desc[R]
	eval       func() R
	st         *suspState[R] // nil until first evaluation
	destroyed  bool
	evaluating bool
}

// suspState is one evaluation's outcome. Re-evaluation replaces the
// owning node's state record in place.
type suspState[R any] struct {
	value   R
	forces  []*forceEdge
	creates []*mutEdge
}

// Ptr is a suspension pointer: a stable handle sharing identity with
// every other pointer produced for the same memo key.
//
// A pointer articulated at the root context holds one external
// reference on its node; Release drops it. Pointers articulated
// inside a running body are kept alive by the recorded create edge
// instead, and Release is a no-op for them.
type Ptr[A, R any] struct {
	eng      *Engine
	mfn      *Mfn[A, R] // nil for anonymous thunks
	key      *suspKey[A]
	sl       *slot[R]
	rootEdge *mutEdge // root-context hold; nil when frame-owned
}

// Force observes the articulation's value, evaluating or repairing as
// needed.
func (p *Ptr[A, R]) Force() R {
	return force[R](p)
}

// Meta returns the articulation's identity record.
func (p *Ptr[A, R]) Meta() *Meta {
	return p.sl.meta
}

// Release drops the external reference this handle holds on its node.
// Idempotent; a no-op for handles created inside a force context.
func (p *Ptr[A, R]) Release() {
	if p.rootEdge == nil || p.rootEdge.flag == FlagObsolete {
		return
	}
	p.rootEdge.flag = FlagObsolete
	if p.rootEdge.undo != nil {
		p.rootEdge.undo()
	}
}

// observe evaluates (first force), repairs (later forces) and returns
// the value with a receipt bound to this observation.
func (p *Ptr[A, R]) observe() (R, func() (bool, GraphState), GraphState) {
	sl := p.sl
	if sl.kind == slotPrenode {
		// Back-patch the slot: the prenode's identity and references
		// carry over into the full node.
		sl.node = &suspNode[R]{
			eng:     p.eng,
			meta:    sl.meta,
			refc:    sl.refc,
			undo:    sl.undo,
			resDesc: sl.resDesc,
			eval:    sl.evalFn,
		}
		sl.kind = slotNode
	}
	sn := sl.node

	v, st := sn.repair()

	observed := v
	eng := p.eng
	check := func() (bool, GraphState) {
		if !eng.cfg.CheckReceipt {
			return false, Consistent
		}
		cur, curSt := sn.repair()
		return sn.resDesc.Equal(observed, cur), curSt
	}
	return sn.resDesc.Sanitize(v), check, st
}

func (p *Ptr[A, R]) nodeMeta() *Meta     { return p.sl.meta }
func (p *Ptr[A, R]) nodeEngine() *Engine { return p.eng }

func (p *Ptr[A, R]) addRef() {
	p.sl.addRef()
}

func (p *Ptr[A, R]) refUndo() func() {
	sl := p.sl
	eng := p.eng
	return func() { sl.decr(eng, false) }
}

// Thunk builds an anonymous nullary suspension. Forcing it runs body
// under the thunk's own identity and caches the result; there is no
// memo table behind it.
func Thunk[R any](eng *Engine, nm name.Name, resDesc data.Desc[R], body func() R) *Ptr[struct{}, R] {
	sl := newPrenode[R](eng, resDesc, body, nil)
	p := &Ptr[struct{}, R]{eng: eng, sl: sl}
	p.rootEdge = attachCreator(eng, sl)
	eng.emit(EventMemoMiss, sl.meta.id, "thunk "+nm.String())
	return p
}

// NodeDesc describes Node[T] handles as memo arguments: articulation
// identity, not content. Two handles are equal iff they share a meta.
func NodeDesc[T any]() data.Desc[Node[T]] {
	return data.Desc[Node[T]]{
		Equal: func(a, b Node[T]) bool {
			if a == nil || b == nil {
				return a == nil && b == nil
			}
			return a.nodeMeta() == b.nodeMeta()
		},
		Hash: func(seed uint64, v Node[T]) uint64 {
			if v == nil {
				return data.HashU64(seed, 0)
			}
			return data.HashU64(seed, v.nodeMeta().id)
		},
		Show: func(v Node[T]) string {
			if v == nil {
				return "<nil>"
			}
			return fmt.Sprintf("art#%d", v.nodeMeta().id)
		},
		Sanitize: func(v Node[T]) Node[T] { return v },
	}
}
