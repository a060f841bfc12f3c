package dcg

import (
	"sort"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/name"
)

// keyMode is the identity mode of a memo-table key.
type keyMode int

const (
	// keyStructural: equal iff argument values are equal.
	keyStructural keyMode = iota + 1
	// keyGenerative: equal iff argument values are equal and both
	// keys carry the same assigned runtime id. A key that has not
	// been assigned an id matches nothing, so every fresh
	// articulation gets its own node (classical identity).
	keyGenerative
	// keyNominal: equal iff names are equal. The argument may be
	// replaced in place after a hit.
	keyNominal
)

// suspKey is the identity descriptor of a suspension.
type suspKey[A any] struct {
	mode   keyMode
	nm     name.Name
	argBox *argBox[A]
	genID  uint64 // keyGenerative: 0 = unassigned
}

// argBox holds the canonical argument. Nominal hits with a changed
// argument mutate the box, which the node's eval closure reads.
type argBox[A any] struct {
	v A
}

// Mfn is a memoized function: three callables sharing one memo table.
// The user body receives the Mfn itself as its recursion handle.
type Mfn[A, R any] struct {
	eng     *Engine
	nm      name.Name
	argDesc data.Desc[A]
	resDesc data.Desc[R]
	body    func(*Mfn[A, R], A) R
	table   *memoTable[A, R]
	seed    uint64
}

// MkMfn declares a memoized function with the given name, argument
// and result descriptors, and body.
func MkMfn[A, R any](
	eng *Engine,
	nm name.Name,
	argDesc data.Desc[A],
	resDesc data.Desc[R],
	body func(*Mfn[A, R], A) R,
) *Mfn[A, R] {
	m := &Mfn[A, R]{
		eng:     eng,
		nm:      nm,
		argDesc: argDesc,
		resDesc: resDesc,
		body:    body,
		seed:    name.Hash(0, nm),
	}
	m.table = &memoTable[A, R]{mfn: m, buckets: make(map[uint64][]*memoEntry[A, R])}
	eng.registerTable(m.table)
	return m
}

// Name returns the function's declared name.
func (m *Mfn[A, R]) Name() name.Name {
	return m.nm
}

// Engine returns the engine the function articulates into.
func (m *Mfn[A, R]) Engine() *Engine {
	return m.eng
}

// Data runs the body directly: pure recursion, no memoization and no
// graph node.
func (m *Mfn[A, R]) Data(arg A) R {
	return m.body(m, arg)
}

// Art articulates with structural identity (generative when the
// engine is configured for classical identity).
func (m *Mfn[A, R]) Art(arg A) Node[R] {
	if m.eng.cfg.DisableMfns {
		return m.freshCell(arg)
	}
	mode := keyStructural
	if m.eng.cfg.GenerativeIDs {
		mode = keyGenerative
	}
	return m.articulate(&suspKey[A]{mode: mode, argBox: &argBox[A]{v: arg}})
}

// Nart articulates with nominal identity: the key is the name, and a
// later Nart with the same name but a changed argument replaces the
// argument in place and marks the call site and its creators filthy.
func (m *Mfn[A, R]) Nart(nm name.Name, arg A) Node[R] {
	if m.eng.cfg.DisableMfns {
		return m.freshCell(arg)
	}
	mode := keyNominal
	if m.eng.cfg.DisableNames {
		mode = keyGenerative
	}
	return m.articulate(&suspKey[A]{mode: mode, nm: nm, argBox: &argBox[A]{v: arg}})
}

// freshCell is the measurement path: the call degenerates to a fresh
// cell holding the non-incrementally computed result. No memo table,
// no create edges.
func (m *Mfn[A, R]) freshCell(arg A) Node[R] {
	return NewCell(m.eng, name.Gensym(), m.Data(arg), m.resDesc)
}

// articulate sanitizes the argument and resolves the key through the
// memo table.
func (m *Mfn[A, R]) articulate(key *suspKey[A]) *Ptr[A, R] {
	key.argBox.v = m.argDesc.Sanitize(key.argBox.v)
	return m.table.lookup(&Ptr[A, R]{eng: m.eng, mfn: m, key: key})
}

// SetArg replaces the articulation's argument in place. Only nominal
// articulations support this; anything else panics with a
// *MisuseError. The node and its creators are marked filthy exactly
// as on a nominal hit with a changed argument.
func (p *Ptr[A, R]) SetArg(arg A) {
	if p.key == nil || p.key.mode != keyNominal {
		panicMisuse(ErrCodeArgMutation, p.sl.meta.id,
			"argument replacement on a non-nominal articulation")
	}
	if p.mfn.argDesc.Equal(p.key.argBox.v, arg) {
		return
	}
	p.mfn.table.replaceArg(p, arg)
}

// SetID assigns a shared generative id, letting two otherwise
// separate articulations hit the same memo entry. Only generative
// articulations support this.
func (p *Ptr[A, R]) SetID(id uint64) {
	if p.key == nil || p.key.mode != keyGenerative {
		panicMisuse(ErrCodeSetID, p.sl.meta.id,
			"SetID on a non-generative articulation")
	}
	p.mfn.table.rekey(p, id)
}

// memoEntry is one canonical articulation in a table.
type memoEntry[A, R any] struct {
	hash       uint64
	key        *suspKey[A]
	ptr        *Ptr[A, R]
	insertedAt uint64
	lastUse    uint64
	removed    bool
}

// memoTable is the per-function table of canonical suspension
// pointers. Key equality and hashing honour the identity mode.
type memoTable[A, R any] struct {
	mfn     *Mfn[A, R]
	buckets map[uint64][]*memoEntry[A, R]
	count   int
}

// keyHash buckets a key under the table's seed.
func (t *memoTable[A, R]) keyHash(key *suspKey[A]) uint64 {
	if key.mode == keyNominal {
		return name.Hash(t.mfn.seed, key.nm)
	}
	return t.mfn.argDesc.Hash(t.mfn.seed, key.argBox.v)
}

// keyEqual compares two keys under the identity mode. Keys of
// different modes never compare equal.
func (t *memoTable[A, R]) keyEqual(a, b *suspKey[A]) bool {
	if a.mode != b.mode {
		return false
	}
	switch a.mode {
	case keyNominal:
		return name.Equal(a.nm, b.nm)
	case keyStructural:
		return t.mfn.argDesc.Equal(a.argBox.v, b.argBox.v)
	case keyGenerative:
		if !t.mfn.argDesc.Equal(a.argBox.v, b.argBox.v) {
			return false
		}
		return a.genID != 0 && b.genID != 0 && a.genID == b.genID
	default:
		return false
	}
}

// lookup resolves a probe pointer to the canonical pointer for its
// key, inserting the probe on a miss.
func (t *memoTable[A, R]) lookup(probe *Ptr[A, R]) *Ptr[A, R] {
	eng := t.mfn.eng
	hash := t.keyHash(probe.key)

	var hit *memoEntry[A, R]
	for _, ent := range t.buckets[hash] {
		if !ent.removed && t.keyEqual(ent.key, probe.key) {
			hit = ent
			break
		}
	}

	if hit == nil {
		return t.insert(probe, hash)
	}

	eng.counters.MemoHits++
	eng.emit(EventMemoHit, hit.ptr.sl.meta.id, t.mfn.nm.String())
	hit.lastUse = eng.ticks.Next()

	if probe.key.mode == keyNominal &&
		!t.mfn.argDesc.Equal(hit.key.argBox.v, probe.key.argBox.v) {
		t.invalidateCreators(hit)
		hit.key.argBox.v = probe.key.argBox.v // already sanitized by articulate
		eng.markFilthy(hit.ptr.sl.meta)
	}

	// A hit still creates an edge (or a root hold) to the canonical
	// node; the hit pointer and the canonical pointer share one node
	// through the slot.
	rootEdge := attachCreator(eng, hit.ptr.sl)
	if rootEdge != nil || eng.cfg.SanitizePointers {
		return &Ptr[A, R]{
			eng:      eng,
			mfn:      t.mfn,
			key:      hit.key,
			sl:       hit.ptr.sl,
			rootEdge: rootEdge,
		}
	}
	return hit.ptr
}

// insert makes the probe the canonical entry for its key.
func (t *memoTable[A, R]) insert(probe *Ptr[A, R], hash uint64) *Ptr[A, R] {
	eng := t.mfn.eng

	if probe.key.mode == keyGenerative && probe.key.genID == 0 {
		probe.key.genID = eng.ids.Next()
	}

	ent := &memoEntry[A, R]{
		hash:       hash,
		key:        probe.key,
		ptr:        probe,
		insertedAt: eng.ticks.Next(),
	}
	ent.lastUse = ent.insertedAt

	mfn := t.mfn
	box := probe.key.argBox
	probe.sl = newPrenode[R](eng, mfn.resDesc,
		func() R { return mfn.body(mfn, box.v) },
		func() { t.remove(ent) },
	)

	t.buckets[hash] = append(t.buckets[hash], ent)
	t.count++

	eng.counters.MemoMisses++
	eng.emit(EventMemoMiss, probe.sl.meta.id, mfn.nm.String())

	probe.rootEdge = attachCreator(eng, probe.sl)
	return probe
}

// invalidateCreators marks filthy every creator of the canonical node
// other than the currently running thunk and the root context. This
// is how re-articulating a stable name with a changed argument
// invalidates everything that created the call site.
func (t *memoTable[A, R]) invalidateCreators(ent *memoEntry[A, R]) {
	eng := t.mfn.eng
	var cur *Meta
	if top := eng.topFrame(); top != nil {
		cur = top.src
	}
	ent.ptr.sl.meta.mutators.fold(func(me *mutEdge) {
		if me.source == eng.root || me.source == cur {
			return
		}
		eng.markFilthy(me.source)
	})
}

// replaceArg is the SetArg path: swap the canonical argument and mark
// the node plus its creators filthy.
func (t *memoTable[A, R]) replaceArg(p *Ptr[A, R], arg A) {
	eng := t.mfn.eng
	hash := t.keyHash(p.key)
	for _, ent := range t.buckets[hash] {
		if !ent.removed && ent.key == p.key {
			t.invalidateCreators(ent)
			break
		}
	}
	p.key.argBox.v = t.mfn.argDesc.Sanitize(arg)
	eng.markFilthy(p.sl.meta)
}

// rekey assigns a caller-chosen generative id. If another entry
// already carries the target identity, the pointer adopts that
// entry's canonical node and its own entry is dropped; generative
// hashing ignores the id, so no rebucketing is needed otherwise.
func (t *memoTable[A, R]) rekey(p *Ptr[A, R], id uint64) {
	eng := t.mfn.eng
	hash := t.keyHash(p.key)

	target := &suspKey[A]{mode: keyGenerative, argBox: p.key.argBox, genID: id}
	var canonical, own *memoEntry[A, R]
	for _, ent := range t.buckets[hash] {
		if ent.removed {
			continue
		}
		if ent.key == p.key {
			own = ent
		} else if t.keyEqual(ent.key, target) {
			canonical = ent
		}
	}

	if canonical == nil {
		p.key.genID = id
		return
	}

	// Merge: drop this pointer's own identity and share the canonical
	// node, with the usual hit bookkeeping.
	if own != nil {
		t.remove(own)
	}
	p.Release()
	p.key = canonical.key
	p.sl = canonical.ptr.sl
	p.rootEdge = attachCreator(eng, p.sl)
	eng.counters.MemoHits++
	canonical.lastUse = eng.ticks.Next()
}

// remove deletes an entry; invoked by node teardown. Idempotent: the
// entry may already have been removed by policy eviction.
func (t *memoTable[A, R]) remove(ent *memoEntry[A, R]) {
	if ent.removed {
		return
	}
	ent.removed = true
	t.count--

	bucket := t.buckets[ent.hash]
	for i, cur := range bucket {
		if cur == ent {
			t.buckets[ent.hash] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(t.buckets[ent.hash]) == 0 {
		delete(t.buckets, ent.hash)
	}
}

// Len reports the number of live entries.
func (t *memoTable[A, R]) Len() int {
	return t.count
}

// evict applies a size-bounding policy: oldest-inserted first for
// FIFO, least-recently-used first for LRU.
func (t *memoTable[A, R]) evict(policy EvictionPolicy) {
	if policy.Kind == EvictNone || policy.Kind == "" || t.count <= policy.Capacity {
		return
	}

	live := make([]*memoEntry[A, R], 0, t.count)
	for _, bucket := range t.buckets {
		for _, ent := range bucket {
			if !ent.removed {
				live = append(live, ent)
			}
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if policy.Kind == EvictLru {
			return live[i].lastUse < live[j].lastUse
		}
		return live[i].insertedAt < live[j].insertedAt
	})

	eng := t.mfn.eng
	excess := len(live) - policy.Capacity
	for _, ent := range live[:excess] {
		t.remove(ent)
		eng.counters.Evictions++
		eng.emit(EventEvict, ent.ptr.sl.meta.id, t.mfn.nm.String())
	}
}
