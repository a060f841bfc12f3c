package dcg

import "sort"

// Meta is the identity record every DCG node carries.
//
// The reverse-edge sets hold edges weakly in the sense of §resource
// model: an edge flagged obsolete is dead, and set traversal compacts
// dead entries away. The forward copies of the same edge records (on
// the owning suspension's state) are the strong references.
type Meta struct {
	id         uint64
	state      NodeState
	dependents dependentSet // incoming force edges: who observed me
	mutators   mutatorSet   // incoming create edges: who created me
}

func newMeta(id uint64) *Meta {
	return &Meta{id: id, state: StateOk}
}

// ID returns the node's unique monotone id. The root context has id 0.
func (m *Meta) ID() uint64 {
	return m.id
}

// forceEdge records "dependent observed source".
//
// The same record is indexed twice: strongly in the dependent's
// outgoing forces list, and weakly in the source's dependents set.
// check repairs the source and reports whether the value the
// dependent observed still holds, plus the source's graph state.
type forceEdge struct {
	dependent *Meta
	source    *Meta
	flag      Flag
	check     func() (unchanged bool, st GraphState)
	undo      func()
}

// mutEdge records "source created target".
//
// Indexed strongly in the creator's outgoing creates list and weakly
// in the created node's mutators set. A creation from the root
// context uses the engine's root meta (id 0) as source.
type mutEdge struct {
	source *Meta
	target *Meta
	flag   Flag
	undo   func()
}

// dependentSet is a hash-keyed bag of force edges, bucketed by the
// dependent's meta id. Edges are equal iff physically identical;
// bucketing by id gives consistent placement and lets fold traverse
// in id order. Obsolete entries are compacted lazily on traversal.
type dependentSet struct {
	buckets map[uint64][]*forceEdge
}

// merge returns an equal (physically identical) pre-existing edge if
// present, otherwise inserts e and returns it.
func (s *dependentSet) merge(e *forceEdge) *forceEdge {
	if s.buckets == nil {
		s.buckets = make(map[uint64][]*forceEdge)
	}
	key := e.dependent.id
	bucket := s.buckets[key]
	live := bucket[:0]
	var found *forceEdge
	for _, cur := range bucket {
		if cur.flag == FlagObsolete {
			continue // compact
		}
		if cur == e {
			found = cur
		}
		live = append(live, cur)
	}
	if found != nil {
		s.buckets[key] = live
		return found
	}
	s.buckets[key] = append(live, e)
	return e
}

// fold visits currently-live edges in dependent-id order, dropping
// obsolete entries as it goes. It never yields a dropped edge.
func (s *dependentSet) fold(fn func(*forceEdge)) {
	if s.buckets == nil {
		return
	}
	ids := make([]uint64, 0, len(s.buckets))
	for id := range s.buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		bucket := s.buckets[id]
		live := bucket[:0]
		for _, e := range bucket {
			if e.flag == FlagObsolete {
				continue
			}
			live = append(live, e)
		}
		if len(live) == 0 {
			delete(s.buckets, id)
			continue
		}
		s.buckets[id] = live
		for _, e := range live {
			fn(e)
		}
	}
}

// mutatorSet is the creation-edge analogue of dependentSet, bucketed
// by the creator's meta id.
type mutatorSet struct {
	buckets map[uint64][]*mutEdge
}

func (s *mutatorSet) merge(e *mutEdge) *mutEdge {
	if s.buckets == nil {
		s.buckets = make(map[uint64][]*mutEdge)
	}
	key := e.source.id
	bucket := s.buckets[key]
	live := bucket[:0]
	var found *mutEdge
	for _, cur := range bucket {
		if cur.flag == FlagObsolete {
			continue
		}
		if cur == e {
			found = cur
		}
		live = append(live, cur)
	}
	if found != nil {
		s.buckets[key] = live
		return found
	}
	s.buckets[key] = append(live, e)
	return e
}

func (s *mutatorSet) fold(fn func(*mutEdge)) {
	if s.buckets == nil {
		return
	}
	ids := make([]uint64, 0, len(s.buckets))
	for id := range s.buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		bucket := s.buckets[id]
		live := bucket[:0]
		for _, e := range bucket {
			if e.flag == FlagObsolete {
				continue
			}
			live = append(live, e)
		}
		if len(live) == 0 {
			delete(s.buckets, id)
			continue
		}
		s.buckets[id] = live
		for _, e := range live {
			fn(e)
		}
	}
}
