package dcg

import "fmt"

// repair certifies the node's cached value or re-evaluates.
//
// The walk visits the node's outgoing force edges in the order the
// most recent evaluation recorded them, stopping at the first edge
// whose source provably changed. Only dirty edges recurse; clean
// prefixes cost nothing. This is the truncated in-order traversal at
// the heart of change propagation.
func (sn *suspNode[R]) repair() (R, GraphState) {
	if sn.evaluating {
		// Forcing a node from inside its own evaluation has no value
		// to hand back; this is a structural failure, not a memo hit.
		panic(fmt.Errorf("dcg: node %d forced during its own evaluation", sn.meta.id))
	}
	if sn.st == nil {
		// Never evaluated: first force.
		return sn.evaluate()
	}
	if sn.meta.state == StateFilthy {
		// Argument or creator changed; re-evaluate unconditionally.
		sn.meta.state = StateOk
		return sn.evaluate()
	}

	for _, edge := range sn.st.forces {
		switch edge.flag {
		case FlagClean:
			continue

		case FlagObsolete:
			// Source was torn down under us; its receipt is void.
			return sn.evaluate()

		case FlagDirtyToClean:
			// XXX: an edge already mid-check means a cycle or a
			// concurrent descent reached us. Re-evaluate rather than
			// trust a certification that is still in flight. The
			// conservatism here is intentional.
			return sn.evaluate()

		case FlagDirty:
			edge.flag = FlagDirtyToClean
			unchanged, st := edge.check()
			if st == MaybeInconsistent {
				edge.flag = FlagDirty
			} else {
				edge.flag = FlagClean
				sn.eng.counters.Cleaned++
				sn.eng.emit(EventClean, sn.meta.id, "")
			}
			if !unchanged {
				return sn.evaluate()
			}
		}
	}

	return sn.st.value, sn.outState()
}

// outState derives the node's graph state from the final flags of its
// outgoing edges: any non-clean edge leaves the value uncertified.
func (sn *suspNode[R]) outState() GraphState {
	st := Consistent
	for _, e := range sn.st.forces {
		if e.flag != FlagClean {
			st = MaybeInconsistent
		}
	}
	for _, e := range sn.st.creates {
		if e.flag != FlagClean {
			st = MaybeInconsistent
		}
	}
	return st
}

// evaluate runs the user body under this node's identity and installs
// the fresh state.
//
// With exact dirtying the previous evaluation's outgoing edges are
// obsoleted first; their reference drops land in the undo buffer and
// are amortized into the next Flush. A panicking body pops the force
// frame and propagates; the node's previous state is retained.
func (sn *suspNode[R]) evaluate() (R, GraphState) {
	eng := sn.eng

	if eng.cfg.DirtyExactly && sn.st != nil {
		obsoleteState(sn.st)
	}

	// A filthy mark is consumed by the evaluation it forces.
	sn.meta.state = StateOk

	eng.counters.Evaluations++
	eng.emit(EventEvaluate, sn.meta.id, "")

	var raw R
	var fr *frame
	func() {
		sn.evaluating = true
		opened := eng.pushFrame(sn.meta)
		defer func() {
			eng.popFrame()
			sn.evaluating = false
		}()
		raw = sn.eval()
		fr = opened
	}()

	v := sn.resDesc.Sanitize(raw)
	sn.st = &suspState[R]{
		value:   v,
		forces:  fr.obs,
		creates: fr.mut,
	}

	st := sn.outState()
	if st != Consistent {
		// The body observed its own freshly dirtied state, which
		// points at hostile name reuse. Diagnose, do not abort.
		eng.logger.Warn("evaluation finished with non-clean outgoing edges",
			"node", sn.meta.id,
			"state", st.String(),
		)
	}
	return v, st
}

// obsoleteState retires every outgoing edge of a discarded evaluation.
// Obsolete is terminal, so a second pass over the same state is a
// no-op and the undos run exactly once.
func obsoleteState[R any](st *suspState[R]) {
	for _, e := range st.forces {
		if e.flag == FlagObsolete {
			continue
		}
		e.flag = FlagObsolete
		if e.undo != nil {
			e.undo()
		}
	}
	for _, e := range st.creates {
		if e.flag == FlagObsolete {
			continue
		}
		e.flag = FlagObsolete
		if e.undo != nil {
			e.undo()
		}
	}
}

// destroy tears the node down exactly once: the memo entry goes away,
// every outgoing edge is obsoleted and its undo run. Invoked when the
// reference count reaches zero, directly or from the undo buffer.
func (sn *suspNode[R]) destroy() {
	if sn.destroyed || sn.refc > 0 {
		// A reference arrived between scheduling and draining.
		return
	}
	sn.destroyed = true

	if sn.undo != nil {
		sn.undo()
	}
	if sn.st != nil {
		obsoleteState(sn.st)
	}

	sn.eng.counters.Destructions++
	sn.eng.emit(EventDestroy, sn.meta.id, "")
}
