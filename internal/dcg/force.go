package dcg

// force observes a node's value from the current context.
//
// Interior forces (a user body is running) record a dependency edge:
// the edge lands strongly in the running frame's observation list and
// weakly in the target's dependents set, and the target gains a
// reference. Root forces record nothing; liveness of root-held
// articulations comes from the handle returned at creation.
func force[T any](n Node[T]) T {
	eng := n.nodeEngine()
	v, check, st := n.observe()

	if top := eng.topFrame(); top != nil {
		eng.assertAncestorsClean()

		flag := FlagClean
		if st != Consistent {
			flag = FlagDirty
		}
		edge := &forceEdge{
			dependent: top.src,
			source:    n.nodeMeta(),
			flag:      flag,
			check:     check,
		}
		n.addRef()
		edge.undo = n.refUndo()

		n.nodeMeta().dependents.merge(edge)
		top.obs = append(top.obs, edge)
	}

	return v
}

// attachCreator records the creation of a suspension in the ambient
// context. Inside a frame the creator is the running thunk and the
// edge joins the frame's creation list; at the root the creator is
// the engine's root meta and the returned edge doubles as the
// external hold the caller releases.
func attachCreator[R any](eng *Engine, sl *slot[R]) *mutEdge {
	src := eng.root
	top := eng.topFrame()
	if top != nil {
		src = top.src
	}

	edge := &mutEdge{
		source: src,
		target: sl.meta,
		flag:   FlagClean,
		undo: func() {
			sl.decr(eng, false)
		},
	}
	sl.addRef()
	sl.meta.mutators.merge(edge)

	if top != nil {
		top.mut = append(top.mut, edge)
		return nil // frame-owned; the caller gets no root hold
	}
	return edge
}
