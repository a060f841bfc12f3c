package dcg

// dirty flips Clean force edges reachable upward from m to Dirty.
//
// Breadth-first over the reverse graph. Edges already dirty, mid-check
// or obsolete are skipped, which bounds the walk to each edge once and
// terminates even if dependent sets form a cycle.
func (e *Engine) dirty(m *Meta) {
	queue := []*Meta{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		cur.dependents.fold(func(edge *forceEdge) {
			if edge.flag != FlagClean {
				return
			}
			edge.flag = FlagDirty
			e.counters.Dirtied++
			e.emit(EventDirty, edge.dependent.id, "")
			queue = append(queue, edge.dependent)
		})
	}
}

// markFilthy records that m's argument or a creator changed, then
// dirties the reverse graph so the next repair reaches m at all.
func (e *Engine) markFilthy(m *Meta) {
	m.state = StateFilthy
	e.dirty(m)
}
