package dcg

// Flag is the state of a single dependency or creation edge.
type Flag int

const (
	// FlagClean means the edge's source is known consistent with what
	// the dependent observed.
	FlagClean Flag = iota + 1
	// FlagDirty means some transitive input of the edge's source was
	// mutated since the edge was last clean, and no repair has visited
	// the edge yet.
	FlagDirty
	// FlagDirtyToClean marks an edge currently being receipt-checked.
	// Finding an edge in this state during repair indicates a cycle or
	// concurrent descent; the repairer re-evaluates conservatively.
	FlagDirtyToClean
	// FlagObsolete means the edge's owner re-evaluated (discarding its
	// old observations) or the edge's source was torn down. Terminal.
	FlagObsolete
)

// String renders the flag for diagnostics.
func (f Flag) String() string {
	switch f {
	case FlagClean:
		return "clean"
	case FlagDirty:
		return "dirty"
	case FlagDirtyToClean:
		return "dirty-to-clean"
	case FlagObsolete:
		return "obsolete"
	default:
		return "invalid"
	}
}

// NodeState is the per-node repair obligation.
type NodeState int

const (
	// StateOk means repair may trust the node's recorded edges.
	StateOk NodeState = iota + 1
	// StateFilthy means the node's argument or a creator changed; the
	// next repair must re-evaluate unconditionally, regardless of the
	// node's outgoing edge flags.
	StateFilthy
)

// String renders the node state for diagnostics.
func (s NodeState) String() string {
	switch s {
	case StateOk:
		return "ok"
	case StateFilthy:
		return "filthy"
	default:
		return "invalid"
	}
}

// GraphState reports how much trust a forced value deserves.
type GraphState int

const (
	// Consistent means the value reflects all mutations seen so far.
	Consistent GraphState = iota + 1
	// MaybeInconsistent means some observed edge could not be
	// certified clean (e.g. a cycle left an edge dirty); the value is
	// produced but a later force may revise it.
	MaybeInconsistent
)

// meet combines two graph states: consistency survives only if both
// sides are consistent.
func (g GraphState) meet(other GraphState) GraphState {
	if g == Consistent && other == Consistent {
		return Consistent
	}
	return MaybeInconsistent
}

// String renders the graph state for diagnostics.
func (g GraphState) String() string {
	switch g {
	case Consistent:
		return "consistent"
	case MaybeInconsistent:
		return "maybe-inconsistent"
	default:
		return "invalid"
	}
}
