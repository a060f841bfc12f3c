// Package stats holds the opaque counters the engine increments.
//
// The engine bumps these counts during change propagation but never
// reads them back. Consumers (CLI, tests, metric scrapers) interpret
// them. A prometheus Collector view is provided for exporting.
package stats

// Counters is the set of engine event counts.
//
// Counters are plain ints: the engine is single-threaded, so there is
// no atomicity requirement. Snapshot() copies the struct for readers
// that want a stable view across further engine activity.
type Counters struct {
	Evaluations  uint64 // user bodies executed
	MemoHits     uint64 // memo-table lookups that found a canonical entry
	MemoMisses   uint64 // memo-table lookups that created a new entry
	Dirtied      uint64 // force edges flipped Clean -> Dirty
	Cleaned      uint64 // force edges flipped back to Clean during repair
	Evictions    uint64 // memo entries removed by an eviction policy
	Destructions uint64 // nodes torn down by reference counting
}

// New creates a zeroed counter set.
func New() *Counters {
	return &Counters{}
}

// Snapshot returns a copy of the current counts.
func (c *Counters) Snapshot() Counters {
	return *c
}

// Reset zeroes all counts.
func (c *Counters) Reset() {
	*c = Counters{}
}
