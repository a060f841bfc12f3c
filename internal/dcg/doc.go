// Package dcg implements the Grifola incremental computation engine.
//
// The engine maintains a demanded computation graph (DCG): mutable
// cells, memoized suspension thunks, and the force/create edges
// between them. A host program expresses a pure computation over
// inputs that change; the engine re-executes only the parts whose
// observed dependencies actually changed.
//
// ARCHITECTURE:
//
// Single-Threaded Demand Loop:
// All graph mutation happens synchronously inside Force/Set/Flush on
// one goroutine. This ensures:
// - Deterministic repair order (edges visited as recorded)
// - Reproducible traces for a given mutation schedule
// - Simple reasoning about edge flag transitions
//
// Demand Processing Flow:
// 1. Cell.Set flips reachable Clean force edges to Dirty (reverse BFS)
// 2. Force at a node triggers repair: a truncated in-order walk over
//    the node's recorded force edges
// 3. Dirty edges are receipt-checked; unchanged results keep the walk
//    going, changed results re-evaluate the node
// 4. Re-evaluation pushes a force frame, runs the user body, and
//    records fresh outgoing edges in observation order
// 5. Reference counting tears down nodes no live edge or external
//    handle reaches; teardown is deferred to Flush
//
// Memoization is keyed by structural argument equality, by generative
// identity, or by first-class names. Nominal keys allow in-place
// argument replacement: re-articulating a stable name with a changed
// argument marks the old call site and its creators filthy.
//
// CRITICAL PATTERNS:
//
// Edge Flag Lattice:
// Clean -> Dirty (input mutated) -> DirtyToClean (repair in progress)
// -> Clean or Dirty, and any -> Obsolete (owner re-evaluated or died).
// Obsolete is terminal.
//
// Monotone Identity:
// Every meta-node gets a unique id from a logical clock. The root
// context has id 0. NEVER reuse ids; reverse-edge sets bucket by id
// and traverse in id order for determinism.
package dcg
