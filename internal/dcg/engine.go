package dcg

import (
	"log/slog"
	"sort"

	"github.com/roach88/grifola/internal/stats"
)

// Event is one engine occurrence reported to an EventSink.
//
// The engine emits events; it never interprets them. Seq values come
// from a logical clock, so a fixed program and mutation schedule
// produce an identical event stream.
type Event struct {
	Seq    uint64 `json:"seq"`
	Kind   string `json:"kind"`
	NodeID uint64 `json:"node_id"`
	Detail string `json:"detail,omitempty"`
}

// Event kinds emitted by the engine.
const (
	EventEvaluate = "evaluate"
	EventSet      = "set"
	EventDirty    = "dirty"
	EventClean    = "clean"
	EventMemoHit  = "memo_hit"
	EventMemoMiss = "memo_miss"
	EventEvict    = "evict"
	EventDestroy  = "destroy"
)

// EventSink observes engine events. Implementations must not re-enter
// the engine.
type EventSink interface {
	Record(Event)
}

// frame is one level of the force stack: the meta-node whose body is
// currently executing, plus the outgoing edges it has recorded so far.
// Only the top frame is ever appended to.
type frame struct {
	src *Meta
	obs []*forceEdge
	mut []*mutEdge
}

// Engine owns one demanded computation graph.
//
// CRITICAL: The engine is single-threaded. All graph operations
// (Force, Set, Flush, articulation) must happen on one goroutine;
// the engine is not safe for concurrent use and does not claim to be.
//
// INVARIANTS:
//   - Meta ids are unique and monotone; the root context has id 0
//   - Only the top force frame records new edges
//   - A node is torn down at most once (obsolete flags make the edge
//     undos idempotent)
type Engine struct {
	cfg      Config
	counters *stats.Counters
	sink     EventSink
	logger   *slog.Logger

	ids   *Clock // meta-node id allocator
	seq   *Clock // bumped on every effective Set
	ticks *Clock // event sequencing and LRU stamping

	root     *Meta
	frames   []*frame
	undoBuff map[uint64]func() // deferred destructors keyed by meta id
	tables   []evictable       // memo tables registered for policy eviction
}

// evictable is the table-side contract for flush-time eviction.
type evictable interface {
	evict(policy EvictionPolicy)
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithRefCount toggles reference-counted eviction.
func WithRefCount(on bool) Option {
	return func(e *Engine) { e.cfg.RefCount = on }
}

// WithCheckReceipt toggles cache-equal-result suppression.
func WithCheckReceipt(on bool) Option {
	return func(e *Engine) { e.cfg.CheckReceipt = on }
}

// WithEvictionPolicy sets the memo-table eviction policy.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(e *Engine) { e.cfg.Eviction = p }
}

// WithCounters installs an externally owned counter set.
func WithCounters(c *stats.Counters) Option {
	return func(e *Engine) { e.counters = c }
}

// WithSink installs an event observer.
func WithSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with the default configuration, applying any
// options on top.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:      DefaultConfig(),
		counters: stats.New(),
		logger:   slog.Default(),
		ids:      NewClock(),
		seq:      NewClock(),
		ticks:    NewClock(),
		undoBuff: make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.root = newMeta(0) // root context: id 0
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Counters returns the engine's counter set.
func (e *Engine) Counters() *stats.Counters {
	return e.counters
}

// Seq returns the global mutation sequence number.
func (e *Engine) Seq() uint64 {
	return e.seq.Current()
}

// InForce reports whether a user body is currently executing.
func (e *Engine) InForce() bool {
	return len(e.frames) > 0
}

// Flush drains the deferred-destruction buffer and applies the
// eviction policy to every registered memo table. Idempotent: a
// second Flush with no intervening activity does nothing.
//
// Destructors run in meta-id order for determinism. A destructor may
// cascade (its edge undos can drop other nodes to refc 0); cascades
// land back in the buffer and the loop drains until empty.
func (e *Engine) Flush() {
	for len(e.undoBuff) > 0 {
		ids := make([]uint64, 0, len(e.undoBuff))
		for id := range e.undoBuff {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			destroy, ok := e.undoBuff[id]
			if !ok {
				continue // removed by an earlier cascade this round
			}
			delete(e.undoBuff, id)
			destroy()
		}
	}

	if e.cfg.Eviction.Kind != EvictNone && e.cfg.Eviction.Kind != "" {
		for _, t := range e.tables {
			t.evict(e.cfg.Eviction)
		}
		// Policy eviction may orphan nodes; drain once more.
		if len(e.undoBuff) > 0 {
			e.Flush()
		}
	}
}

// pushFrame opens a force frame for the node about to evaluate.
func (e *Engine) pushFrame(src *Meta) *frame {
	fr := &frame{src: src}
	e.frames = append(e.frames, fr)
	return fr
}

// popFrame closes the top force frame. Called via defer so a panicking
// user body still unwinds the stack before propagating.
func (e *Engine) popFrame() *frame {
	fr := e.frames[len(e.frames)-1]
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
	return fr
}

// topFrame returns the current frame, or nil at the root context.
func (e *Engine) topFrame() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

// emit reports an event to the sink, if any.
func (e *Engine) emit(kind string, nodeID uint64, detail string) {
	if e.sink == nil {
		return
	}
	e.sink.Record(Event{
		Seq:    e.ticks.Next(),
		Kind:   kind,
		NodeID: nodeID,
		Detail: detail,
	})
}

// assertAncestorsClean enforces the debug invariant that no ancestor
// frame holds a non-clean edge when a new edge is created.
func (e *Engine) assertAncestorsClean() {
	if !e.cfg.DebugAssert {
		return
	}
	for _, fr := range e.frames {
		for _, edge := range fr.obs {
			if edge.flag != FlagClean {
				e.logger.Error("ancestor frame holds non-clean edge at edge creation",
					"frame_src", fr.src.id,
					"edge_source", edge.source.id,
					"flag", edge.flag.String(),
				)
				panic(&MisuseError{
					Code:    "DEBUG_ASSERT",
					Message: "ancestor frame holds non-clean edge at edge creation",
					NodeID:  fr.src.id,
				})
			}
		}
	}
}

// registerTable adds a memo table to the flush-time eviction pass.
func (e *Engine) registerTable(t evictable) {
	e.tables = append(e.tables, t)
}

// scheduleDestroy queues a destructor, or runs it now.
func (e *Engine) scheduleDestroy(metaID uint64, destroy func(), now bool) {
	if now {
		destroy()
		return
	}
	e.undoBuff[metaID] = destroy
}
