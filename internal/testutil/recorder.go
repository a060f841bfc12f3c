// Package testutil provides deterministic test helpers for engine
// tests: an in-memory event recorder and evaluation counting.
package testutil

import "github.com/roach88/grifola/internal/dcg"

// EventRecorder is an in-memory dcg.EventSink for tests.
//
// Unlike the SQLite recorder it never fails and can be reset, which
// lets one test observe deltas across several interactions.
type EventRecorder struct {
	events []dcg.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Record implements dcg.EventSink.
func (r *EventRecorder) Record(ev dcg.Event) {
	r.events = append(r.events, ev)
}

// Events returns everything recorded so far, in emission order.
func (r *EventRecorder) Events() []dcg.Event {
	return r.events
}

// Kinds tallies recorded events per kind.
func (r *EventRecorder) Kinds() map[string]int {
	out := make(map[string]int)
	for _, ev := range r.events {
		out[ev.Kind]++
	}
	return out
}

// Count returns how many events of one kind were recorded.
func (r *EventRecorder) Count(kind string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards everything recorded so far.
func (r *EventRecorder) Reset() {
	r.events = nil
}
