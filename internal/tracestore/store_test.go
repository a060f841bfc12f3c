package tracestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/grifola/internal/data"
	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/name"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestStore_WriteAndReadEvents(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx, "test")
	require.NoError(t, err)

	events := []dcg.Event{
		{Seq: 1, Kind: dcg.EventMemoMiss, NodeID: 3, Detail: "uniq"},
		{Seq: 2, Kind: dcg.EventEvaluate, NodeID: 3},
		{Seq: 3, Kind: dcg.EventSet, NodeID: 1, Detail: "c"},
	}
	for _, ev := range events {
		require.NoError(t, s.WriteEvent(ctx, runID, ev))
	}

	got, err := s.ReadEvents(ctx, runID, "")
	require.NoError(t, err)
	assert.Equal(t, events, got)

	sets, err := s.ReadEvents(ctx, runID, dcg.EventSet)
	require.NoError(t, err)
	assert.Equal(t, []dcg.Event{events[2]}, sets)
}

func TestStore_RunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run1, err := s.BeginRun(ctx, "one")
	require.NoError(t, err)
	run2, err := s.BeginRun(ctx, "two")
	require.NoError(t, err)

	require.NoError(t, s.WriteEvent(ctx, run1, dcg.Event{Seq: 1, Kind: dcg.EventSet, NodeID: 1}))
	require.NoError(t, s.WriteEvent(ctx, run2, dcg.Event{Seq: 1, Kind: dcg.EventEvaluate, NodeID: 2}))

	got, err := s.ReadEvents(ctx, run1, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dcg.EventSet, got[0].Kind)
}

func TestStore_CountByKind(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx, "counts")
	require.NoError(t, err)
	for i, kind := range []string{dcg.EventEvaluate, dcg.EventEvaluate, dcg.EventDirty} {
		require.NoError(t, s.WriteEvent(ctx, runID, dcg.Event{Seq: uint64(i + 1), Kind: kind, NodeID: 1}))
	}

	counts, err := s.CountByKind(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{dcg.EventEvaluate: 2, dcg.EventDirty: 1}, counts)
}

func TestRecorder_CapturesEngineRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec, err := NewRecorder(ctx, s, "engine")
	require.NoError(t, err)

	eng := dcg.New(dcg.WithSink(rec))
	c := dcg.NewCell(eng, name.OfString("c"), 1, data.Int())
	th := dcg.Thunk(eng, name.OfString("t"), data.Int(), func() int { return c.Force() * 2 })

	assert.Equal(t, 2, th.Force())
	c.Set(5)
	assert.Equal(t, 10, th.Force())
	require.NoError(t, rec.Err())

	counts, err := s.CountByKind(ctx, rec.RunID())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[dcg.EventEvaluate])
	assert.Equal(t, 1, counts[dcg.EventSet])
	assert.Equal(t, 1, counts[dcg.EventDirty])
}
