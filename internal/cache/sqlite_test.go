package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_PutGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	got, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Now().UTC().Truncate(time.Second)
	e := Entry{Key: "abc", URL: "https://example.com/data", Body: []byte(`[1,2,3]`), FetchedAt: now}
	require.NoError(t, st.Put(ctx, e))

	got, err = st.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.URL, got.URL)
	assert.Equal(t, e.Body, got.Body)
	assert.WithinDuration(t, now, got.FetchedAt, time.Second)

	// Put replaces.
	e.Body = []byte(`[4]`)
	require.NoError(t, st.Put(ctx, e))
	got, err = st.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[4]`), got.Body)
}

func TestSQLite_StatsAndEvict(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.Put(ctx, Entry{Key: "old", URL: "u1", Body: []byte("x"), FetchedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, st.Put(ctx, Entry{Key: "new", URL: "u2", Body: []byte("y"), FetchedAt: now}))

	stats, err := st.Stats(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Fresh: 1, Stale: 1}, stats)

	n, err := st.Evict(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err = st.Stats(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 1, Fresh: 1, Stale: 0}, stats)
}

func TestSQLite_StepLog(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	last, err := st.LastSuccess(ctx, "naics-join")
	require.NoError(t, err)
	assert.Nil(t, last)

	start := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, st.RecordStep(ctx, StepRecord{
		ID: "1", RunID: "r1", Step: "naics-join", Status: StepFailed,
		Message: "boom", StartedAt: start, FinishedAt: start.Add(time.Second),
	}))
	require.NoError(t, st.RecordStep(ctx, StepRecord{
		ID: "2", RunID: "r2", Step: "naics-join", Status: StepOK,
		StartedAt: start.Add(2 * time.Second), FinishedAt: start.Add(3 * time.Second),
	}))

	last, err = st.LastSuccess(ctx, "naics-join")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, start.Add(3*time.Second), *last, time.Second)

	// Other steps are unaffected.
	last, err = st.LastSuccess(ctx, "pums-shares")
	require.NoError(t, err)
	assert.Nil(t, last)
}
