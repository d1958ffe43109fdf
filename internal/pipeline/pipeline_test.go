package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/econlink/internal/cache"
)

// recordingStore captures step records.
type recordingStore struct {
	records []cache.StepRecord
}

func (r *recordingStore) RecordStep(_ context.Context, rec cache.StepRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingStore) Get(context.Context, string) (*cache.Entry, error) { return nil, nil }
func (r *recordingStore) Put(context.Context, cache.Entry) error            { return nil }
func (r *recordingStore) Stats(context.Context, time.Time) (cache.Stats, error) {
	return cache.Stats{}, nil
}
func (r *recordingStore) Evict(context.Context, time.Time) (int64, error) { return 0, nil }
func (r *recordingStore) LastSuccess(context.Context, string) (*time.Time, error) {
	return nil, nil
}
func (r *recordingStore) Migrate(context.Context) error { return nil }
func (r *recordingStore) Close() error                  { return nil }

func TestDriver_RunsAllSteps(t *testing.T) {
	store := &recordingStore{}
	d := NewDriver(store)

	var order []string
	steps := []Step{
		{Name: "fetch", Run: func(context.Context) error { order = append(order, "fetch"); return nil }},
		{Name: "process", Run: func(context.Context) error { order = append(order, "process"); return nil }},
	}

	results, err := d.Run(context.Background(), steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch", "process"}, order)
	require.Len(t, results, 2)
	assert.Equal(t, cache.StepOK, results[0].Status)
	assert.Equal(t, cache.StepOK, results[1].Status)

	require.Len(t, store.records, 2)
	assert.Equal(t, store.records[0].RunID, store.records[1].RunID)
	assert.NotEqual(t, store.records[0].ID, store.records[1].ID)
}

func TestDriver_AbortsOnFailure(t *testing.T) {
	store := &recordingStore{}
	d := NewDriver(store)

	ran := false
	steps := []Step{
		{Name: "fetch", Run: func(context.Context) error { return eris.New("boom") }},
		{Name: "process", Run: func(context.Context) error { ran = true; return nil }},
	}

	results, err := d.Run(context.Background(), steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step fetch")
	assert.False(t, ran)
	require.Len(t, results, 1)
	assert.Equal(t, cache.StepFailed, results[0].Status)
	assert.Equal(t, "boom", store.records[0].Message)
}

func TestDriver_ContinueOnError(t *testing.T) {
	store := &recordingStore{}
	d := NewDriver(store)

	ran := false
	steps := []Step{
		{Name: "fetch", ContinueOnError: true, Run: func(context.Context) error { return eris.New("boom") }},
		{Name: "process", Run: func(context.Context) error { ran = true; return nil }},
	}

	results, err := d.Run(context.Background(), steps)
	require.NoError(t, err)
	assert.True(t, ran)
	require.Len(t, results, 2)
	assert.Equal(t, cache.StepFailed, results[0].Status)
	assert.Equal(t, cache.StepOK, results[1].Status)
}
