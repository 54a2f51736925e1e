package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndReadSamples(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Points: 1125, Spacing: 0.01, TimeStep: 0.1}))

	for step := uint64(20); step > 0; step -= 10 {
		require.NoError(t, s.Record(ctx, Sample{RunID: "run-1", Step: step, Time: float64(step) * 0.1, Coffee: 363 - float64(step)/100}))
	}
	require.NoError(t, s.Record(ctx, Sample{RunID: "run-1", Step: 0, Coffee: 363.15, Energy: 1e5}))
	require.NoError(t, s.Record(ctx, Sample{RunID: "run-1", Step: 10, Time: 1, Coffee: 362.5}))

	got, err := s.Samples(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{0, 10, 20}, []uint64{got[0].Step, got[1].Step, got[2].Step})
	assert.Equal(t, 362.5, got[1].Coffee)
	assert.Equal(t, 1e5, got[0].Energy)
	assert.Equal(t, "run-1", got[2].RunID)

	none, err := s.Samples(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordRejectsUnknownRun(t *testing.T) {
	s := openMemory(t)
	err := s.Record(context.Background(), Sample{RunID: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownRun)
}

func TestRunsPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	older := time.Unix(1700000000, 0)
	require.NoError(t, s.BeginRun(ctx, Run{ID: "a", Created: older, Points: 10, Spacing: 0.02, TimeStep: 0.5, Config: "time_step: 0.5\n"}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "b", Created: older.Add(time.Hour), Points: 20, Spacing: 0.01, TimeStep: 0.1}))
	assert.Error(t, s.BeginRun(ctx, Run{ID: "a"}), "duplicate run id")
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "a", runs[1].ID)
	assert.True(t, older.Equal(runs[1].Created))
	assert.Equal(t, "time_step: 0.5\n", runs[1].Config)
	assert.Equal(t, 20, runs[0].Points)
}
