package simdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "simview_runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.RecordRun(context.Background(), Run{Label: "input", SourcePath: "in.dat", Samples: []int{1, 2}})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	runs, err := db2.Runs(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordRunAndSamples(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created := time.Date(2026, 1, 7, 17, 31, 29, 0, time.UTC)
	samples := []int{1, 1, 1, 0, 0, 255}
	runID, err := db.RecordRun(ctx, Run{
		Label:        "input",
		SourcePath:   "/sim/sim_input_data.dat",
		CreatedAt:    created,
		LineCount:    2,
		FallbackRows: 1,
		Samples:      samples,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	assert.NoError(t, err, "run id should be a uuid")

	got, err := db.Samples(ctx, runID)
	require.NoError(t, err)
	if diff := cmp.Diff(samples, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	want := RunInfo{
		RunID:        runID,
		Label:        "input",
		SourcePath:   "/sim/sim_input_data.dat",
		CreatedAt:    time.Unix(0, created.UnixNano()),
		LineCount:    2,
		FallbackRows: 1,
		SampleCount:  len(samples),
	}
	if diff := cmp.Diff(want, runs[0]); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRun_EmptySamples(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.RecordRun(ctx, Run{Label: "output", SourcePath: "empty.dat"})
	require.NoError(t, err)

	got, err := db.Samples(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, got)

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].SampleCount)
	assert.False(t, runs[0].CreatedAt.IsZero(), "zero CreatedAt should be stamped with now")
}

func TestRuns_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	older, err := db.RecordRun(ctx, Run{Label: "input", SourcePath: "a", CreatedAt: base})
	require.NoError(t, err)
	newer, err := db.RecordRun(ctx, Run{Label: "input", SourcePath: "b", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer, runs[0].RunID)
	assert.Equal(t, older, runs[1].RunID)
}

func TestSamples_UnknownRun(t *testing.T) {
	db := openTestDB(t)

	got, err := db.Samples(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordRun_CancelledContext(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.RecordRun(ctx, Run{Label: "input", Samples: []int{1}})
	assert.Error(t, err)

	runs, err := db.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
