// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-harvest/pkg/types"
)

func outcome(id string, status types.OutcomeStatus) types.Outcome {
	return types.Outcome{ID: id, Status: status, Timestamp: time.Now().UTC()}
}

func TestObserveCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), CheckpointFile)
	tr, err := Load(path, 4, 100, nil)
	require.NoError(t, err)

	require.NoError(t, tr.Observe(outcome("a", types.StatusSuccess)))
	require.NoError(t, tr.Observe(outcome("b", types.StatusSuccess)))
	require.NoError(t, tr.Observe(outcome("c", types.StatusFailed)))
	require.NoError(t, tr.Observe(outcome("d", types.StatusSkipped)))

	snap := tr.Snapshot()
	assert.Equal(t, 4, snap.Attempted)
	assert.Equal(t, 2, snap.Succeeded)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, 4, snap.Total)

	// Skips do not create records; they mean a record already existed.
	_, ok := tr.Lookup("d")
	assert.False(t, ok)
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CheckpointFile)
	tr, err := Load(path, 2, 100, nil)
	require.NoError(t, err)

	want := types.Outcome{
		ID:        "a",
		Status:    types.StatusSuccess,
		Attempts:  3,
		Path:      "/downloads/a.pdf",
		Bytes:     1234,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, tr.Observe(want))
	require.NoError(t, tr.Observe(types.Outcome{
		ID:        "b",
		Status:    types.StatusFailed,
		Kind:      types.ErrPermanent,
		Attempts:  1,
		Reason:    "HTTP 404",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
	}))
	require.NoError(t, tr.Flush())

	reloaded, err := Load(path, 2, 100, nil)
	require.NoError(t, err)

	rec, ok := reloaded.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, types.StatusSuccess, rec.Status)
	assert.Equal(t, 3, rec.Attempts)
	assert.Equal(t, "/downloads/a.pdf", rec.Path)
	assert.Equal(t, int64(1234), rec.Bytes)
	assert.True(t, rec.UpdatedAt.Equal(want.Timestamp))

	rec, ok = reloaded.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, types.StatusFailed, rec.Status)
	assert.Equal(t, types.ErrPermanent, rec.Kind)
	assert.Equal(t, "HTTP 404", rec.LastError)
}

func TestSuccessNeverDowngraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), CheckpointFile)
	tr, err := Load(path, 1, 100, nil)
	require.NoError(t, err)

	require.NoError(t, tr.Observe(outcome("a", types.StatusSuccess)))
	require.NoError(t, tr.Observe(types.Outcome{
		ID: "a", Status: types.StatusFailed, Kind: types.ErrTransient,
		Reason: "timeout", Timestamp: time.Now().UTC(),
	}))

	// The run counters see the failure, the persisted record does not.
	snap := tr.Snapshot()
	assert.Equal(t, 1, snap.Failed)

	rec, ok := tr.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, types.StatusSuccess, rec.Status)
}

func TestIntervalFlushAndProgressLine(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), CheckpointFile)
	tr, err := Load(path, 5, 2, &buf)
	require.NoError(t, err)

	require.NoError(t, tr.Observe(outcome("a", types.StatusSuccess)))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "checkpoint should not exist before the interval")

	require.NoError(t, tr.Observe(outcome("b", types.StatusSuccess)))
	_, statErr = os.Stat(path)
	assert.NoError(t, statErr, "checkpoint should exist after the interval")
	assert.Contains(t, buf.String(), "2/5 done, 2 ok, 0 failed, 0 skipped")
}

func TestLoadIgnoresMissingCheckpoint(t *testing.T) {
	tr, err := Load(filepath.Join(t.TempDir(), CheckpointFile), 3, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Snapshot().Total)
}

func TestLoadRejectsCorruptCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), CheckpointFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, 1, 10, nil)
	assert.Error(t, err)
}

func TestReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), CheckpointFile)
	tr, err := Load(path, 1, 100, nil)
	require.NoError(t, err)
	require.NoError(t, tr.Observe(outcome("a", types.StatusSuccess)))
	require.NoError(t, tr.Flush())

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusSuccess, records["a"].Status)

	_, err = ReadRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, os.IsNotExist(err))
}
