// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress tracks per-item outcomes and run counters, and persists
// a durable checkpoint enabling resumption after interruption.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pdiddy/paper-harvest/internal/fsutil"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

// CheckpointFile is the checkpoint filename under the download directory.
const CheckpointFile = "progress.json"

// Record is the persisted outcome for one item id. At most one Record
// exists per id; later outcomes overwrite earlier ones, except that a
// recorded success is never downgraded by a failed re-fetch.
type Record struct {
	Status    types.OutcomeStatus `json:"status"`
	Kind      types.ErrorKind     `json:"error_kind,omitempty"`
	Attempts  int                 `json:"attempts,omitempty"`
	Path      string              `json:"path,omitempty"`
	Bytes     int64               `json:"bytes,omitempty"`
	LastError string              `json:"last_error,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Snapshot is a read-only view of the run counters for presentation.
type Snapshot struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Total     int
}

// checkpointFile is the on-disk checkpoint envelope.
type checkpointFile struct {
	Records map[string]Record `json:"records"`
}

// Tracker owns the run counters and the checkpoint. All mutation goes
// through Observe under a single mutex; no I/O happens while it is held.
type Tracker struct {
	mu         sync.Mutex
	records    map[string]Record
	attempted  int
	succeeded  int
	failed     int
	skipped    int
	total      int
	sinceFlush int

	path     string
	interval int
	w        io.Writer
}

// Load opens the checkpoint at path, reading prior records if the file
// exists. total is the number of descriptors in this run; interval is the
// number of completions between checkpoint writes (<=0 means 10).
func Load(path string, total, interval int, w io.Writer) (*Tracker, error) {
	if interval <= 0 {
		interval = 10
	}
	t := &Tracker{
		records:  make(map[string]Record),
		total:    total,
		path:     path,
		interval: interval,
		w:        w,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}

	var cp checkpointFile
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	if cp.Records != nil {
		t.records = cp.Records
	}
	return t, nil
}

// Lookup returns the prior record for id, if any. Used by the dedup filter
// to decide whether an item needs fetching.
func (t *Tracker) Lookup(id string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[id]
	return rec, ok
}

// Observe records the terminal outcome for one item, exactly once per item
// per run, and writes the checkpoint every interval completions. A Failed
// outcome counts against this run but does not overwrite a Success record
// from a prior run: the file on disk is still the earlier good download.
func (t *Tracker) Observe(o types.Outcome) error {
	t.mu.Lock()
	t.attempted++
	switch o.Status {
	case types.StatusSuccess:
		t.succeeded++
	case types.StatusSkipped:
		t.skipped++
	case types.StatusFailed:
		t.failed++
	}

	prior, exists := t.records[o.ID]
	downgrade := exists && prior.Status == types.StatusSuccess && o.Status == types.StatusFailed
	if o.Status != types.StatusSkipped && !downgrade {
		t.records[o.ID] = Record{
			Status:    o.Status,
			Kind:      o.Kind,
			Attempts:  o.Attempts,
			Path:      o.Path,
			Bytes:     o.Bytes,
			LastError: o.Reason,
			UpdatedAt: o.Timestamp,
		}
	}

	t.sinceFlush++
	flush := t.sinceFlush >= t.interval
	if flush {
		t.sinceFlush = 0
	}
	snap := t.snapshotLocked()
	var data []byte
	var err error
	if flush {
		data, err = t.marshalLocked()
	}
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if flush {
		if err := fsutil.WriteFile(t.path, data); err != nil {
			return fmt.Errorf("writing checkpoint: %w", err)
		}
		t.report(snap)
	}
	return nil
}

// Flush writes the checkpoint unconditionally. Called at run end.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	t.sinceFlush = 0
	data, err := t.marshalLocked()
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFile(t.path, data); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}

// Snapshot returns the current run counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Records returns a copy of the persisted record map.
func (t *Tracker) Records() map[string]Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Record, len(t.records))
	for id, rec := range t.records {
		out[id] = rec
	}
	return out
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Attempted: t.attempted,
		Succeeded: t.succeeded,
		Failed:    t.failed,
		Skipped:   t.skipped,
		Total:     t.total,
	}
}

func (t *Tracker) marshalLocked() ([]byte, error) {
	data, err := json.MarshalIndent(checkpointFile{Records: t.records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling checkpoint: %w", err)
	}
	return data, nil
}

func (t *Tracker) report(s Snapshot) {
	if t.w == nil {
		return
	}
	fmt.Fprintf(t.w, "%d/%d done, %d ok, %d failed, %d skipped\n",
		s.Attempted, s.Total, s.Succeeded, s.Failed, s.Skipped)
}

// ReadRecords loads the record map from a checkpoint file without
// constructing a Tracker. Used by export and catalog commands.
func ReadRecords(path string) (map[string]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cp checkpointFile
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	if cp.Records == nil {
		cp.Records = map[string]Record{}
	}
	return cp.Records, nil
}
