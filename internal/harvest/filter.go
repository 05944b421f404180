// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"os"

	"github.com/pdiddy/paper-harvest/internal/progress"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

// Decision is the dedup filter verdict for one descriptor.
type Decision int

const (
	// Proceed sends the item to the worker pool.
	Proceed Decision = iota

	// SkipAlreadyDone means a prior success record exists and the file at
	// the canonical path is intact; no network request is needed.
	SkipAlreadyDone

	// SkipPermanentlyFailed means a prior run classified the item as
	// non-retryable (404-class, malformed URL, bad metadata).
	SkipPermanentlyFailed
)

// Decide is the dedup & skip filter: a pure decision over the prior record
// and the observed size of the file at the canonical path (-1 when absent).
// A zero-byte file is treated as absent, and a size mismatch against the
// recorded byte count as truncation; both force a re-fetch. Transient and
// filesystem failures from prior runs are always retried.
func Decide(rec progress.Record, exists bool, fileSize int64, force bool) Decision {
	if force || !exists {
		return Proceed
	}

	switch rec.Status {
	case types.StatusSuccess:
		if fileSize > 0 && (rec.Bytes == 0 || rec.Bytes == fileSize) {
			return SkipAlreadyDone
		}
	case types.StatusFailed:
		if rec.Kind == types.ErrPermanent || rec.Kind == types.ErrMetadata {
			return SkipPermanentlyFailed
		}
	}
	return Proceed
}

// statSize returns the size of the file at path, or -1 when it does not
// exist or cannot be examined.
func statSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
