// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus is the terminal classification of one item in one run.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// ErrorKind classifies a failure for retry and resumption decisions.
type ErrorKind string

const (
	// ErrTransient covers timeouts, connection errors, 5xx, and 429.
	// Transient failures are retried within a run and across runs.
	ErrTransient ErrorKind = "transient"

	// ErrPermanent covers 4xx responses (except 429) and malformed URLs.
	// Permanent failures are not retried across runs unless forced.
	ErrPermanent ErrorKind = "permanent"

	// ErrFilesystem covers local write failures; these halt the run.
	ErrFilesystem ErrorKind = "filesystem"

	// ErrMetadata covers missing or malformed required metadata fields.
	ErrMetadata ErrorKind = "metadata"
)

// Retryable reports whether a failure of this kind may be retried on a
// later run without the caller forcing a re-fetch.
func (k ErrorKind) Retryable() bool {
	return k == ErrTransient
}

// Outcome is the immutable terminal result of processing one descriptor.
// Exactly one Outcome is recorded per descriptor per run.
type Outcome struct {
	ID        string        `json:"id"`
	Status    OutcomeStatus `json:"status"`
	Kind      ErrorKind     `json:"error_kind,omitempty"`
	Attempts  int           `json:"attempts,omitempty"`
	Path      string        `json:"path,omitempty"`
	Bytes     int64         `json:"bytes,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
