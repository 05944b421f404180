package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. Retries are timed
	// independently: an item may consume its full retry budget with each
	// attempt bounded by Timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// BearerToken, when non-empty, is attached as an Authorization header.
	// Loaded from .secrets/harvest-token.
	BearerToken string `json:"-" yaml:"-"`
}

// FetchConfig holds settings for the fetch pipeline.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Concurrency is the worker pool size (default 5).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxRetries is the retry ceiling per item for transient failures
	// (default 3). The first attempt does not count as a retry.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BackoffBase is the base delay for exponential backoff (default 1s).
	// Attempt n waits BackoffBase * 2^n plus jitter.
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base"`

	// RetryBudget caps total wall-clock time spent retrying one item,
	// bounding 429 storms (default 5m).
	RetryBudget time.Duration `json:"retry_budget" yaml:"retry_budget"`

	// DownloadDir is where PDFs, metadata sidecars, and the progress
	// checkpoint live.
	DownloadDir string `json:"download_dir" yaml:"download_dir"`

	// CheckpointInterval is the number of completions between checkpoint
	// writes (default 10). The checkpoint is always written at run end.
	CheckpointInterval int `json:"checkpoint_interval" yaml:"checkpoint_interval"`

	// ForceRefetch re-fetches items recorded as succeeded or permanently
	// failed on a prior run.
	ForceRefetch bool `json:"force_refetch" yaml:"force_refetch"`
}

// CatalogConfig holds settings for the local paper catalog.
type CatalogConfig struct {
	// CatalogDir is the directory containing catalog.db.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`
}
