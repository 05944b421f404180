// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest downloads conference papers under bounded concurrency
// and produces metadata rows and per-item outcomes. Per-item failures are
// converted to outcomes at the worker boundary; only filesystem errors
// and run-wide setup failures abort the run.
package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-harvest/internal/export"
	"github.com/pdiddy/paper-harvest/internal/fsutil"
	"github.com/pdiddy/paper-harvest/internal/httputil"
	"github.com/pdiddy/paper-harvest/internal/progress"
	"github.com/pdiddy/paper-harvest/pkg/types"
)

// MetadataDir is the sidecar directory name under the download directory.
const MetadataDir = "metadata"

const defaultConcurrency = 5

// Result summarizes one harvest run.
type Result struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int

	// Rows holds the metadata rows in discovery order, including rows
	// recovered from sidecars for items skipped as already done.
	Rows []*types.Paper
}

// Total returns the number of descriptors processed.
func (r Result) Total() int {
	return r.Succeeded + r.Failed + r.Skipped
}

// HasFailures reports whether any items failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run executes the fetch pipeline over descs. Each descriptor passes the
// dedup filter and, when it proceeds, is fetched by a pool of
// cfg.Concurrency workers. Every proceeding descriptor yields exactly one
// terminal outcome through tr. On cancellation, in-flight downloads finish
// and no new work is dispatched.
func Run(ctx context.Context, client *http.Client, descs []types.Descriptor, cfg types.FetchConfig, tr *progress.Tracker, w io.Writer) (Result, error) {
	metaDir := filepath.Join(cfg.DownloadDir, MetadataDir)
	for _, dir := range []string{cfg.DownloadDir, metaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	agg := export.NewAggregator(len(descs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var dispatchErr error
	for i, d := range descs {
		// Decline new work once the stop signal arrives; in-flight
		// items are finished by their workers.
		if ctx.Err() != nil || dispatchErr != nil {
			break
		}

		pdfPath := filepath.Join(cfg.DownloadDir, d.ID+".pdf")
		metaPath := filepath.Join(metaDir, d.ID+".yaml")
		rec, ok := tr.Lookup(d.ID)

		switch Decide(rec, ok, statSize(pdfPath), cfg.ForceRefetch) {
		case SkipAlreadyDone:
			fmt.Fprintf(w, "skipped: %s (already downloaded)\n", d.ID)
			paper, err := ReadMetadata(metaPath)
			if err != nil {
				paper = &types.Paper{ID: d.ID, Title: d.Title, PDFURL: d.URL, PDFPath: pdfPath}
			}
			agg.Put(i, paper)
			dispatchErr = tr.Observe(skipOutcome(d.ID, "already downloaded"))

		case SkipPermanentlyFailed:
			fmt.Fprintf(w, "skipped: %s (permanent failure on a prior run)\n", d.ID)
			dispatchErr = tr.Observe(skipOutcome(d.ID, "failed permanently on a prior run"))

		case Proceed:
			g.Go(func() error {
				outcome, paper := fetchOne(gctx, client, d, pdfPath, metaPath, cfg, w)
				if paper != nil {
					agg.Put(i, paper)
				}
				if err := tr.Observe(outcome); err != nil {
					return err
				}
				// A local write failure affects every item; halt.
				if outcome.Kind == types.ErrFilesystem {
					return fmt.Errorf("%s: %s", d.ID, outcome.Reason)
				}
				return nil
			})
		}
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = dispatchErr
	}
	if err := tr.Flush(); err != nil && runErr == nil {
		runErr = err
	}

	result := runResult(tr, agg)
	fmt.Fprintf(w, "\nHarvest summary: %d ok, %d failed, %d skipped (total: %d)\n",
		result.Succeeded, result.Failed, result.Skipped, result.Total())
	return result, runErr
}

func runResult(tr *progress.Tracker, agg *export.Aggregator) Result {
	snap := tr.Snapshot()
	return Result{
		Attempted: snap.Attempted,
		Succeeded: snap.Succeeded,
		Failed:    snap.Failed,
		Skipped:   snap.Skipped,
		Rows:      agg.Rows(),
	}
}

// fetchOne retrieves a single item: request with retry, atomic file write,
// metadata extraction, sidecar write. All failures are folded into the
// returned outcome; it never panics the pool.
func fetchOne(ctx context.Context, client *http.Client, d types.Descriptor, pdfPath, metaPath string, cfg types.FetchConfig, w io.Writer) (types.Outcome, *types.Paper) {
	if ctx.Err() != nil {
		return failOutcome(d.ID, types.ErrTransient, 0, ctx.Err())
	}

	req, err := http.NewRequest(http.MethodGet, d.URL, nil)
	if err != nil {
		return failOutcome(d.ID, types.ErrPermanent, 0, fmt.Errorf("malformed URL %q: %w", d.URL, err))
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	fmt.Fprintf(w, "downloading: %s\n", d.ID)

	policy := httputil.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BackoffBase,
		Budget:     cfg.RetryBudget,
	}
	resp, attempts, err := httputil.DoWithRetry(ctx, client, req, policy)
	if err != nil {
		return failOutcome(d.ID, types.ErrTransient, attempts, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := types.ErrPermanent
		if httputil.RetryableStatus(resp.StatusCode) {
			kind = types.ErrTransient
		}
		io.Copy(io.Discard, resp.Body)
		return failOutcome(d.ID, kind, attempts, httputil.StatusError(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failOutcome(d.ID, types.ErrTransient, attempts, fmt.Errorf("reading response body: %w", err))
	}
	if len(body) == 0 {
		return failOutcome(d.ID, types.ErrTransient, attempts, fmt.Errorf("empty response body from %s", d.URL))
	}

	if err := fsutil.WriteFile(pdfPath, body); err != nil {
		return failOutcome(d.ID, types.ErrFilesystem, attempts, err)
	}

	paper, err := buildPaper(d, pdfPath)
	if err != nil {
		return failOutcome(d.ID, types.ErrMetadata, attempts, err)
	}
	if err := writeMetadata(paper, metaPath); err != nil {
		return failOutcome(d.ID, types.ErrFilesystem, attempts, fmt.Errorf("writing metadata for %s: %w", d.ID, err))
	}

	return types.Outcome{
		ID:        d.ID,
		Status:    types.StatusSuccess,
		Attempts:  attempts,
		Path:      pdfPath,
		Bytes:     int64(len(body)),
		Timestamp: time.Now().UTC(),
	}, paper
}

func failOutcome(id string, kind types.ErrorKind, attempts int, err error) (types.Outcome, *types.Paper) {
	return types.Outcome{
		ID:        id,
		Status:    types.StatusFailed,
		Kind:      kind,
		Attempts:  attempts,
		Reason:    err.Error(),
		Timestamp: time.Now().UTC(),
	}, nil
}

func skipOutcome(id, reason string) types.Outcome {
	return types.Outcome{
		ID:        id,
		Status:    types.StatusSkipped,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}
