// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// RetryPolicy bounds the retry loop for one request.
type RetryPolicy struct {
	// MaxRetries is the retry ceiling; the initial attempt is not counted.
	// When 0 the default (3) is used.
	MaxRetries int

	// BaseDelay is the backoff base; attempt n waits BaseDelay * 2^n plus
	// jitter of up to half the delay. When 0 the default (1s) is used.
	BaseDelay time.Duration

	// Budget caps total wall-clock time spent on one request including
	// backoff waits. When the budget is exhausted the last response or
	// error is returned even if retries remain. Zero means no cap.
	Budget time.Duration
}

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
)

// RetryableStatus reports whether an HTTP status indicates a transient
// failure worth retrying: 429 and the 5xx class.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// DoWithRetry executes req and retries transient failures (transport
// errors and retryable statuses) with exponential backoff plus jitter.
// It returns the final response (or error) and the number of attempts
// made. Non-retryable responses are returned to the caller as-is; the
// caller owns status classification beyond retry/no-retry. If the context
// is cancelled during a backoff wait the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p RetryPolicy) (*http.Response, int, error) {
	if p.MaxRetries <= 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}

	start := time.Now()
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !RetryableStatus(resp.StatusCode) {
			return resp, attempt + 1, nil
		}

		// Exhausted retries or budget: hand back whatever we have.
		exhausted := attempt >= p.MaxRetries ||
			(p.Budget > 0 && time.Since(start) >= p.Budget)
		if exhausted {
			return resp, attempt + 1, err
		}

		// Drain and close the body before retrying.
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := p.BaseDelay << attempt
		backoff += time.Duration(rand.Int63n(int64(backoff)/2 + 1))

		select {
		case <-ctx.Done():
			return nil, attempt + 1, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// StatusError converts a non-2xx response into an error value; callers use
// it after DoWithRetry returns a response that still is not usable.
func StatusError(resp *http.Response) error {
	return fmt.Errorf("HTTP %d from %s", resp.StatusCode, resp.Request.URL)
}
