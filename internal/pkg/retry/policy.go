// Package retry provides the single reusable backoff policy used by every
// outbound call in the pipeline (transcription providers, the embedder,
// the LLM backend): max attempts, base/cap delay, jitter, and a predicate
// over error kinds.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPStatusCoder lets a wrapped HTTP error report its status code without
// the predicate needing to know the concrete client's error type.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// Policy is a reusable exponential-backoff-with-jitter retry policy.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration
	Jitter      float64 // fraction of the delay to randomize, e.g. 0.5
	Retryable   func(error) bool
}

// DefaultBase and DefaultCap mirror spec.md §4.4's chunk-retry parameters.
const (
	DefaultBase = 1 * time.Second
	DefaultCap  = 30 * time.Second
)

// Default mirrors spec.md §4.4's chunk-retry parameters: base 1s, cap 30s,
// 0.5x jitter, retryable on network errors and provider 5xx/408/429.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Base:        DefaultBase,
		Cap:         DefaultCap,
		Jitter:      0.5,
		Retryable:   IsRetryableError,
	}
}

// Do runs fn, retrying per the policy until it succeeds, a non-retryable
// error is returned, attempts are exhausted, or ctx is done.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) (*http.Response, error)) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryableError
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := p.Base
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		sleepFor := RetryAfterDuration(resp, backoff, p.Cap)
		sleepFor = JitterSleep(sleepFor, p.Jitter)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
		if p.Cap > 0 && backoff > p.Cap {
			backoff = p.Cap
		}
	}
	return lastErr
}

// DoGeneric retries fn the same way Do does, for callers with no HTTP
// response to inspect for a Retry-After header (local-process calls, gRPC
// clients).
func (p Policy) DoGeneric(ctx context.Context, fn func(ctx context.Context) error) error {
	return p.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		return nil, fn(ctx)
	})
}

func IsRetryableHTTPStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// JitterSleep randomizes base by +/- jitter fraction (e.g. 0.5 means
// +/-50%). jitter <= 0 disables randomization.
func JitterSleep(base time.Duration, jitter float64) time.Duration {
	if base <= 0 {
		return 0
	}
	if jitter <= 0 {
		return base
	}
	delta := base.Seconds() * jitter
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}
