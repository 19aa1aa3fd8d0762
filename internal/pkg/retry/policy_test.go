package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string      { return "status error" }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := map[int]bool{
		200: false,
		400: false,
		404: false,
		408: true,
		429: true,
		500: true,
		503: true,
		599: true,
		600: false,
	}
	for code, want := range cases {
		if got := IsRetryableHTTPStatus(code); got != want {
			t.Errorf("IsRetryableHTTPStatus(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	if !IsRetryableError(context.DeadlineExceeded) {
		t.Error("expected context.DeadlineExceeded to be retryable")
	}
	if IsRetryableError(nil) {
		t.Error("expected nil error to be non-retryable")
	}
	if !IsRetryableError(&statusErr{code: 503}) {
		t.Error("expected 503 status error to be retryable")
	}
	if IsRetryableError(&statusErr{code: 400}) {
		t.Error("expected 400 status error to be non-retryable")
	}
}

func TestJitterSleepWithinBounds(t *testing.T) {
	base := 10 * time.Second
	for i := 0; i < 50; i++ {
		got := JitterSleep(base, 0.5)
		if got < 5*time.Second || got > 15*time.Second {
			t.Fatalf("JitterSleep out of bounds: %v", got)
		}
	}
	if got := JitterSleep(base, 0); got != base {
		t.Errorf("zero jitter should return base unchanged, got %v", got)
	}
}

func TestPolicyDoStopsOnNonRetryable(t *testing.T) {
	p := Policy{MaxAttempts: 5, Base: time.Millisecond, Cap: 10 * time.Millisecond, Jitter: 0, Retryable: IsRetryableError}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
		calls++
		return nil, &statusErr{code: 400}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call for non-retryable error, got %d", calls)
	}
}

func TestPolicyDoExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, Base: time.Millisecond, Cap: 5 * time.Millisecond, Jitter: 0, Retryable: IsRetryableError}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
		calls++
		return nil, &statusErr{code: 503}
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestPolicyDoSucceedsEventually(t *testing.T) {
	p := Policy{MaxAttempts: 3, Base: time.Millisecond, Cap: 5 * time.Millisecond, Jitter: 0, Retryable: IsRetryableError}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) (*http.Response, error) {
		calls++
		if calls < 2 {
			return nil, &statusErr{code: 503}
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestPolicyDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Policy{MaxAttempts: 3, Base: time.Millisecond, Retryable: IsRetryableError}
	err := p.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		return nil, &statusErr{code: 503}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
