package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPolicy(base time.Duration) *Policy {
	return NewPolicy(2, base, discardLogger())
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int) ([]model.Job, error)
}

func (m *mockFetcher) FetchJobs(_ context.Context) ([]model.Job, error) {
	m.calls++
	return m.fn(m.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return []model.Job{{ID: 1, Title: "B737 Captain"}}, nil
	}}

	rf := NewRetryFetcher(mock, testPolicy(10*time.Millisecond), "category 1")
	got, err := rf.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected jobs: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]model.Job, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return []model.Job{{ID: 1}}, nil
	}}

	rf := NewRetryFetcher(mock, testPolicy(10*time.Millisecond), "category 1")
	got, err := rf.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 job, got %d", len(got))
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	rf := NewRetryFetcher(mock, testPolicy(10*time.Millisecond), "category 1")
	_, err := rf.FetchJobs(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError with status 404, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rf := NewRetryFetcher(mock, testPolicy(10*time.Millisecond), "category 1")
	if _, err := rf.FetchJobs(context.Background()); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rf := NewRetryFetcher(mock, testPolicy(time.Second), "category 1")
	_, err := rf.FetchJobs(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestBackoffDelay_HonorsRetryAfter(t *testing.T) {
	p := testPolicy(time.Second)
	err := &model.HTTPError{StatusCode: 429, RetryAfter: 42 * time.Second}
	if got := p.backoffDelay(1, err); got != 42*time.Second {
		t.Errorf("backoffDelay = %v, want 42s", got)
	}
}

func TestBackoffDelay_DoublesWithinJitter(t *testing.T) {
	p := testPolicy(100 * time.Millisecond)
	got := p.backoffDelay(3, errors.New("dial tcp: timeout"))
	// 100ms * 2^2 = 400ms ± 30%
	if got < 280*time.Millisecond || got > 520*time.Millisecond {
		t.Errorf("backoffDelay(3) = %v, want within 280ms..520ms", got)
	}
}

type flakyLogos struct{ calls int }

func (f *flakyLogos) FetchLogo(_ context.Context, clientID int) (string, error) {
	f.calls++
	if f.calls == 1 {
		return "", errors.New("connection reset")
	}
	return "https://cdn.example.com/logo.png", nil
}

func TestRetryLogoFetcher_RetriesNetworkError(t *testing.T) {
	inner := &flakyLogos{}
	f := NewRetryLogoFetcher(inner, testPolicy(time.Millisecond))
	logo, err := f.FetchLogo(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logo == "" || inner.calls != 2 {
		t.Errorf("logo = %q, calls = %d", logo, inner.calls)
	}
}
