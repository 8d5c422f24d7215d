package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

func TestReserve_SameHostQueuesSlots(t *testing.T) {
	limiter := NewHostRateLimiter(100 * time.Millisecond)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	if w := limiter.reserve("api.mhcaviation.com"); w != 0 {
		t.Errorf("first reserve wait = %v, want 0", w)
	}
	if w := limiter.reserve("api.mhcaviation.com"); w != 100*time.Millisecond {
		t.Errorf("second reserve wait = %v, want 100ms", w)
	}
	if w := limiter.reserve("api.mhcaviation.com"); w != 200*time.Millisecond {
		t.Errorf("third reserve wait = %v, want 200ms", w)
	}
}

func TestReserve_SlotExpiresAfterDelay(t *testing.T) {
	limiter := NewHostRateLimiter(100 * time.Millisecond)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.reserve("h")
	now = now.Add(time.Second)
	if w := limiter.reserve("h"); w != 0 {
		t.Errorf("reserve after idle period = %v, want 0", w)
	}
}

func TestWait_SameHost_EnforcesMinDelay(t *testing.T) {
	limiter := NewHostRateLimiter(100 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "api.mhcaviation.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "api.mhcaviation.com"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	// Allow 80ms for timer jitter.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentHosts_NoCrossBlocking(t *testing.T) {
	limiter := NewHostRateLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "api.mhcaviation.com"); err != nil {
		t.Fatalf("first host wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "jobs.example.com"); err != nil {
		t.Fatalf("second host wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected near-instant wait, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewHostRateLimiter(5 * time.Second)
	if err := limiter.Wait(context.Background(), "h"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "h")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

type countingFetcher struct{ calls int }

func (c *countingFetcher) FetchJobs(_ context.Context) ([]model.Job, error) {
	c.calls++
	return []model.Job{{ID: c.calls}}, nil
}

func TestRateLimitedFetcher_Delegates(t *testing.T) {
	inner := &countingFetcher{}
	f := NewRateLimitedFetcher(inner, NewHostRateLimiter(time.Millisecond), "h")

	jobs, err := f.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}
	if len(jobs) != 1 || inner.calls != 1 {
		t.Errorf("jobs = %v, calls = %d", jobs, inner.calls)
	}
}
