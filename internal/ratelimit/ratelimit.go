package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

// HostRateLimiter spaces requests to the same upstream host at least
// minDelay apart. Concurrent callers are queued by reserving slots.
type HostRateLimiter struct {
	mu       sync.Mutex
	next     map[string]time.Time // key: host; earliest time the next request may start
	minDelay time.Duration
	now      func() time.Time
}

// NewHostRateLimiter creates a limiter enforcing minDelay per host.
func NewHostRateLimiter(minDelay time.Duration) *HostRateLimiter {
	return &HostRateLimiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
		now:      time.Now,
	}
}

// reserve claims the next free slot for host and returns how long the
// caller must wait for it.
func (r *HostRateLimiter) reserve(host string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	slot, ok := r.next[host]
	if !ok || slot.Before(now) {
		slot = now
	}
	r.next[host] = slot.Add(r.minDelay)
	return slot.Sub(now)
}

// Wait blocks until the caller's slot for host arrives. It returns an error
// if ctx is cancelled first; the slot stays consumed.
func (r *HostRateLimiter) Wait(ctx context.Context, host string) error {
	wait := r.reserve(host)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", host, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// RateLimitedFetcher is a decorator that waits for the host's rate limiter
// before delegating to the wrapped JobFetcher.
type RateLimitedFetcher struct {
	inner   model.JobFetcher
	limiter *HostRateLimiter
	host    string
}

// NewRateLimitedFetcher wraps a JobFetcher with host-level rate limiting.
// All fetchers targeting the same host should share the same limiter.
func NewRateLimitedFetcher(inner model.JobFetcher, limiter *HostRateLimiter, host string) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

// FetchJobs waits for a slot, then delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) FetchJobs(ctx context.Context) ([]model.Job, error) {
	if err := f.limiter.Wait(ctx, f.host); err != nil {
		return nil, err
	}
	return f.inner.FetchJobs(ctx)
}
