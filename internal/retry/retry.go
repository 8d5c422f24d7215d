package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

// Policy retries transient failures with exponential backoff and jitter.
type Policy struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewPolicy creates a retry policy.
// maxRetries is the number of additional attempts after the first failure (default: 2).
// baseDelay is the delay before the first retry (default: 5s), doubled on each subsequent retry.
func NewPolicy(maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Policy {
	return &Policy{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Do runs op, retrying it while it fails with a retryable error.
func (p *Policy) Do(ctx context.Context, what string, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || !isRetryable(err) {
		return err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying after transient error",
			"op", what,
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		err = op(ctx)
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration on an HTTP error takes precedence.
func (p *Policy) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := p.baseDelay << (attempt - 1)
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	// Network, DNS, truncated bodies.
	return true
}

// RetryFetcher decorates a JobFetcher with a retry policy.
type RetryFetcher struct {
	inner  model.JobFetcher
	policy *Policy
	name   string
}

// NewRetryFetcher wraps inner; name identifies it in retry logs.
func NewRetryFetcher(inner model.JobFetcher, policy *Policy, name string) *RetryFetcher {
	return &RetryFetcher{inner: inner, policy: policy, name: name}
}

// FetchJobs fetches jobs, retrying on transient errors.
func (f *RetryFetcher) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := f.policy.Do(ctx, f.name, func(ctx context.Context) error {
		var err error
		jobs, err = f.inner.FetchJobs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// RetryLogoFetcher decorates a LogoFetcher with a retry policy.
type RetryLogoFetcher struct {
	inner  model.LogoFetcher
	policy *Policy
}

// NewRetryLogoFetcher wraps inner with policy.
func NewRetryLogoFetcher(inner model.LogoFetcher, policy *Policy) *RetryLogoFetcher {
	return &RetryLogoFetcher{inner: inner, policy: policy}
}

// FetchLogo looks up a logo, retrying on transient errors.
func (f *RetryLogoFetcher) FetchLogo(ctx context.Context, clientID int) (string, error) {
	var logo string
	err := f.policy.Do(ctx, fmt.Sprintf("logo %d", clientID), func(ctx context.Context) error {
		var err error
		logo, err = f.inner.FetchLogo(ctx, clientID)
		return err
	})
	if err != nil {
		return "", err
	}
	return logo, nil
}
