package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoJobs means no usable job collection was supplied. Callers render a
	// fallback instead of an empty listing.
	ErrNoJobs = errors.New("no job data")

	// ErrInvalidJobs means the job collection violates its invariants
	// (e.g. duplicate job IDs).
	ErrInvalidJobs = errors.New("invalid job data")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
