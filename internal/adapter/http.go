package adapter

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports delay seconds ("120") and HTTP dates. Returns zero if absent,
// unparseable, or already in the past.
func parseRetryAfter(value string) time.Duration {
	return retryAfterAt(value, time.Now())
}

func retryAfterAt(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if d := at.Sub(now); d > 0 {
		return d
	}
	return 0
}
