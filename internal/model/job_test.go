package model

import (
	"errors"
	"testing"
)

func TestJob_IsOpenApplication(t *testing.T) {
	tests := []struct {
		refNo string
		want  bool
	}{
		{"OR-1234", true},
		{"  OR99", true},
		{"MHC-4411", false},
		{"or-1234", false},
		{"", false},
	}
	for _, tt := range tests {
		got := Job{RefNo: tt.refNo}.IsOpenApplication()
		if got != tt.want {
			t.Errorf("IsOpenApplication(%q) = %v, want %v", tt.refNo, got, tt.want)
		}
	}
}

func TestHTTPError_UnwrapAndMessage(t *testing.T) {
	inner := errors.New("service unavailable")
	err := &HTTPError{StatusCode: 503, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find wrapped error")
	}
	if got := err.Error(); got != "HTTP 503: service unavailable" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&HTTPError{StatusCode: 404}).Error(); got != "HTTP 404" {
		t.Errorf("Error() = %q", got)
	}
}
