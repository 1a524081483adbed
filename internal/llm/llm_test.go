package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
)

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, ErrorAuth},
		{http.StatusForbidden, ErrorAuth},
		{http.StatusTooManyRequests, ErrorRateLimit},
		{http.StatusBadRequest, ErrorBadRequest},
		{http.StatusUnprocessableEntity, ErrorBadRequest},
		{http.StatusInternalServerError, ErrorOther},
		{http.StatusServiceUnavailable, ErrorOther},
	}
	for _, tt := range tests {
		if got := KindFromStatus(tt.status); got != tt.want {
			t.Fatalf("KindFromStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &Error{Kind: ErrorRateLimit, Provider: "openai", StatusCode: 429, Err: errors.New("slow down")})
	if KindOf(err) != ErrorRateLimit {
		t.Fatalf("expected rate limit, got %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != ErrorOther {
		t.Fatalf("expected other for unclassified error")
	}
}

func TestIsConnectionError(t *testing.T) {
	if !IsConnectionError(&net.OpError{Op: "dial", Err: errors.New("refused")}) {
		t.Fatalf("expected dial error to be a connection error")
	}
	if !IsConnectionError(fmt.Errorf("call: %w", context.DeadlineExceeded)) {
		t.Fatalf("expected deadline to be a connection error")
	}
	if IsConnectionError(errors.New("bad json")) {
		t.Fatalf("expected plain error not to be a connection error")
	}
}

func TestPlaceholderClient(t *testing.T) {
	_, err := PlaceholderClient{}.Complete(context.Background(), Request{})
	if KindOf(err) != ErrorConnection || !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not-configured connection error, got %v", err)
	}
	got, err := PlaceholderClient{Reply: "ok"}.Complete(context.Background(), Request{})
	if err != nil || got != "ok" {
		t.Fatalf("expected fixed reply, got %q %v", got, err)
	}
}

func TestImageDataURI(t *testing.T) {
	if got := (Image{Base64: "AAA"}).DataURI(); got != "data:image/jpeg;base64,AAA" {
		t.Fatalf("unexpected data uri %q", got)
	}
}
