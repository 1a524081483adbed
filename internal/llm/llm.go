// Package llm defines the completion capability used by ticket analysis and
// the provider-neutral error kinds its clients report.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Image is an inlined image attachment.
type Image struct {
	MIMEType string
	Base64   string
}

// DataURI renders the image as a data URI.
func (i Image) DataURI() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + i.Base64
}

// Request is one completion call.
type Request struct {
	System      string
	Prompt      string
	Images      []Image
	MaxTokens   int
	Temperature float32
}

// Client abstracts LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	ErrorOther ErrorKind = iota
	ErrorConnection
	ErrorAuth
	ErrorRateLimit
	ErrorBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorConnection:
		return "connection"
	case ErrorAuth:
		return "auth"
	case ErrorRateLimit:
		return "rate_limit"
	case ErrorBadRequest:
		return "bad_request"
	default:
		return "other"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s error (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or ErrorOther.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorOther
}

// KindFromStatus maps an HTTP status returned by a provider.
func KindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorAuth
	case http.StatusTooManyRequests:
		return ErrorRateLimit
	case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return ErrorBadRequest
	default:
		return ErrorOther
	}
}

// IsConnectionError reports transport-level failures: dial errors, timeouts
// and cancelled deadlines.
func IsConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient answers with a fixed reply, or reports the provider as
// unreachable when Reply is empty.
type PlaceholderClient struct {
	Reply string
}

// Complete returns the fixed reply.
func (p PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	if p.Reply == "" {
		return "", &Error{Kind: ErrorConnection, Provider: "placeholder", Err: ErrNotConfigured}
	}
	return p.Reply, nil
}
