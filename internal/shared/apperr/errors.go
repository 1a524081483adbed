// Package apperr defines the error taxonomy surfaced to HTTP callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindNotFound
	KindUnauthorized
	KindUpstreamUnavailable
	KindUpstreamAuth
	KindUpstreamRateLimited
	KindUpstreamBadRequest
	KindUpstreamFailed
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstreamAuth:
		return "upstream_auth"
	case KindUpstreamRateLimited:
		return "upstream_rate_limited"
	case KindUpstreamBadRequest:
		return "upstream_bad_request"
	case KindUpstreamFailed:
		return "upstream_failed"
	default:
		return "internal"
	}
}

// Error codes used in the JSON error envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUpstreamAuth       = "UPSTREAM_AUTH_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeUpstreamBadRequest = "UPSTREAM_BAD_REQUEST"
	CodeTrackerFailed      = "TRACKER_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind      Kind
	Code      string
	Message   string
	Details   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Input reports a malformed or incomplete request.
func Input(message, details string) *Error {
	return &Error{Kind: KindInput, Code: CodeValidation, Message: message, Details: details}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// Unauthorized reports rejected credentials.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: message}
}

// UpstreamUnavailable reports an unreachable dependency.
func UpstreamUnavailable(message string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Code: CodeServiceUnavailable, Message: message, Retryable: true, Err: err}
}

// UpstreamAuth reports rejected credentials on an outbound call.
func UpstreamAuth(message string, err error) *Error {
	return &Error{Kind: KindUpstreamAuth, Code: CodeUpstreamAuth, Message: message, Err: err}
}

// UpstreamRateLimited reports an outbound rate limit.
func UpstreamRateLimited(message string, err error) *Error {
	return &Error{Kind: KindUpstreamRateLimited, Code: CodeTooManyRequests, Message: message, Retryable: true, Err: err}
}

// UpstreamBadRequest reports an outbound request the provider refused as malformed.
func UpstreamBadRequest(message string, err error) *Error {
	return &Error{Kind: KindUpstreamBadRequest, Code: CodeUpstreamBadRequest, Message: message, Err: err}
}

// UpstreamFailed reports a tracker failure that is neither auth nor connectivity.
func UpstreamFailed(message string, err error) *Error {
	return &Error{Kind: KindUpstreamFailed, Code: CodeTrackerFailed, Message: message, Err: err}
}

// Internal wraps an unclassified failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInput, KindUpstreamBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindUpstreamAuth:
		return http.StatusUnauthorized
	case KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstreamFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
