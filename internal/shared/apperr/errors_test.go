package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInput, http.StatusBadRequest},
		{KindUpstreamBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindUpstreamAuth, http.StatusUnauthorized},
		{KindUpstreamRateLimited, http.StatusTooManyRequests},
		{KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{KindUpstreamFailed, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("analyze: %w", UpstreamUnavailable("Failed to connect", cause))

	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR: bad ticket", Input("bad ticket", "").Error())
	assert.Contains(t, Internal("boom", errors.New("cause")).Error(), "cause")
}
