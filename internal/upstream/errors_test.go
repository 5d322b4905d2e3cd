package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("get clan: %w", &Error{Kind: ErrRateLimited, Status: 429, Reason: "requestThrottled"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "requestThrottled")
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, ErrUnauthorized, kindForStatus(401))
	assert.Equal(t, ErrForbidden, kindForStatus(403))
	assert.Equal(t, ErrRateLimited, kindForStatus(429))
	assert.Equal(t, ErrNotFound, kindForStatus(404))
	assert.Equal(t, ErrUpstreamError, kindForStatus(400))
	assert.Equal(t, ErrUpstreamError, kindForStatus(503))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", ErrInvalidTag), http.StatusBadRequest},
		{&Error{Kind: ErrUnauthorized}, http.StatusUnauthorized},
		{&Error{Kind: ErrForbidden}, http.StatusForbidden},
		{&Error{Kind: ErrRateLimited}, http.StatusTooManyRequests},
		{&Error{Kind: ErrNotFound}, http.StatusNotFound},
		{&Error{Kind: ErrUpstreamTimeout}, http.StatusGatewayTimeout},
		{&Error{Kind: ErrUpstreamUnavailable}, http.StatusBadGateway},
		{&Error{Kind: ErrUpstreamError}, http.StatusBadGateway},
		{errors.New("other"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "rate_limited", Outcome(&Error{Kind: ErrRateLimited}))
	assert.Equal(t, "timeout", Outcome(&Error{Kind: ErrUpstreamTimeout}))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
