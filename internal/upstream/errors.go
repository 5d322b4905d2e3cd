package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidTag          = errors.New("invalid tag")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimited         = errors.New("rate limited")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamError       = errors.New("upstream error")
)

// Error is a classified upstream failure. It unwraps to one of the Err* kinds.
type Error struct {
	Kind    error
	Status  int
	Reason  string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Status > 0 && e.Reason != "":
		return fmt.Sprintf("%s: status %d (%s)", e.Kind, e.Status, e.Reason)
	case e.Status > 0:
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUpstreamError
	}
}

// HTTPStatus maps an error to the status code the HTTP facade answers with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidTag):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Outcome is a short metrics label for the error kind.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidTag):
		return "invalid_tag"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
