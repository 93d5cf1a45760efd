package inventory

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure so callers can decide between surfacing,
// retrying with backoff, or degrading to a warning.
type Kind string

const (
	// KindUnauthorized means the bearer token was rejected. Fatal; never retried.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden means the token lacks permission for the endpoint.
	KindForbidden Kind = "forbidden"
	// KindNotFound means the resource does not exist upstream.
	KindNotFound Kind = "not_found"
	// KindRateLimited means the API throttled the request.
	KindRateLimited Kind = "rate_limited"
	// KindServer covers 5xx and other unexpected upstream statuses.
	KindServer Kind = "server"
	// KindNetwork covers timeouts, DNS failures and refused connections.
	KindNetwork Kind = "network"
	// KindMalformed means the response body had an unexpected shape. Fatal
	// for the call in question.
	KindMalformed Kind = "malformed"
)

// APIError is the classified failure returned by every client call.
type APIError struct {
	Kind   Kind
	Status int
	Method string
	Path   string
	// Message is safe to surface; it never contains credentials or bodies.
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("inventory %s %s: %s (status %d)", e.Method, e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("inventory %s %s: %s", e.Method, e.Path, e.Message)
}

// Retryable reports whether the caller may retry the call with backoff.
// Writes to custody endpoints must not be retried regardless; that decision
// belongs to the custody engine, not to this classification.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimited, KindServer:
		return true
	default:
		return false
	}
}

// KindOf extracts the classification from an error chain, or "" if the
// error did not originate from the client.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is a classified not-found failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
