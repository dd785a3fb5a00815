package graph

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument wraps failures caused by a missing or malformed
	// required identifier. These are caller errors and abort the run.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthentication wraps failures to acquire a token from the identity
	// provider.
	ErrAuthentication = errors.New("authentication failed")
)

// Error is the failure shape for any non-2xx Graph API response. The response
// body is captured verbatim for diagnosis.
type Error struct {
	StatusCode int
	Status     string
	Body       string
}

func NewError(res *http.Response, body []byte) *Error {
	return &Error{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       string(body),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("graph: %s: %s", e.Status, e.Body)
}

// Retryable reports whether the response indicates throttling or transient
// unavailability.
func (e *Error) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusServiceUnavailable
}
