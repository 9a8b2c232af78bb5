// Package backend provides the REST client for the outreach session backend:
// profile and template persistence, contact facets, and the contact database.
package backend

import (
	"errors"
	"fmt"
)

// AuthExpiredError reports a 401 from the backend. It is kept distinct from
// generic request failures so the session layer can re-prompt sign-in
// instead of silently retrying.
type AuthExpiredError struct {
	Endpoint string
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("session expired (401 from %s)", e.Endpoint)
}

// IsAuthExpired reports whether err is (or wraps) an AuthExpiredError.
func IsAuthExpired(err error) bool {
	var authErr *AuthExpiredError
	return errors.As(err, &authErr)
}

// RequestError represents a failed backend request: transport failure,
// timeout, or a non-401 error status.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend request to %s failed: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend request to %s failed: %s", e.Endpoint, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
