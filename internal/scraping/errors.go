// Package scraping reads structured profile fields out of a loaded profile
// page. Field access is best-effort: a selector miss degrades to an empty
// value, only a failure to reach the page at all surfaces as an error.
package scraping

import (
	"errors"
	"fmt"
)

// ErrNoContactControl reports that the page has no contact-info control to
// activate. Callers skip the overlay step without waiting when they see it.
var ErrNoContactControl = errors.New("contact-info control not present")

// DomAccessError represents an unexpected failure accessing page structure
// (detached document, navigation mid-read). It is distinct from a selector
// miss: a miss returns an empty value, this error means we couldn't look.
type DomAccessError struct {
	Op    string
	Cause error
}

func (e *DomAccessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dom access error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("dom access error during %s", e.Op)
}

func (e *DomAccessError) Unwrap() error {
	return e.Cause
}

// IsDomAccess reports whether err is (or wraps) a DomAccessError.
func IsDomAccess(err error) bool {
	var domErr *DomAccessError
	return errors.As(err, &domErr)
}
