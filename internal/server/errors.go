package server

import (
	"errors"
	"net/http"

	"github.com/jordan/outreach-agent/internal/backend"
	"github.com/jordan/outreach-agent/internal/fetch"
	"github.com/jordan/outreach-agent/internal/scraping"
)

// ErrStoreNotConfigured indicates a persistence endpoint was called without a
// database configured.
var ErrStoreNotConfigured = errors.New("persistence is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream failures (backend session, fetch, page access) surface as
// gateway-class statuses so callers can tell them from bad requests.
func HTTPStatus(err error) int {
	var fetchErr *fetch.Error
	var reqErr *backend.RequestError

	switch {
	case errors.Is(err, ErrStoreNotConfigured):
		return http.StatusServiceUnavailable
	case backend.IsAuthExpired(err):
		// The operator's backend session lapsed; the API token itself is
		// fine, so this is an upstream failure, not a 401.
		return http.StatusBadGateway
	case scraping.IsDomAccess(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &reqErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
