package resolution

import (
	"context"

	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/backend"
)

// ContactDirectory is the backend contact-database lookup.
type ContactDirectory interface {
	EmailByLinkedInURL(ctx context.Context, linkedInURL string) (string, error)
}

// PersonFinder is a third-party person-search email lookup.
type PersonFinder interface {
	FindEmail(ctx context.Context, name, company string) (string, error)
}

// CombinedLookup implements BackendLookup by trying the backend contact
// database first (exact profile-URL match, cheapest), then the person-search
// service by name and company. A session-expiry error from the backend
// propagates; any other backend failure falls through to person-search.
type CombinedLookup struct {
	Directory ContactDirectory
	People    PersonFinder
	Logger    *zap.Logger
}

// FindEmail implements BackendLookup.
func (l *CombinedLookup) FindEmail(ctx context.Context, name, company, profileURL string) (string, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if l.Directory != nil && profileURL != "" {
		email, err := l.Directory.EmailByLinkedInURL(ctx, profileURL)
		if err != nil {
			if backend.IsAuthExpired(err) {
				return "", err
			}
			logger.Warn("contact directory lookup failed", zap.Error(err))
		} else if email != "" {
			return email, nil
		}
	}

	if l.People != nil {
		return l.People.FindEmail(ctx, name, company)
	}
	return "", nil
}
