package scraping

import (
	"context"

	"github.com/jordan/outreach-agent/internal/types"
)

// PageFieldSource is the capability interface over one loaded profile page.
// Each read is independently swappable/mockable so that the hard dependency
// on one site's markup stays isolated behind this boundary.
//
// Read methods return an empty value on selector miss and a *DomAccessError
// only when the page itself could not be accessed.
type PageFieldSource interface {
	// URL returns the canonical page URL used as the cache/identity key.
	URL() string

	ReadName(ctx context.Context) (string, error)
	ReadHeadline(ctx context.Context) (string, error)
	ReadAbout(ctx context.Context) (string, error)
	ReadLocation(ctx context.Context) (string, error)
	ReadExperience(ctx context.Context) ([]types.ExperienceEntry, error)

	// PageText returns the page's full visible text, used as the last-resort
	// sweep for email addresses rendered outside expected containers.
	PageText(ctx context.Context) (string, error)

	// OpenContactInfo activates the page's contact-info control. Returns
	// ErrNoContactControl when the control is absent.
	OpenContactInfo(ctx context.Context) error
	// OverlayText returns the current text content of the contact-info
	// overlay, which may be empty while the overlay is still rendering.
	OverlayText(ctx context.Context) (string, error)
	// CloseContactInfo dismisses the overlay. It is called on success and
	// failure alike so no residual UI state is left behind.
	CloseContactInfo(ctx context.Context) error
}

// EmailResolver finds an email address for the profile loaded in src.
// Implemented by the resolution package; declared here so the field reader
// can layer email discovery onto a scrape without a package cycle.
type EmailResolver interface {
	Resolve(ctx context.Context, src PageFieldSource, snapshot *types.ProfileSnapshot) (string, error)
}
