package scraping

import (
	"context"
	"strings"

	"github.com/jordan/outreach-agent/internal/types"
)

// FieldReader assembles a ProfileSnapshot from a PageFieldSource.
type FieldReader struct {
	src      PageFieldSource
	resolver EmailResolver
}

// NewFieldReader creates a reader over src. resolver may be nil, in which
// case Scrape behaves exactly like ScrapeBasic.
func NewFieldReader(src PageFieldSource, resolver EmailResolver) *FieldReader {
	return &FieldReader{src: src, resolver: resolver}
}

// ScrapeBasic extracts name, headline, about, location, company and
// experience without any modal interaction or network call. This is the fast
// path used to populate the UI.
func (r *FieldReader) ScrapeBasic(ctx context.Context) (*types.ProfileSnapshot, error) {
	snapshot := &types.ProfileSnapshot{ProfileURL: r.src.URL()}

	name, err := r.src.ReadName(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.SetName(name)

	if snapshot.Headline, err = r.src.ReadHeadline(ctx); err != nil {
		return nil, err
	}
	if snapshot.About, err = r.src.ReadAbout(ctx); err != nil {
		return nil, err
	}

	location, err := r.src.ReadLocation(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Location = filterLocation(location)

	if snapshot.Experience, err = r.src.ReadExperience(ctx); err != nil {
		return nil, err
	}
	snapshot.ResolveCompany()

	return snapshot, nil
}

// Scrape extracts a full snapshot. When forceEmailLookup is set and a
// resolver is configured, it layers in contact resolution, which is slow: the
// contact-info reveal involves simulated UI interaction with multi-second
// backoff.
func (r *FieldReader) Scrape(ctx context.Context, forceEmailLookup bool) (*types.ProfileSnapshot, error) {
	snapshot, err := r.ScrapeBasic(ctx)
	if err != nil {
		return nil, err
	}

	if forceEmailLookup && r.resolver != nil {
		email, err := r.resolver.Resolve(ctx, r.src, snapshot)
		if err != nil {
			return nil, err
		}
		snapshot.Email = email
	}
	return snapshot, nil
}

// filterLocation drops location text that is actually a selector collision
// with the contact-info link or the connections counter.
func filterLocation(location string) string {
	if strings.Contains(location, "Contact info") || strings.Contains(location, "connections") {
		return ""
	}
	return location
}
