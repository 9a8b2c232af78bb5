// Package types provides type definitions for structured data used throughout the outreach-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ProfileSnapshot is a point-in-time record of one profile page's fields.
// It is created fresh per page visit and treated as read-only once handed
// to the drafting stage.
type ProfileSnapshot struct {
	Name       string            `json:"name"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Headline   string            `json:"headline"`
	About      string            `json:"about"`
	Company    string            `json:"company"`
	Location   string            `json:"location"`
	Experience []ExperienceEntry `json:"experience"`
	Email      string            `json:"email,omitempty"`
	ProfileURL string            `json:"profile_url"`
}

// ExperienceEntry is one position from the profile's experience section,
// most recent first. Content is the joined title/company/duration/location
// text as it appeared on the page.
type ExperienceEntry struct {
	Content string `json:"content"`
}

// SetName stores the full name and derives FirstName and LastName by
// splitting on whitespace. LastName is the final token; a single-token name
// yields FirstName == LastName.
func (p *ProfileSnapshot) SetName(name string) {
	p.Name = strings.TrimSpace(name)
	p.FirstName = ""
	p.LastName = ""

	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return
	}
	p.FirstName = fields[0]
	p.LastName = fields[len(fields)-1]
}

// CompanyFromHeadline extracts the company segment of a headline of the form
// "<title> at <company>". Returns "" when the headline has no company segment.
func CompanyFromHeadline(headline string) string {
	_, after, found := strings.Cut(headline, " at ")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// ResolveCompany fills Company from the headline, falling back to the first
// experience entry. Company is always a string, empty when unresolved.
func (p *ProfileSnapshot) ResolveCompany() {
	if company := CompanyFromHeadline(p.Headline); company != "" {
		p.Company = company
		return
	}
	if len(p.Experience) > 0 {
		p.Company = companyFromExperience(p.Experience[0].Content)
	}
}

// companyFromExperience pulls the company field out of a joined experience
// content string. Entries are joined as "title · company · duration · location",
// so the second segment is the company when present.
func companyFromExperience(content string) string {
	parts := strings.Split(content, " · ")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
