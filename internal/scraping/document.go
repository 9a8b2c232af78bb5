package scraping

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jordan/outreach-agent/internal/types"
)

// Selector lists are ordered most-specific-first and probed until one
// matches, the same way job-board selectors are probed in fetch. The profile
// site ships unversioned markup changes, so every field carries fallbacks.
var (
	nameSelectors = []string{
		"h1.text-heading-xlarge",
		".pv-text-details__left-panel h1",
		"main h1",
	}
	headlineSelectors = []string{
		".pv-text-details__left-panel .text-body-medium",
		"div.text-body-medium.break-words",
		"[data-generated-suggestion-target] .text-body-medium",
	}
	aboutSelectors = []string{
		"#about ~ .display-flex .inline-show-more-text",
		"section.pv-about-section p",
		"[data-section='about'] .inline-show-more-text",
	}
	locationSelectors = []string{
		".pv-text-details__left-panel .text-body-small.inline",
		"span.text-body-small.inline.t-black--light.break-words",
		".pb2 .text-body-small",
	}
	experienceItemSelectors = []string{
		"#experience ~ .pvs-list__outer-container > ul > li",
		"section.experience-section li.pv-entity__position-group-pager",
		"[data-section='experience'] li",
	}
	contactControlSelectors = []string{
		"a#top-card-text-details-contact-info",
		"a[href*='overlay/contact-info']",
	}
	overlaySelectors = []string{
		"div.artdeco-modal section.pv-contact-info",
		"div.artdeco-modal",
		"section.pv-contact-info",
	}
)

// DocumentSource reads profile fields from a parsed HTML document. It serves
// already-rendered pages (saved HTML, HTTP fetches of public profiles); the
// chromedp-backed LiveSource covers pages that render client-side.
type DocumentSource struct {
	doc    *goquery.Document
	url    string
	opened bool
}

// NewDocumentSource creates a source over an HTML document.
func NewDocumentSource(html, url string) (*DocumentSource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &DomAccessError{Op: "parse document", Cause: err}
	}
	return &DocumentSource{doc: doc, url: url}, nil
}

// URL returns the page URL the document was loaded from.
func (s *DocumentSource) URL() string { return s.url }

// probe returns the trimmed text of the first selector that matches.
func (s *DocumentSource) probe(selectors []string) string {
	for _, selector := range selectors {
		if sel := s.doc.Find(selector); sel.Length() > 0 {
			if text := strings.TrimSpace(sel.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// ReadName returns the profile's display name.
func (s *DocumentSource) ReadName(context.Context) (string, error) {
	return s.probe(nameSelectors), nil
}

// ReadHeadline returns the profile headline.
func (s *DocumentSource) ReadHeadline(context.Context) (string, error) {
	return s.probe(headlineSelectors), nil
}

// ReadAbout returns the self-description text.
func (s *DocumentSource) ReadAbout(context.Context) (string, error) {
	return s.probe(aboutSelectors), nil
}

// ReadLocation returns the location line.
func (s *DocumentSource) ReadLocation(context.Context) (string, error) {
	return s.probe(locationSelectors), nil
}

// ReadExperience returns experience entries in page order (newest first).
// Entries whose joined content is empty are dropped.
func (s *DocumentSource) ReadExperience(context.Context) ([]types.ExperienceEntry, error) {
	var entries []types.ExperienceEntry
	for _, selector := range experienceItemSelectors {
		items := s.doc.Find(selector)
		if items.Length() == 0 {
			continue
		}
		items.Each(func(_ int, item *goquery.Selection) {
			if content := experienceContent(item); content != "" {
				entries = append(entries, types.ExperienceEntry{Content: content})
			}
		})
		break
	}
	return entries, nil
}

// experienceContent joins the visible segments of one experience item
// (title, company, duration, sub-location) with a separator, collapsing
// the duplicated hidden/visible span pairs the markup carries.
func experienceContent(item *goquery.Selection) string {
	var segments []string
	seen := make(map[string]bool)

	spans := item.Find("span[aria-hidden='true']")
	if spans.Length() == 0 {
		// Older markup has no aria-hidden pairing, fall back to line split
		for _, line := range strings.Split(item.Text(), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !seen[line] {
				seen[line] = true
				segments = append(segments, line)
			}
		}
		return strings.Join(segments, " · ")
	}

	spans.Each(func(_ int, span *goquery.Selection) {
		text := strings.TrimSpace(span.Text())
		if text != "" && !seen[text] {
			seen[text] = true
			segments = append(segments, text)
		}
	})
	return strings.Join(segments, " · ")
}

// PageText returns the whole document's visible text.
func (s *DocumentSource) PageText(context.Context) (string, error) {
	body := s.doc.Find("body")
	if body.Length() == 0 {
		return strings.TrimSpace(s.doc.Text()), nil
	}
	return strings.TrimSpace(body.Text()), nil
}

// OpenContactInfo checks for the contact-info control. A static document has
// no click to perform, so this only records that the overlay content (if any
// is present in the markup) may be read.
func (s *DocumentSource) OpenContactInfo(context.Context) error {
	for _, selector := range contactControlSelectors {
		if s.doc.Find(selector).Length() > 0 {
			s.opened = true
			return nil
		}
	}
	return ErrNoContactControl
}

// OverlayText returns the contact-info overlay text present in the document.
func (s *DocumentSource) OverlayText(context.Context) (string, error) {
	if !s.opened {
		return "", nil
	}
	return s.probe(overlaySelectors), nil
}

// CloseContactInfo dismisses the overlay (a no-op for static documents).
func (s *DocumentSource) CloseContactInfo(context.Context) error {
	s.opened = false
	return nil
}
