// Package scraping - live.go reads fields from a page rendered in a headless
// browser, for profiles that only materialize client-side.
package scraping

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/jordan/outreach-agent/internal/types"
)

// LiveSource reads profile fields from a page loaded in a chromedp browser
// context. Unlike DocumentSource it can activate the contact-info control,
// which the overlay resolution step depends on.
type LiveSource struct {
	// browserCtx is the chromedp context the page is loaded in. Browser
	// actions must run on this context; the per-call ctx is only consulted
	// for cancellation.
	browserCtx context.Context
	url        string
}

// NewLiveSource wraps an already-navigated chromedp context. The caller owns
// the browser lifecycle (see fetch.Renderer).
func NewLiveSource(browserCtx context.Context, url string) *LiveSource {
	return &LiveSource{browserCtx: browserCtx, url: url}
}

// URL returns the navigated page URL.
func (s *LiveSource) URL() string { return s.url }

func (s *LiveSource) text(ctx context.Context, op string, selectors []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &DomAccessError{Op: op, Cause: err}
	}
	for _, selector := range selectors {
		var out string
		err := chromedp.Run(s.browserCtx,
			chromedp.Text(selector, &out, chromedp.ByQuery, chromedp.AtLeast(0)),
		)
		if err != nil {
			return "", &DomAccessError{Op: op, Cause: err}
		}
		if out = strings.TrimSpace(out); out != "" {
			return out, nil
		}
	}
	return "", nil
}

// ReadName returns the profile's display name.
func (s *LiveSource) ReadName(ctx context.Context) (string, error) {
	return s.text(ctx, "read name", nameSelectors)
}

// ReadHeadline returns the profile headline.
func (s *LiveSource) ReadHeadline(ctx context.Context) (string, error) {
	return s.text(ctx, "read headline", headlineSelectors)
}

// ReadAbout returns the self-description text.
func (s *LiveSource) ReadAbout(ctx context.Context) (string, error) {
	return s.text(ctx, "read about", aboutSelectors)
}

// ReadLocation returns the location line.
func (s *LiveSource) ReadLocation(ctx context.Context) (string, error) {
	return s.text(ctx, "read location", locationSelectors)
}

// ReadExperience reads the rendered experience list. The rendered HTML is
// snapshotted and parsed with the same logic DocumentSource uses, so the two
// sources cannot drift apart on entry shaping.
func (s *LiveSource) ReadExperience(ctx context.Context) ([]types.ExperienceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DomAccessError{Op: "read experience", Cause: err}
	}
	var html string
	if err := chromedp.Run(s.browserCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &DomAccessError{Op: "read experience", Cause: err}
	}
	doc, err := NewDocumentSource(html, s.url)
	if err != nil {
		return nil, err
	}
	return doc.ReadExperience(ctx)
}

// PageText returns the page's full visible text.
func (s *LiveSource) PageText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &DomAccessError{Op: "read page text", Cause: err}
	}
	var out string
	if err := chromedp.Run(s.browserCtx, chromedp.Text("body", &out, chromedp.ByQuery)); err != nil {
		return "", &DomAccessError{Op: "read page text", Cause: err}
	}
	return strings.TrimSpace(out), nil
}

// OpenContactInfo clicks the contact-info control, or reports
// ErrNoContactControl when no control is on the page.
func (s *LiveSource) OpenContactInfo(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &DomAccessError{Op: "open contact info", Cause: err}
	}
	for _, selector := range contactControlSelectors {
		var found bool
		err := chromedp.Run(s.browserCtx,
			chromedp.EvaluateAsDevTools("document.querySelector("+jsString(selector)+") !== null", &found),
		)
		if err != nil {
			return &DomAccessError{Op: "open contact info", Cause: err}
		}
		if !found {
			continue
		}
		if err := chromedp.Run(s.browserCtx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
			return &DomAccessError{Op: "open contact info", Cause: err}
		}
		return nil
	}
	return ErrNoContactControl
}

// OverlayText returns the overlay's current text, empty while it is still
// rendering.
func (s *LiveSource) OverlayText(ctx context.Context) (string, error) {
	return s.text(ctx, "read contact overlay", overlaySelectors)
}

// CloseContactInfo dismisses the overlay. Missing dismiss buttons are not an
// error; the click is best-effort like the cookie-banner dismissal in fetch.
func (s *LiveSource) CloseContactInfo(context.Context) error {
	return chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_ = chromedp.Click("button.artdeco-modal__dismiss, button[aria-label='Dismiss']", chromedp.ByQuery, chromedp.NodeVisible).Do(ctx)
		return nil
	}))
}

// jsString quotes a selector for embedding in a JS expression.
func jsString(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
