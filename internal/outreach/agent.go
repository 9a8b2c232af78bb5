// Package outreach provides the high-level orchestration for the outreach
// workflow: loading a profile page, scraping its fields, resolving a contact
// address, finding similar people and drafting an email.
package outreach

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/backend"
	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/drafting"
	"github.com/jordan/outreach-agent/internal/fetch"
	"github.com/jordan/outreach-agent/internal/peoplesearch"
	"github.com/jordan/outreach-agent/internal/resolution"
	"github.com/jordan/outreach-agent/internal/scraping"
	"github.com/jordan/outreach-agent/internal/types"
)

// Deps holds the collaborators an Agent orchestrates. Gateway, People,
// Drafter and Store are each optional; the corresponding steps degrade to
// no-ops or errors where the operation cannot proceed without them.
type Deps struct {
	Gateway *backend.Gateway
	People  *peoplesearch.Client
	Drafter *drafting.Service
	Store   *db.DB
	Logger  *zap.Logger

	UseBrowser bool
	Verbose    bool

	FetchOptions   *fetch.Options
	ResolverConfig *resolution.Config
}

// Agent ties the scraping, resolution, search and drafting layers together
// behind the operations the CLI and the HTTP server expose.
type Agent struct {
	resolver *resolution.Resolver
	people   *peoplesearch.Client
	drafter  *drafting.Service
	gateway  *backend.Gateway
	store    *db.DB
	logger   *zap.Logger

	useBrowser bool
	verbose    bool
	fetchOpts  *fetch.Options
}

// New wires an Agent from its dependencies.
func New(deps Deps) *Agent {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fetchOpts := deps.FetchOptions
	if fetchOpts == nil {
		fetchOpts = fetch.DefaultOptions()
	}

	cfg := deps.ResolverConfig
	if cfg == nil {
		cfg = resolution.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	if cfg.Events == nil && deps.Store != nil {
		cfg.Events = &eventRecorder{store: deps.Store, logger: logger}
	}

	lookup := combinedLookup(deps.Gateway, deps.People, logger)

	return &Agent{
		resolver:   resolution.New(lookup, cfg),
		people:     deps.People,
		drafter:    deps.Drafter,
		gateway:    deps.Gateway,
		store:      deps.Store,
		logger:     logger,
		useBrowser: deps.UseBrowser,
		verbose:    deps.Verbose,
		fetchOpts:  fetchOpts,
	}
}

// combinedLookup builds the forced-backend lookup chain from whichever remote
// collaborators are configured. A nil result disables the backend step.
func combinedLookup(gateway *backend.Gateway, people *peoplesearch.Client, logger *zap.Logger) resolution.BackendLookup {
	if gateway == nil && people == nil {
		return nil
	}
	lookup := &resolution.CombinedLookup{Logger: logger}
	if gateway != nil {
		lookup.Directory = gateway
	}
	if people != nil {
		lookup.People = people
	}
	return lookup
}

// ScrapeOptions controls one ScrapeProfile call.
type ScrapeOptions struct {
	// LookupEmail layers contact resolution onto the scrape. This is the
	// slow path: the contact-info reveal involves simulated UI interaction
	// with multi-second backoff.
	LookupEmail bool
	// ForceBackend enables the remote lookup step when every page-local
	// source comes up empty. Only meaningful with LookupEmail.
	ForceBackend bool
	// UseBrowser renders the page with headless Chrome instead of a plain
	// HTTP fetch, for logged-in or script-rendered pages.
	UseBrowser bool
}

// ScrapeProfile loads the page at profileURL and extracts a ProfileSnapshot,
// optionally resolving a contact email. The snapshot is persisted as a
// contact row when a store is configured; persistence failures are logged,
// never fatal.
func (a *Agent) ScrapeProfile(ctx context.Context, profileURL string, opts ScrapeOptions) (*types.ProfileSnapshot, error) {
	html, err := a.loadPage(ctx, profileURL, opts.UseBrowser)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile page: %w", err)
	}
	return a.scrapeDocument(ctx, profileURL, html, opts)
}

// ProfileResult pairs one URL from a batch scrape with its outcome.
type ProfileResult struct {
	URL      string
	Snapshot *types.ProfileSnapshot
	Err      error
}

// ScrapeProfiles scrapes several profiles in one call. Plain HTTP fetches run
// concurrently; pages that fail or come back as script shells fall back to
// the single-profile path with its browser rendering. One bad URL never
// aborts the batch.
func (a *Agent) ScrapeProfiles(ctx context.Context, urls []string, opts ScrapeOptions) []ProfileResult {
	pages := make(map[string]string, len(urls))
	if !opts.UseBrowser && !a.useBrowser {
		fetched, errs := fetch.Multiple(ctx, urls, a.fetchOpts)
		for i, page := range fetched {
			if errs[i] != nil || page == nil {
				continue
			}
			platform := fetch.DetectPlatform(page.URL)
			text, err := fetch.ExtractMainText(page.HTML, fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
			if err == nil && !fetch.ShouldUseBrowser(text) {
				pages[page.URL] = page.HTML
			}
		}
	}

	results := make([]ProfileResult, len(urls))
	for i, pageURL := range urls {
		results[i] = ProfileResult{URL: pageURL}
		if html, ok := pages[pageURL]; ok {
			results[i].Snapshot, results[i].Err = a.scrapeDocument(ctx, pageURL, html, opts)
			continue
		}
		results[i].Snapshot, results[i].Err = a.ScrapeProfile(ctx, pageURL, opts)
	}
	return results
}

// scrapeDocument extracts a snapshot from already-loaded page HTML and
// persists the contact.
func (a *Agent) scrapeDocument(ctx context.Context, profileURL, html string, opts ScrapeOptions) (*types.ProfileSnapshot, error) {
	src, err := scraping.NewDocumentSource(html, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	bound := a.resolver.Bound(resolution.Options{
		UseCache:     true,
		ForceBackend: opts.ForceBackend,
	})
	reader := scraping.NewFieldReader(src, bound)

	snapshot, err := reader.Scrape(ctx, opts.LookupEmail)
	if err != nil {
		return nil, err
	}

	a.persistContact(ctx, snapshot)
	return snapshot, nil
}

// loadPage fetches the profile page, falling back to browser rendering when
// the plain fetch returns too little content to be a rendered page.
func (a *Agent) loadPage(ctx context.Context, pageURL string, useBrowser bool) (string, error) {
	if useBrowser || a.useBrowser {
		return fetch.WithBrowser(ctx, pageURL, a.fetchOpts.Timeout, a.verbose)
	}

	result, err := fetch.URL(ctx, pageURL, a.fetchOpts)
	if err != nil {
		return "", err
	}

	platform := fetch.DetectPlatform(pageURL)
	text, err := fetch.ExtractMainText(result.HTML, fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
	if err == nil && !fetch.ShouldUseBrowser(text) {
		return result.HTML, nil
	}

	// Thin extracted text means a script-rendered page; render it for real.
	a.logger.Debug("fetched page content too thin, retrying with browser",
		zap.String("url", pageURL),
		zap.Int("text_bytes", len(text)),
	)
	return fetch.WithBrowser(ctx, pageURL, a.fetchOpts.Timeout, a.verbose)
}

// persistContact records the scraped person locally and, when a session
// gateway is configured, mirrors it to the backend contact list.
func (a *Agent) persistContact(ctx context.Context, snapshot *types.ProfileSnapshot) {
	if snapshot.Name == "" {
		return
	}

	if a.store != nil {
		_, err := a.store.SaveContact(ctx, db.Contact{
			Name:        snapshot.Name,
			Email:       snapshot.Email,
			Company:     snapshot.Company,
			Title:       snapshot.Headline,
			LinkedInURL: snapshot.ProfileURL,
		})
		if err != nil {
			a.logger.Warn("failed to save contact", zap.String("profile_url", snapshot.ProfileURL), zap.Error(err))
		}
	}

	if a.gateway != nil && snapshot.Email != "" {
		err := a.gateway.SaveContact(ctx, backend.ContactRecord{
			Name:        snapshot.Name,
			Email:       snapshot.Email,
			Company:     snapshot.Company,
			Title:       snapshot.Headline,
			LinkedInURL: snapshot.ProfileURL,
		})
		if err != nil {
			a.logger.Warn("failed to sync contact to backend", zap.String("profile_url", snapshot.ProfileURL), zap.Error(err))
		}
	}
}

// ResolveEmail runs the layered resolution chain against an already-loaded
// page document.
func (a *Agent) ResolveEmail(ctx context.Context, src scraping.PageFieldSource, snapshot *types.ProfileSnapshot, opts resolution.Options) (string, error) {
	return a.resolver.Resolve(ctx, src, snapshot, opts)
}

// ClearResolutionCache invalidates the resolver's cache, for callers that
// know the page context changed in a way the URL comparison will not catch.
func (a *Agent) ClearResolutionCache() {
	a.resolver.ClearCache()
}

// FindSimilar returns ranked people similar to a just-contacted person.
func (a *Agent) FindSimilar(ctx context.Context, contacted types.ContactedPerson) (*peoplesearch.SimilarResult, error) {
	if a.people == nil {
		return nil, fmt.Errorf("person search is not configured")
	}
	return a.people.FindSimilar(ctx, contacted)
}

// DraftEmail produces a personalized outreach draft for the snapshot. The
// drafting layer already degrades to a canned fallback on generation failure,
// so this never fails once a drafter is configured.
func (a *Agent) DraftEmail(ctx context.Context, snapshot *types.ProfileSnapshot, template types.EmailTemplate) (*types.DraftEmail, error) {
	if a.drafter == nil {
		return nil, fmt.Errorf("drafting is not configured")
	}
	return a.drafter.Draft(ctx, snapshot, template), nil
}

// eventRecorder feeds resolver outcomes into the resolution_events audit
// table.
type eventRecorder struct {
	store  *db.DB
	logger *zap.Logger
}

func (r *eventRecorder) ResolutionFound(ctx context.Context, profileURL, email, source string) {
	_, err := r.store.RecordResolution(ctx, db.ResolutionEvent{
		ProfileURL: profileURL,
		Email:      email,
		Source:     source,
		Succeeded:  true,
	})
	if err != nil {
		r.logger.Warn("failed to record resolution event", zap.String("profile_url", profileURL), zap.Error(err))
	}
}
