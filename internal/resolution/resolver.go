package resolution

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/backend"
	"github.com/jordan/outreach-agent/internal/scraping"
	"github.com/jordan/outreach-agent/internal/textutil"
	"github.com/jordan/outreach-agent/internal/types"
)

// Overlay polling policy: the contact-info overlay renders asynchronously
// after the control is clicked, so we probe five times about a second apart.
const (
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 5
)

// BackendLookup finds an email through remote sources (contact database,
// person search) when everything on the page itself has failed.
type BackendLookup interface {
	FindEmail(ctx context.Context, name, company, profileURL string) (string, error)
}

// Options controls one Resolve call.
type Options struct {
	// UseCache short-circuits to the cached email when the page URL matches.
	UseCache bool
	// ForceBackend enables the remote lookup step after all page-local
	// sources have failed.
	ForceBackend bool
}

// EventSink receives resolution outcomes for auditing. Implementations must
// not fail the resolve call; errors are theirs to log.
type EventSink interface {
	ResolutionFound(ctx context.Context, profileURL, email, source string)
}

// Config holds resolver construction parameters.
type Config struct {
	PollInterval time.Duration
	PollAttempts int
	Clock        scraping.Clock
	Logger       *zap.Logger
	Events       EventSink
}

// DefaultConfig returns the production polling policy and a real clock.
func DefaultConfig() *Config {
	return &Config{
		PollInterval: DefaultPollInterval,
		PollAttempts: DefaultPollAttempts,
		Clock:        scraping.RealClock{},
	}
}

// Resolver owns the layered email discovery chain and its result cache.
type Resolver struct {
	cache   Cache
	backend BackendLookup
	clock   scraping.Clock
	logger  *zap.Logger
	events  EventSink

	pollInterval time.Duration
	pollAttempts int
}

// New creates a resolver. lookup may be nil, disabling the backend step.
func New(lookup BackendLookup, cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = scraping.RealClock{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DefaultPollAttempts
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Resolver{
		backend:      lookup,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		events:       cfg.Events,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
	}
}

// Resolve finds an email for the profile loaded in src, trying sources in
// order and stopping at the first hit:
//
//  1. the cache (when Options.UseCache and the page URL matches)
//  2. the snapshot's about text
//  3. the contact-info overlay, polled while it renders
//  4. the full page text
//  5. the backend lookup (when Options.ForceBackend)
//
// A found email is cached for the page URL before returning. Total failure
// returns "" with a nil error and leaves the cache untouched, so a later
// retry in the same session re-attempts every source. DomAccessError from
// page reads propagates; backend network failures are downgraded to "not
// found".
func (r *Resolver) Resolve(ctx context.Context, src scraping.PageFieldSource, snapshot *types.ProfileSnapshot, opts Options) (string, error) {
	pageURL := src.URL()

	if opts.UseCache {
		if email, ok := r.cache.Lookup(pageURL); ok {
			r.logger.Debug("resolution cache hit", zap.String("profile_url", pageURL))
			if r.events != nil {
				r.events.ResolutionFound(ctx, pageURL, email, "cache")
			}
			return email, nil
		}
	}

	if email := textutil.ExtractEmail(snapshot.About); email != "" {
		return r.found(ctx, pageURL, email, "about"), nil
	}

	email, err := r.fromContactOverlay(ctx, src)
	if err != nil {
		return "", err
	}
	if email != "" {
		return r.found(ctx, pageURL, email, "contact_overlay"), nil
	}

	pageText, err := src.PageText(ctx)
	if err != nil {
		return "", err
	}
	if email := textutil.ExtractEmail(pageText); email != "" {
		return r.found(ctx, pageURL, email, "page_sweep"), nil
	}

	if opts.ForceBackend && r.backend != nil {
		email, err := r.backend.FindEmail(ctx, snapshot.Name, snapshot.Company, pageURL)
		switch {
		case backend.IsAuthExpired(err):
			// The session layer has to re-prompt sign-in; don't swallow this
			// as an ordinary miss.
			return "", err
		case err != nil:
			r.logger.Warn("backend email lookup failed", zap.String("profile_url", pageURL), zap.Error(err))
		case email != "":
			return r.found(ctx, pageURL, email, "backend"), nil
		}
	}

	r.logger.Debug("no email found", zap.String("profile_url", pageURL))
	return "", nil
}

// fromContactOverlay activates the contact-info control and polls the
// overlay text while it renders. The overlay is always dismissed afterward,
// found or not. An absent control skips the step without waiting.
func (r *Resolver) fromContactOverlay(ctx context.Context, src scraping.PageFieldSource) (string, error) {
	if err := src.OpenContactInfo(ctx); err != nil {
		if errors.Is(err, scraping.ErrNoContactControl) {
			return "", nil
		}
		return "", err
	}
	defer func() {
		_ = src.CloseContactInfo(ctx)
	}()

	var email string
	_, err := scraping.PollUntil(ctx, r.clock, r.pollInterval, r.pollAttempts, func(ctx context.Context) (bool, error) {
		text, err := src.OverlayText(ctx)
		if err != nil {
			return false, err
		}
		email = textutil.ExtractEmail(text)
		return email != "", nil
	})
	if err != nil {
		return "", err
	}
	return email, nil
}

func (r *Resolver) found(ctx context.Context, pageURL, email, source string) string {
	r.logger.Debug("email resolved",
		zap.String("profile_url", pageURL),
		zap.String("source", source),
	)
	r.cache.Store(pageURL, email)
	if r.events != nil {
		r.events.ResolutionFound(ctx, pageURL, email, source)
	}
	return email
}

// ClearCache explicitly invalidates the single-slot cache.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}

// Bound adapts the resolver to scraping.EmailResolver with fixed options,
// for wiring into a FieldReader.
func (r *Resolver) Bound(opts Options) scraping.EmailResolver {
	return boundResolver{resolver: r, opts: opts}
}

type boundResolver struct {
	resolver *Resolver
	opts     Options
}

func (b boundResolver) Resolve(ctx context.Context, src scraping.PageFieldSource, snapshot *types.ProfileSnapshot) (string, error) {
	return b.resolver.Resolve(ctx, src, snapshot, b.opts)
}
