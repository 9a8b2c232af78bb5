package resolution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/outreach-agent/internal/backend"
	"github.com/jordan/outreach-agent/internal/scraping"
	"github.com/jordan/outreach-agent/internal/types"
)

// fakeSource scripts the page-local sources and counts how far the chain got.
type fakeSource struct {
	url string

	overlayText    string
	overlayReadyAt int // poll attempt on which overlayText appears
	noContactCtrl  bool
	pageText       string
	overlayErr     error
	pageTextErr    error

	openCalls    int
	overlayCalls int
	closeCalls   int
	sweepCalls   int
}

func (f *fakeSource) URL() string { return f.url }

func (f *fakeSource) ReadName(context.Context) (string, error)     { return "", nil }
func (f *fakeSource) ReadHeadline(context.Context) (string, error) { return "", nil }
func (f *fakeSource) ReadAbout(context.Context) (string, error)    { return "", nil }
func (f *fakeSource) ReadLocation(context.Context) (string, error) { return "", nil }
func (f *fakeSource) ReadExperience(context.Context) ([]types.ExperienceEntry, error) {
	return nil, nil
}

func (f *fakeSource) PageText(context.Context) (string, error) {
	f.sweepCalls++
	return f.pageText, f.pageTextErr
}

func (f *fakeSource) OpenContactInfo(context.Context) error {
	f.openCalls++
	if f.noContactCtrl {
		return scraping.ErrNoContactControl
	}
	return nil
}

func (f *fakeSource) OverlayText(context.Context) (string, error) {
	f.overlayCalls++
	if f.overlayErr != nil {
		return "", f.overlayErr
	}
	if f.overlayCalls >= f.overlayReadyAt {
		return f.overlayText, nil
	}
	return "", nil
}

func (f *fakeSource) CloseContactInfo(context.Context) error {
	f.closeCalls++
	return nil
}

type fakeLookup struct {
	email string
	err   error
	calls int
}

func (f *fakeLookup) FindEmail(context.Context, string, string, string) (string, error) {
	f.calls++
	return f.email, f.err
}

func newTestResolver(lookup BackendLookup) *Resolver {
	return New(lookup, &Config{
		PollInterval: time.Millisecond,
		PollAttempts: 5,
		Clock:        noWaitClock{},
	})
}

type noWaitClock struct{}

func (noWaitClock) Sleep(context.Context, time.Duration) error { return nil }

func TestResolve_AboutTextShortCircuits(t *testing.T) {
	src := &fakeSource{url: "https://example.com/in/ada"}
	resolver := newTestResolver(nil)
	snapshot := &types.ProfileSnapshot{About: "write me: ada@acme.example.com"}

	email, err := resolver.Resolve(context.Background(), src, snapshot, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ada@acme.example.com", email)
	assert.Zero(t, src.openCalls, "overlay step never reached")
	assert.Zero(t, src.sweepCalls, "page sweep never reached")
}

func TestResolve_OverlayBeforeSweep(t *testing.T) {
	src := &fakeSource{
		url:            "https://example.com/in/ada",
		overlayText:    "Email ada@acme.example.com",
		overlayReadyAt: 3,
		pageText:       "sweep-only@acme.example.com",
	}
	lookup := &fakeLookup{}
	resolver := newTestResolver(lookup)

	email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{ForceBackend: true})
	require.NoError(t, err)
	assert.Equal(t, "ada@acme.example.com", email)
	assert.Equal(t, 3, src.overlayCalls, "polled until the overlay rendered")
	assert.Equal(t, 1, src.closeCalls, "overlay dismissed after success")
	assert.Zero(t, src.sweepCalls, "sweep not reached")
	assert.Zero(t, lookup.calls, "backend not reached")
}

func TestResolve_OverlayAlwaysClosed(t *testing.T) {
	src := &fakeSource{
		url:            "https://example.com/in/ada",
		overlayReadyAt: 99, // never renders
	}
	resolver := newTestResolver(nil)

	email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Equal(t, 5, src.overlayCalls, "all five attempts used")
	assert.Equal(t, 1, src.closeCalls, "overlay dismissed after failure too")
	assert.Equal(t, 1, src.sweepCalls, "fell through to the sweep")
}

func TestResolve_MissingControlSkipsToSweep(t *testing.T) {
	src := &fakeSource{
		url:           "https://example.com/in/ada",
		noContactCtrl: true,
		pageText:      "footer says ops@acme.example.com",
	}
	resolver := newTestResolver(nil)

	email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ops@acme.example.com", email)
	assert.Zero(t, src.overlayCalls, "no polling when the control is absent")
	assert.Zero(t, src.closeCalls)
}

func TestResolve_BackendStep(t *testing.T) {
	t.Run("only when forced", func(t *testing.T) {
		lookup := &fakeLookup{email: "ada@acme.example.com"}
		resolver := newTestResolver(lookup)
		src := &fakeSource{url: "https://example.com/in/ada", noContactCtrl: true}

		email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{})
		require.NoError(t, err)
		assert.Empty(t, email)
		assert.Zero(t, lookup.calls)

		email, err = resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{Name: "Ada"}, Options{ForceBackend: true})
		require.NoError(t, err)
		assert.Equal(t, "ada@acme.example.com", email)
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("network failure downgraded to not found", func(t *testing.T) {
		lookup := &fakeLookup{err: &backend.RequestError{Endpoint: "/contacts", Message: "timeout"}}
		resolver := newTestResolver(lookup)
		src := &fakeSource{url: "https://example.com/in/ada", noContactCtrl: true}

		email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{ForceBackend: true})
		require.NoError(t, err, "network errors never abort the chain")
		assert.Empty(t, email)
	})

	t.Run("auth expiry propagates", func(t *testing.T) {
		lookup := &fakeLookup{err: &backend.AuthExpiredError{Endpoint: "/contacts"}}
		resolver := newTestResolver(lookup)
		src := &fakeSource{url: "https://example.com/in/ada", noContactCtrl: true}

		_, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{ForceBackend: true})
		assert.True(t, backend.IsAuthExpired(err))
	})
}

func TestResolve_DomAccessErrorPropagates(t *testing.T) {
	src := &fakeSource{
		url:        "https://example.com/in/ada",
		overlayErr: &scraping.DomAccessError{Op: "read contact overlay"},
	}
	resolver := newTestResolver(nil)

	_, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, Options{})
	require.Error(t, err)
	assert.True(t, scraping.IsDomAccess(err))
	assert.Equal(t, 1, src.closeCalls, "overlay still dismissed")
}

func TestResolve_CacheBehavior(t *testing.T) {
	t.Run("second call served from cache", func(t *testing.T) {
		src := &fakeSource{
			url:            "https://example.com/in/ada",
			overlayText:    "ada@acme.example.com",
			overlayReadyAt: 1,
		}
		resolver := newTestResolver(nil)
		opts := Options{UseCache: true}

		email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Equal(t, "ada@acme.example.com", email)
		assert.Equal(t, 1, src.openCalls)

		email, err = resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Equal(t, "ada@acme.example.com", email)
		assert.Equal(t, 1, src.openCalls, "no new probe on cache hit")
	})

	t.Run("different URL forces fresh probe", func(t *testing.T) {
		resolver := newTestResolver(nil)
		opts := Options{UseCache: true}

		first := &fakeSource{url: "https://example.com/in/ada", overlayText: "ada@acme.example.com", overlayReadyAt: 1}
		_, err := resolver.Resolve(context.Background(), first, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)

		second := &fakeSource{url: "https://example.com/in/grace", overlayText: "grace@navy.example.com", overlayReadyAt: 1}
		email, err := resolver.Resolve(context.Background(), second, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Equal(t, "grace@navy.example.com", email)
		assert.Equal(t, 1, second.openCalls, "cache miss probed the new page")
	})

	t.Run("total failure does not poison the cache", func(t *testing.T) {
		resolver := newTestResolver(nil)
		opts := Options{UseCache: true}
		src := &fakeSource{url: "https://example.com/in/ada", noContactCtrl: true}

		email, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Empty(t, email)

		// A later retry on the same URL probes again instead of returning a
		// cached empty result.
		src.pageText = "now rendered: ada@acme.example.com"
		email, err = resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Equal(t, "ada@acme.example.com", email)
	})

	t.Run("clear cache forces probe", func(t *testing.T) {
		resolver := newTestResolver(nil)
		opts := Options{UseCache: true}
		src := &fakeSource{url: "https://example.com/in/ada", overlayText: "ada@acme.example.com", overlayReadyAt: 1}

		_, err := resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		resolver.ClearCache()

		_, err = resolver.Resolve(context.Background(), src, &types.ProfileSnapshot{}, opts)
		require.NoError(t, err)
		assert.Equal(t, 2, src.openCalls)
	})
}

func TestCache(t *testing.T) {
	var cache Cache

	_, ok := cache.Lookup("https://example.com/in/ada")
	assert.False(t, ok, "empty cache misses")

	cache.Store("https://example.com/in/ada", "ada@acme.example.com")
	email, ok := cache.Lookup("https://example.com/in/ada")
	assert.True(t, ok)
	assert.Equal(t, "ada@acme.example.com", email)

	_, ok = cache.Lookup("https://example.com/in/grace")
	assert.False(t, ok, "URL change invalidates")

	cache.Clear()
	_, ok = cache.Lookup("https://example.com/in/ada")
	assert.False(t, ok)
}
