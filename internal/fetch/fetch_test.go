package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><main>profile text</main></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "profile text")
	assert.Contains(t, result.ContentType, "text/html")
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session-cookie", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Cookie": "session-cookie"}

	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result, "partial result carries the status for callers")
	assert.Equal(t, http.StatusForbidden, result.StatusCode)
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>navigation junk</nav>
		<main>
			<h1>Ada Lovelace</h1>
			<p>Staff Engineer at Acme</p>
		</main>
		<footer>footer junk</footer>
	</body></html>`

	text, err := ExtractMainText(html, ProfilePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Ada Lovelace")
	assert.Contains(t, text, "Staff Engineer at Acme")
	assert.NotContains(t, text, "navigation junk")
	assert.NotContains(t, text, "footer junk")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<html><body><main>
		<p>keep this</p>
		<div class="ad-banner-container">an ad</div>
	</main></body></html>`

	text, err := ExtractMainText(html, ProfilePageSelectors(), ".ad-banner-container")
	require.NoError(t, err)
	assert.Contains(t, text, "keep this")
	assert.NotContains(t, text, "an ad")
}

func TestExtractMainText_BodyFallback(t *testing.T) {
	html := `<html><body><div class="unmatched">fallback content</div></body></html>`

	text, err := ExtractMainText(html, []string{".never-matches"})
	require.NoError(t, err)
	assert.Contains(t, text, "fallback content")
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.linkedin.com/in/ada", PlatformLinkedIn},
		{"https://de.linkedin.com/in/ada", PlatformLinkedIn},
		{"https://www.xing.com/profile/Ada_Lovelace", PlatformXing},
		{"https://example.com/people/ada", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformSelectors(t *testing.T) {
	assert.Contains(t, PlatformContentSelectors(PlatformLinkedIn), ".scaffold-layout__main")
	assert.Contains(t, PlatformNoiseSelectors(PlatformLinkedIn), "#similar-profiles")
	assert.Equal(t, ProfilePageSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestMultiple(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			_, _ = w.Write([]byte("<html>ok</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	urls := []string{server.URL + "/good", server.URL + "/missing", server.URL + "/good"}
	results, errs := Multiple(context.Background(), urls, nil)

	require.Len(t, results, 3)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1], "individual failure stays in its slot")
	assert.NoError(t, errs[2])
	assert.Contains(t, results[0].HTML, "ok")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("a", MinContentLength+1)))
}
