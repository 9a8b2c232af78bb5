package scraping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileHTML = `
<html><body>
	<main>
		<h1 class="text-heading-xlarge">Ada Lovelace</h1>
		<div class="pv-text-details__left-panel">
			<div class="text-body-medium">Staff Engineer at Acme Corp</div>
			<span class="text-body-small inline">London, England</span>
		</div>
		<a id="top-card-text-details-contact-info" href="/in/ada/overlay/contact-info/">Contact info</a>
		<div id="about"></div>
		<div class="display-flex">
			<div class="inline-show-more-text">Compilers and engines. Reach me at ada@acme.example.com.</div>
		</div>
		<div id="experience"></div>
		<div class="pvs-list__outer-container">
			<ul>
				<li>
					<span aria-hidden="true">Staff Engineer</span>
					<span aria-hidden="true">Acme Corp</span>
					<span aria-hidden="true">2 yrs 3 mos</span>
					<span aria-hidden="true">London</span>
				</li>
				<li>
					<span aria-hidden="true">Engineer</span>
					<span aria-hidden="true">Initech</span>
				</li>
				<li></li>
			</ul>
		</div>
	</main>
</body></html>`

func newTestSource(t *testing.T, html string) *DocumentSource {
	t.Helper()
	src, err := NewDocumentSource(html, "https://example.com/in/ada")
	require.NoError(t, err)
	return src
}

func TestDocumentSource_ReadFields(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t, profileHTML)

	name, err := src.ReadName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)

	headline, err := src.ReadHeadline(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer at Acme Corp", headline)

	about, err := src.ReadAbout(ctx)
	require.NoError(t, err)
	assert.Contains(t, about, "ada@acme.example.com")

	location, err := src.ReadLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "London, England", location)
}

func TestDocumentSource_ReadExperience(t *testing.T) {
	src := newTestSource(t, profileHTML)

	entries, err := src.ReadExperience(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2, "empty entries are dropped")
	assert.Equal(t, "Staff Engineer · Acme Corp · 2 yrs 3 mos · London", entries[0].Content)
	assert.Equal(t, "Engineer · Initech", entries[1].Content)
}

func TestDocumentSource_SelectorMissReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t, "<html><body><p>drifted markup</p></body></html>")

	name, err := src.ReadName(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	entries, err := src.ReadExperience(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentSource_ContactInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("control absent", func(t *testing.T) {
		src := newTestSource(t, "<html><body></body></html>")
		assert.ErrorIs(t, src.OpenContactInfo(ctx), ErrNoContactControl)
	})

	t.Run("overlay text readable after open", func(t *testing.T) {
		src := newTestSource(t, `
			<html><body>
				<a href="/in/ada/overlay/contact-info/">Contact info</a>
				<section class="pv-contact-info">Email ada@acme.example.com</section>
			</body></html>`)

		text, err := src.OverlayText(ctx)
		require.NoError(t, err)
		assert.Empty(t, text, "overlay is not readable before open")

		require.NoError(t, src.OpenContactInfo(ctx))
		text, err = src.OverlayText(ctx)
		require.NoError(t, err)
		assert.Contains(t, text, "ada@acme.example.com")

		require.NoError(t, src.CloseContactInfo(ctx))
		text, err = src.OverlayText(ctx)
		require.NoError(t, err)
		assert.Empty(t, text, "overlay not readable after close")
	})
}

func TestDocumentSource_PageText(t *testing.T) {
	src := newTestSource(t, `<html><body><div>stray contact: ops@acme.example.com</div></body></html>`)
	text, err := src.PageText(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "ops@acme.example.com")
}
