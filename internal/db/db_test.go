package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/outreach-agent/internal/types"
)

func newMockDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return New(mock), mock
}

func TestSaveTemplate(t *testing.T) {
	store, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO email_templates`)).
		WithArgs("intro", "Hi [first name]", "Hello there").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := store.SaveTemplate(context.Background(), types.EmailTemplate{
		Name:    "intro",
		Subject: "Hi [first name]",
		Body:    "Hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetTemplate_Missing(t *testing.T) {
	store, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, subject, body, created_at, updated_at`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	record, err := store.GetTemplate(context.Background(), id)
	require.NoError(t, err, "a missing template is not an error")
	assert.Nil(t, record)
}

func TestListTemplates(t *testing.T) {
	store, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM email_templates ORDER BY name ASC`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "subject", "body", "created_at", "updated_at"}).
			AddRow(uuid.New(), "followup", "Re: hello", "Just checking in", now, now).
			AddRow(uuid.New(), "intro", "Hello", "Hi there", now, now))

	records, err := store.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "followup", records[0].Name)
	assert.Equal(t, "intro", records[1].Template().Name)
}

func TestDeleteTemplate_NotFound(t *testing.T) {
	store, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM email_templates`)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.DeleteTemplate(context.Background(), id)
	assert.ErrorContains(t, err, "not found")
}

func TestSaveContact(t *testing.T) {
	store, mock := newMockDB(t)
	id := uuid.New()
	contactedAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO contacts`)).
		WithArgs("Ada Lovelace", "ada@acme.com", "Acme", "Staff Engineer",
			"https://linkedin.com/in/ada", &contactedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := store.SaveContact(context.Background(), Contact{
		Name:        "Ada Lovelace",
		Email:       "ada@acme.com",
		Company:     "Acme",
		Title:       "Staff Engineer",
		LinkedInURL: "https://linkedin.com/in/ada",
		ContactedAt: &contactedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestContactByLinkedInURL_Missing(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM contacts WHERE linkedin_url = $1`)).
		WithArgs("https://linkedin.com/in/nobody").
		WillReturnError(pgx.ErrNoRows)

	contact, err := store.ContactByLinkedInURL(context.Background(), "https://linkedin.com/in/nobody")
	require.NoError(t, err)
	assert.Nil(t, contact)
}

func TestListContacts_CompanyFilter(t *testing.T) {
	store, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`AND company ILIKE $1`)).
		WithArgs("%Acme%", 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "company", "title", "linkedin_url", "contacted_at", "created_at"}).
			AddRow(uuid.New(), "Ada", "ada@acme.com", "Acme", "Engineer", "https://linkedin.com/in/ada", &now, now))

	contacts, err := store.ListContacts(context.Background(), ContactFilters{Company: "Acme"})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada", contacts[0].Name)
}

func TestRecordResolution(t *testing.T) {
	store, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO resolution_events`)).
		WithArgs("https://linkedin.com/in/ada", "ada@acme.com", SourceOverlay, true).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	got, err := store.RecordResolution(context.Background(), ResolutionEvent{
		ProfileURL: "https://linkedin.com/in/ada",
		Email:      "ada@acme.com",
		Source:     SourceOverlay,
		Succeeded:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestListResolutions(t *testing.T) {
	store, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM resolution_events WHERE profile_url = $1`)).
		WithArgs("https://linkedin.com/in/ada", 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "profile_url", "email", "source", "succeeded", "created_at"}).
			AddRow(uuid.New(), "https://linkedin.com/in/ada", "ada@acme.com", SourceAbout, true, now))

	events, err := store.ListResolutions(context.Background(), "https://linkedin.com/in/ada", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Succeeded)
	assert.Equal(t, SourceAbout, events[0].Source)
}
