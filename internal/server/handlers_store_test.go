package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/types"
)

func newStoreServer(t *testing.T, agent Agent) (*Server, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	s, err := New(Config{RateLimit: unlimited()}, agent, db.New(mock))
	require.NoError(t, err)
	return s, mock
}

func TestSaveTemplate(t *testing.T) {
	s, mock := newStoreServer(t, &fakeAgent{})
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO email_templates`)).
		WithArgs("intro", "Quick question", "Hi [first name]").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

	rec := doJSON(t, s, http.MethodPost, "/templates", map[string]any{
		"name":    "intro",
		"subject": "Quick question",
		"body":    "Hi [first name]",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), id.String())
}

func TestSaveTemplate_MissingFields(t *testing.T) {
	s, _ := newStoreServer(t, &fakeAgent{})

	rec := doJSON(t, s, http.MethodPost, "/templates", map[string]any{"name": "intro"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTemplates(t *testing.T) {
	s, mock := newStoreServer(t, &fakeAgent{})
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, subject, body, created_at, updated_at`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "subject", "body", "created_at", "updated_at"}).
			AddRow(uuid.New(), "intro", "Quick question", "Hi", now, now))

	rec := doJSON(t, s, http.MethodGet, "/templates", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Templates []db.TemplateRecord `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Templates, 1)
	assert.Equal(t, "intro", body.Templates[0].Name)
}

func TestGetTemplate_NotFound(t *testing.T) {
	s, mock := newStoreServer(t, &fakeAgent{})
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, subject, body, created_at, updated_at`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	rec := doJSON(t, s, http.MethodGet, "/templates/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTemplate_InvalidID(t *testing.T) {
	s, _ := newStoreServer(t, &fakeAgent{})

	rec := doJSON(t, s, http.MethodGet, "/templates/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraft_StoredTemplate(t *testing.T) {
	agent := &fakeAgent{draft: &types.DraftEmail{Subject: "s", Body: "b"}}
	s, mock := newStoreServer(t, agent)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, subject, body, created_at, updated_at`)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "subject", "body", "created_at", "updated_at"}).
			AddRow(id, "intro", "Stored subject", "Stored body", now, now))

	rec := doJSON(t, s, http.MethodPost, "/draft", map[string]any{
		"snapshot":    map[string]any{"name": "Ada"},
		"template_id": id.String(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stored subject", agent.lastTemplate.Subject)
	assert.Equal(t, "Stored body", agent.lastTemplate.Body)
}

func TestListContacts(t *testing.T) {
	s, mock := newStoreServer(t, &fakeAgent{})
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, company, title, linkedin_url, contacted_at, created_at`)).
		WithArgs("%Analytical%", 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "company", "title", "linkedin_url", "contacted_at", "created_at"}).
			AddRow(uuid.New(), "Ada Lovelace", "ada@example.com", "Analytical Engines", "Engineer", "https://linkedin.com/in/ada", &now, now))

	rec := doJSON(t, s, http.MethodGet, "/contacts?company=Analytical", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Contacts []db.Contact `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Contacts, 1)
	assert.Equal(t, "ada@example.com", body.Contacts[0].Email)
}

func TestListContacts_InvalidLimit(t *testing.T) {
	s, _ := newStoreServer(t, &fakeAgent{})

	rec := doJSON(t, s, http.MethodGet, "/contacts?limit=zero", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListResolutions_RequiresURL(t *testing.T) {
	s, _ := newStoreServer(t, &fakeAgent{})

	rec := doJSON(t, s, http.MethodGet, "/resolutions", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url query parameter is required")
}

func TestListResolutions(t *testing.T) {
	s, mock := newStoreServer(t, &fakeAgent{})
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, profile_url, email, source, succeeded, created_at`)).
		WithArgs("https://linkedin.com/in/ada", 20).
		WillReturnRows(pgxmock.NewRows([]string{"id", "profile_url", "email", "source", "succeeded", "created_at"}).
			AddRow(uuid.New(), "https://linkedin.com/in/ada", "ada@example.com", db.SourceAbout, true, now))

	rec := doJSON(t, s, http.MethodGet, "/resolutions?url=https%3A%2F%2Flinkedin.com%2Fin%2Fada", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []db.ResolutionEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, db.SourceAbout, body.Events[0].Source)
}
