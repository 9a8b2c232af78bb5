package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/types"
)

// templateRequest creates or updates a stored email template.
type templateRequest struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// requireStore writes a 503 when no database is configured and reports
// whether the handler should proceed.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, ErrStoreNotConfigured.Error())
		return false
	}
	return true
}

// pathID parses the {id} path segment as a UUID. It writes the error
// response itself on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req templateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	id, err := s.store.SaveTemplate(r.Context(), types.EmailTemplate{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	record, err := s.store.GetTemplate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "template not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteTemplate(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// templateByID fetches a stored template for the draft handler.
func (s *Server) templateByID(r *http.Request, rawID string) (*db.TemplateRecord, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.GetTemplate(r.Context(), id)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	filters := db.ContactFilters{
		Company: r.URL.Query().Get("company"),
		Title:   r.URL.Query().Get("title"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}

	contacts, err := s.store.ListContacts(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (s *Server) handleGetContactByURL(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	profileURL := r.URL.Query().Get("url")
	if profileURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	contact, err := s.store.ContactByLinkedInURL(r.Context(), profileURL)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if contact == nil {
		s.errorResponse(w, http.StatusNotFound, "contact not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, contact)
}

func (s *Server) handleListResolutions(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	profileURL := r.URL.Query().Get("url")
	if profileURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	events, err := s.store.ListResolutions(r.Context(), profileURL, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"events": events})
}
