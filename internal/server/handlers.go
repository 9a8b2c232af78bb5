package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/outreach"
	"github.com/jordan/outreach-agent/internal/types"
)

// resolveRequest asks for a profile scrape with optional email resolution.
type resolveRequest struct {
	URL          string `json:"url" validate:"required,url"`
	LookupEmail  bool   `json:"lookup_email"`
	ForceBackend bool   `json:"force_backend"`
	UseBrowser   bool   `json:"use_browser"`
}

// similarRequest seeds a similar-person search with a contacted person.
type similarRequest struct {
	Company     string `json:"company"`
	Headline    string `json:"headline"`
	LinkedInURL string `json:"linkedin_url" validate:"omitempty,url"`
}

// draftRequest asks for an outreach draft for an already-scraped snapshot.
type draftRequest struct {
	Snapshot *types.ProfileSnapshot `json:"snapshot" validate:"required"`
	// TemplateID selects a stored template; Template supplies one inline.
	// TemplateID wins when both are present.
	TemplateID string               `json:"template_id" validate:"omitempty,uuid"`
	Template   *types.EmailTemplate `json:"template"`
}

// decodeRequest parses and validates a JSON request body. It writes the
// error response itself and reports whether the handler should proceed.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest, validationMessage(verrs[0]))
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	return "field " + fe.Field() + " failed " + fe.Tag() + " validation"
}

// handleResolve scrapes a profile page and optionally resolves a contact
// email for it.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	snapshot, err := s.agent.ScrapeProfile(r.Context(), req.URL, outreach.ScrapeOptions{
		LookupEmail:  req.LookupEmail,
		ForceBackend: req.ForceBackend,
		UseBrowser:   req.UseBrowser,
	})
	if err != nil {
		s.logger.Warn("resolve failed", zap.String("url", req.URL), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, snapshot)
}

// handleSimilar returns ranked people similar to a contacted person.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	result, err := s.agent.FindSimilar(r.Context(), types.ContactedPerson{
		Company:     req.Company,
		Headline:    req.Headline,
		LinkedInURL: req.LinkedInURL,
	})
	if err != nil {
		s.logger.Warn("similar search failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleDraft produces an outreach draft for a snapshot, against a stored or
// inline template.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	template, ok := s.draftTemplate(w, r, &req)
	if !ok {
		return
	}

	draft, err := s.agent.DraftEmail(r.Context(), req.Snapshot, template)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, draft)
}

// draftTemplate resolves the template a draft request refers to. It writes
// the error response itself when resolution fails.
func (s *Server) draftTemplate(w http.ResponseWriter, r *http.Request, req *draftRequest) (types.EmailTemplate, bool) {
	if req.TemplateID != "" {
		record, err := s.templateByID(r, req.TemplateID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return types.EmailTemplate{}, false
		}
		if record == nil {
			s.errorResponse(w, http.StatusNotFound, "template not found")
			return types.EmailTemplate{}, false
		}
		return record.Template(), true
	}
	if req.Template != nil {
		return *req.Template, true
	}
	return types.EmailTemplate{}, true
}

// handleClearCache invalidates the resolution cache, for callers that know
// the page context changed in a way the URL comparison will not catch.
func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.agent.ClearResolutionCache()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}
