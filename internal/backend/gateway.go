package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/types"
)

// DefaultTimeout bounds one backend request.
const DefaultTimeout = 15 * time.Second

// Config holds gateway construction parameters.
type Config struct {
	BaseURL string
	// Token is the bearer session token (a JWT issued at sign-in).
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Gateway is the authenticated client for the session backend.
type Gateway struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGateway creates a backend gateway.
func NewGateway(cfg Config) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Gateway{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}
}

// SetToken replaces the session token after a re-login.
func (g *Gateway) SetToken(token string) {
	g.token = token
}

// UserProfile is the signed-in user's account record.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// ContactRecord is one saved outreach contact.
type ContactRecord struct {
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Company     string    `json:"company,omitempty"`
	Title       string    `json:"title,omitempty"`
	LinkedInURL string    `json:"linkedin_url,omitempty"`
	ContactedAt time.Time `json:"contacted_at,omitempty"`
}

// ContactFacets summarizes the contact database for filtering UIs.
type ContactFacets struct {
	Companies []FacetCount `json:"companies"`
	Titles    []FacetCount `json:"titles"`
	Total     int          `json:"total"`
}

// FacetCount is one facet value with its occurrence count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Profile fetches the signed-in user's profile.
func (g *Gateway) Profile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := g.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Templates fetches the user's saved email templates.
func (g *Gateway) Templates(ctx context.Context) ([]types.EmailTemplate, error) {
	var templates []types.EmailTemplate
	if err := g.do(ctx, http.MethodGet, "/api/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveContact records an outreach contact in the backend.
func (g *Gateway) SaveContact(ctx context.Context, contact ContactRecord) error {
	return g.do(ctx, http.MethodPost, "/api/contacts", contact, nil)
}

// ContactFacets fetches company/title facets over the contact database.
func (g *Gateway) ContactFacets(ctx context.Context) (*ContactFacets, error) {
	var facets ContactFacets
	if err := g.do(ctx, http.MethodGet, "/api/contacts/facets", nil, &facets); err != nil {
		return nil, err
	}
	return &facets, nil
}

// EmailByLinkedInURL looks up a previously resolved email by profile URL.
// A miss is not an error: it returns an empty string.
func (g *Gateway) EmailByLinkedInURL(ctx context.Context, linkedInURL string) (string, error) {
	endpoint := "/api/contacts/email?linkedin_url=" + url.QueryEscape(linkedInURL)
	var out struct {
		Email string `json:"email"`
	}
	err := g.do(ctx, http.MethodGet, endpoint, nil, &out)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return out.Email, nil
}

// do runs one backend request. A locally expired token fails fast without a
// round trip; a 401 from the backend becomes an AuthExpiredError either way.
func (g *Gateway) do(ctx context.Context, method, endpoint string, payload, out any) error {
	if err := checkTokenExpiry(g.token); err != nil {
		return &AuthExpiredError{Endpoint: endpoint}
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &RequestError{Endpoint: endpoint, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, body)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		g.logger.Warn("backend session expired", zap.String("endpoint", endpoint))
		return &AuthExpiredError{Endpoint: endpoint}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Message: "failed to read response", Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Endpoint: endpoint, Message: "failed to parse response", Cause: err}
	}
	return nil
}

// checkTokenExpiry inspects the token's exp claim without verifying the
// signature (verification is the backend's job). Malformed tokens pass
// through so the backend can reject them authoritatively.
func checkTokenExpiry(token string) error {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("token expired at %s", exp.Time.Format(time.RFC3339))
	}
	return nil
}
