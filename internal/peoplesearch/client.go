package peoplesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/types"
)

// DefaultTimeout bounds one search request. Failed or slow tiers are treated
// as empty, never as a hang.
const DefaultTimeout = 10 * time.Second

// MaxSuggestions caps the similar-person result list.
const MaxSuggestions = 3

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client queries the person-search service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a person-search client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}
}

// SimilarResult is the outcome of a similar-person search. An empty
// Suggestions list is a normal outcome, not an error.
type SimilarResult struct {
	Suggestions   []types.CandidatePerson `json:"suggestions"`
	TopSuggestion *types.CandidatePerson  `json:"top_suggestion"`
}

// searchRequest is the person-search wire format.
type searchRequest struct {
	OrganizationDomains  []string `json:"organization_domains,omitempty"`
	OrganizationName     string   `json:"organization_name,omitempty"`
	JobTitles            []string `json:"job_titles,omitempty"`
	IncludeSimilarTitles bool     `json:"include_similar_titles"`
	ExcludeLinkedInURL   string   `json:"exclude_linkedin_url,omitempty"`
	PerPage              int      `json:"per_page"`
	Page                 int      `json:"page"`
}

type personRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	LinkedInURL  string `json:"linkedin_url"`
	Email        string `json:"email"`
	Organization struct {
		Name          string `json:"name"`
		PrimaryDomain string `json:"primary_domain"`
	} `json:"organization"`
}

type searchResponse struct {
	People   []personRecord `json:"people"`
	Contacts []personRecord `json:"contacts"`
}

// FindSimilar finds up to three people similar to the contacted person,
// searching in tiers of decreasing match strength:
//
//  1. same organization and same job title (score 3)
//  2. same organization, different title (score 2)
//  3. same title, different organization (score 1)
//
// Later tiers only run while fewer than three candidates have accumulated.
// A failed or empty tier contributes nothing and the search continues; an
// empty final result is a normal outcome.
func (c *Client) FindSimilar(ctx context.Context, contacted types.ContactedPerson) (*SimilarResult, error) {
	domain := GuessDomain(contacted.Company)
	orgName := NormalizeCompanyName(contacted.Company)
	title := NormalizeTitle(contacted.Headline)

	var accumulated []types.CandidatePerson
	add := func(records []personRecord, reason types.SimilarityReason, keep func(personRecord) bool) {
		for _, rec := range records {
			if SameProfile(rec.LinkedInURL, contacted.LinkedInURL) {
				continue
			}
			if keep != nil && !keep(rec) {
				continue
			}
			accumulated = append(accumulated, types.CandidatePerson{
				ID:               rec.ID,
				Name:             rec.Name,
				Title:            rec.Title,
				OrganizationName: rec.Organization.Name,
				LinkedInURL:      rec.LinkedInURL,
				Email:            rec.Email,
				SimilarityReason: reason,
				SimilarityScore:  reason.Score(),
			})
		}
	}

	// Tier 1: same org, same title.
	records := c.searchTier(ctx, searchRequest{
		OrganizationDomains: domains(domain),
		OrganizationName:    orgName,
		JobTitles:           titles(title),
		ExcludeLinkedInURL:  contacted.LinkedInURL,
		PerPage:             MaxSuggestions,
		Page:                1,
	})
	add(records, types.ReasonSameCompanyAndRole, nil)

	// Tier 2: same org, excluding the already-matched title.
	if len(rank(accumulated, MaxSuggestions)) < MaxSuggestions {
		records = c.searchTier(ctx, searchRequest{
			OrganizationDomains: domains(domain),
			OrganizationName:    orgName,
			ExcludeLinkedInURL:  contacted.LinkedInURL,
			PerPage:             MaxSuggestions,
			Page:                1,
		})
		add(records, types.ReasonSameCompany, func(rec personRecord) bool {
			return title == "" || !strings.EqualFold(NormalizeTitle(rec.Title), title)
		})
	}

	// Tier 3: same title, excluding the already-matched org domain.
	if len(rank(accumulated, MaxSuggestions)) < MaxSuggestions {
		records = c.searchTier(ctx, searchRequest{
			JobTitles:          titles(title),
			ExcludeLinkedInURL: contacted.LinkedInURL,
			PerPage:            MaxSuggestions,
			Page:               1,
		})
		add(records, types.ReasonSameRole, func(rec personRecord) bool {
			return domain == "" || !strings.EqualFold(rec.Organization.PrimaryDomain, domain)
		})
	}

	suggestions := rank(accumulated, MaxSuggestions)
	result := &SimilarResult{Suggestions: suggestions}
	if len(suggestions) > 0 {
		result.TopSuggestion = &suggestions[0]
	}
	return result, nil
}

// FindEmail looks for the contacted person themselves in the person-search
// service, matching by name within the guessed company domain, and returns
// their email when the service has one.
func (c *Client) FindEmail(ctx context.Context, name, company string) (string, error) {
	if name == "" {
		return "", nil
	}

	records, err := c.search(ctx, searchRequest{
		OrganizationDomains: domains(GuessDomain(company)),
		OrganizationName:    NormalizeCompanyName(company),
		PerPage:             10,
		Page:                1,
	})
	if err != nil {
		return "", err
	}

	for _, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.Name), strings.TrimSpace(name)) && rec.Email != "" {
			return rec.Email, nil
		}
	}
	return "", nil
}

// searchTier runs one tier's query, downgrading any failure to zero results.
func (c *Client) searchTier(ctx context.Context, req searchRequest) []personRecord {
	records, err := c.search(ctx, req)
	if err != nil {
		c.logger.Warn("person-search tier failed", zap.Error(err))
		return nil
	}
	return records
}

func (c *Client) search(ctx context.Context, req searchRequest) ([]personRecord, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/mixed_people/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return append(parsed.People, parsed.Contacts...), nil
}

func domains(domain string) []string {
	if domain == "" {
		return nil
	}
	return []string{domain}
}

func titles(title string) []string {
	if title == "" {
		return nil
	}
	return []string{title}
}
