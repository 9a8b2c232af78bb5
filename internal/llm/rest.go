package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRESTTimeout bounds one generation request against a REST endpoint.
const DefaultRESTTimeout = 60 * time.Second

// RESTClient implements Client against a self-hosted generation endpoint.
// The endpoint accepts {"prompt": ..., "systemPrompt": ...} and answers with
// a JSON object carrying the generated text in a "result" field.
type RESTClient struct {
	endpoint   string
	apiKey     string
	config     *Config
	httpClient *http.Client
}

// NewRESTClient creates a client for a generation endpoint. The API key is
// optional; when set it is sent as a bearer token.
func NewRESTClient(config *Config, apiKey string) (*RESTClient, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("generation endpoint is required")
	}

	return &RESTClient{
		endpoint:   config.Endpoint,
		apiKey:     apiKey,
		config:     config,
		httpClient: &http.Client{Timeout: DefaultRESTTimeout},
	}, nil
}

type generateRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt"`
	Model        string `json:"model,omitempty"`
}

type generateResponse struct {
	Result   string `json:"result"`
	Response string `json:"response"`
}

// GenerateContent generates text content using the specified model tier
func (c *RESTClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.GenerateWithSystem(ctx, "", prompt, tier)
}

// GenerateWithSystem generates text content with a separate system prompt
func (c *RESTClient) GenerateWithSystem(ctx context.Context, systemPrompt, prompt string, tier ModelTier) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		Model:        c.config.GetModel(tier),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse generation response: %w", err)
	}

	if parsed.Result != "" {
		return parsed.Result, nil
	}
	if parsed.Response != "" {
		return parsed.Response, nil
	}
	return "", fmt.Errorf("generation response carried no result")
}

// GetModel returns the model name for a tier
func (c *RESTClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *RESTClient) Close() error {
	return nil
}
