package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restConfig(endpoint string) *Config {
	return &Config{
		Provider: ProviderREST,
		Endpoint: endpoint,
		Models:   map[ModelTier]string{TierStandard: "local-model"},
	}
}

func TestRESTClient_GenerateWithSystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "write an email", req.Prompt)
		assert.Equal(t, "you are concise", req.SystemPrompt)
		assert.Equal(t, "local-model", req.Model)

		_ = json.NewEncoder(w).Encode(map[string]string{"result": "Subject$$$Body"})
	}))
	defer server.Close()

	client, err := NewRESTClient(restConfig(server.URL), "secret")
	require.NoError(t, err)

	out, err := client.GenerateWithSystem(context.Background(), "you are concise", "write an email", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "Subject$$$Body", out)
}

func TestRESTClient_ResponseFieldFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "from response field"})
	}))
	defer server.Close()

	client, err := NewRESTClient(restConfig(server.URL), "")
	require.NoError(t, err)

	out, err := client.GenerateContent(context.Background(), "prompt", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "from response field", out)
}

func TestRESTClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewRESTClient(restConfig(server.URL), "")
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "prompt", TierStandard)
	assert.ErrorContains(t, err, "HTTP 500")

	_, err = NewRESTClient(restConfig(""), "")
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestRESTClient_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client, err := NewRESTClient(restConfig(server.URL), "")
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), "prompt", TierStandard)
	assert.ErrorContains(t, err, "no result")
}
