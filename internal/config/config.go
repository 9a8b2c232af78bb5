// Package config provides configuration loading and validation for the
// outreach agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values come from environment
// variables or CLI flags.
type Config struct {
	// Service endpoints
	BackendURL      string `json:"backend_url,omitempty" validate:"omitempty,url"`
	PeopleSearchURL string `json:"people_search_url,omitempty" validate:"omitempty,url"`
	LLMEndpoint     string `json:"llm_endpoint,omitempty" validate:"omitempty,url"`

	// Credentials
	BackendToken       string `json:"backend_token,omitempty"`
	PeopleSearchAPIKey string `json:"people_search_api_key,omitempty"`
	LLMAPIKey          string `json:"llm_api_key,omitempty"`

	// Generation
	LLMProvider string `json:"llm_provider,omitempty" validate:"omitempty,oneof=gemini openai rest"`

	// Mail
	SenderAddress string `json:"sender_address,omitempty" validate:"omitempty,email"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"`

	// Serving
	ListenAddr string `json:"listen_addr,omitempty" validate:"omitempty,hostname_port"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for logged-in/SPA pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Pair with godotenv in
// main so a local .env file works the same way.
func FromEnv() *Config {
	return &Config{
		BackendURL:         os.Getenv("BACKEND_URL"),
		PeopleSearchURL:    os.Getenv("PEOPLE_SEARCH_URL"),
		LLMEndpoint:        os.Getenv("LLM_ENDPOINT"),
		BackendToken:       os.Getenv("BACKEND_TOKEN"),
		PeopleSearchAPIKey: os.Getenv("PEOPLE_SEARCH_API_KEY"),
		LLMAPIKey:          os.Getenv("LLM_API_KEY"),
		LLMProvider:        os.Getenv("LLM_PROVIDER"),
		SenderAddress:      os.Getenv("SENDER_ADDRESS"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config error: field %q failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.PeopleSearchURL == "" {
		result.PeopleSearchURL = defaults.PeopleSearchURL
	}
	if result.LLMEndpoint == "" {
		result.LLMEndpoint = defaults.LLMEndpoint
	}
	if result.BackendToken == "" {
		result.BackendToken = defaults.BackendToken
	}
	if result.PeopleSearchAPIKey == "" {
		result.PeopleSearchAPIKey = defaults.PeopleSearchAPIKey
	}
	if result.LLMAPIKey == "" {
		result.LLMAPIKey = defaults.LLMAPIKey
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.SenderAddress == "" {
		result.SenderAddress = defaults.SenderAddress
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
