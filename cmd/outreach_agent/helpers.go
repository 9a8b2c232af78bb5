package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/backend"
	"github.com/jordan/outreach-agent/internal/config"
	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/drafting"
	"github.com/jordan/outreach-agent/internal/llm"
	"github.com/jordan/outreach-agent/internal/outreach"
	"github.com/jordan/outreach-agent/internal/peoplesearch"
)

// loadConfig assembles configuration in priority order: config file, then
// environment variables as defaults. Per-command flag overrides are applied
// by the caller before Validate.
func loadConfig(configPath string, verbose bool) (config.Config, error) {
	var cfg config.Config

	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if verbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
		}
	}

	cfg = cfg.MergeWithDefaults(*config.FromEnv())
	return cfg, nil
}

// newLogger builds the CLI logger. Verbose runs get human-readable debug
// output; quiet runs log nothing.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildAgent wires an outreach.Agent from configuration. The returned cleanup
// function releases the generation client and the database pool.
func buildAgent(ctx context.Context, cfg config.Config, logger *zap.Logger) (*outreach.Agent, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	deps := outreach.Deps{
		Logger:     logger,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	}

	if cfg.BackendURL != "" {
		deps.Gateway = backend.NewGateway(backend.Config{
			BaseURL: cfg.BackendURL,
			Token:   cfg.BackendToken,
			Logger:  logger,
		})
	}

	if cfg.PeopleSearchURL != "" {
		deps.People = peoplesearch.NewClient(peoplesearch.Config{
			BaseURL: cfg.PeopleSearchURL,
			APIKey:  cfg.PeopleSearchAPIKey,
			Logger:  logger,
		})
	}

	cleanup := func() {}

	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		deps.Drafter = drafting.NewService(client, drafting.Options{Logger: logger})
		cleanup = chain(cleanup, func() { _ = client.Close() })
	}

	if cfg.DatabaseURL != "" {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			// Persistence is best-effort for CLI runs.
			fmt.Fprintf(os.Stderr, "Warning: failed to connect to database: %v\n", err)
			fmt.Fprintf(os.Stderr, "Continuing without persistence...\n")
		} else {
			deps.Store = store
			cleanup = chain(cleanup, store.Close)
		}
	}

	return outreach.New(deps), cleanup, nil
}

// buildLLMClient creates the generation client for the configured provider,
// or nil when generation is not configured.
func buildLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	llmCfg, err := llmConfig(cfg)
	if err != nil {
		return nil, err
	}
	if llmCfg == nil {
		return nil, nil
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	return client, nil
}

// llmConfig maps the agent configuration onto a provider config. A nil
// result means no provider is configured.
func llmConfig(cfg config.Config) (*llm.Config, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.DefaultOpenAIConfig(), nil
	case "rest":
		if cfg.LLMEndpoint == "" {
			return nil, fmt.Errorf("llm_endpoint is required for the rest provider")
		}
		return &llm.Config{Provider: llm.ProviderREST, Endpoint: cfg.LLMEndpoint}, nil
	case "gemini":
		return llm.DefaultGeminiConfig(), nil
	case "":
		if cfg.LLMAPIKey == "" {
			return nil, nil
		}
		return llm.DefaultGeminiConfig(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}

func chain(first, second func()) func() {
	return func() {
		second()
		first()
	}
}

// boolOverride applies a bool flag to cfg only when it was explicitly set,
// since false is indistinguishable from unset in the merged config.
func boolOverride(cmd *cobra.Command, name string, value bool, target *bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}
