package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the scrape/resolve, similar-person and
drafting operations, plus template and contact persistence when a database
is configured. Set API_TOKEN_HASH to require a bearer token on every
request.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveAddr       string
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to LISTEN_ADDR or :8080)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(serveConfigPath, serveVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}
	boolOverride(cmd, "verbose", serveVerbose, &cfg.Verbose)

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	agent, cleanup, err := buildAgent(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// The server gets its own connection so persistence endpoints work even
	// though the agent's store is wired independently.
	var store *db.DB
	if cfg.DatabaseURL != "" {
		store, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	srv, err := server.New(server.Config{
		Addr:         cfg.ListenAddr,
		APITokenHash: os.Getenv("API_TOKEN_HASH"),
		Logger:       logger,
	}, agent, store)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
