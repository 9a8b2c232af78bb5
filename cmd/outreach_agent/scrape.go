package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/outreach-agent/internal/observability"
	"github.com/jordan/outreach-agent/internal/outreach"
	"github.com/jordan/outreach-agent/internal/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <profile-url> [profile-url...]",
	Short: "Scrape one or more profile pages into snapshots",
	Long: `Scrape a profile page and print the extracted snapshot: name, headline,
about, location, company and experience. With --email the layered contact
resolution runs as well, which is slower because the contact-info reveal
polls the page. Several URLs may be given; their pages are fetched
concurrently and a failed URL does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

var (
	scrapeConfigPath   string
	scrapeEmail        bool
	scrapeForceBackend bool
	scrapeUseBrowser   bool
	scrapeJSON         bool
	scrapeVerbose      bool
)

func init() {
	scrapeCmd.Flags().StringVar(&scrapeConfigPath, "config", "", "Path to config.json file")
	scrapeCmd.Flags().BoolVar(&scrapeEmail, "email", false, "Resolve a contact email for the profile")
	scrapeCmd.Flags().BoolVar(&scrapeForceBackend, "force-backend", false, "Allow a remote contact lookup when page sources fail (implies --email)")
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "use-browser", false, "Render the page with a headless browser (requires Chrome)")
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "Print the snapshot as JSON")
	scrapeCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(scrapeConfigPath, scrapeVerbose)
	if err != nil {
		return err
	}
	boolOverride(cmd, "use-browser", scrapeUseBrowser, &cfg.UseBrowser)
	boolOverride(cmd, "verbose", scrapeVerbose, &cfg.Verbose)

	logger := newLogger(cfg.Verbose)
	agent, cleanup, err := buildAgent(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := outreach.ScrapeOptions{
		LookupEmail:  scrapeEmail || scrapeForceBackend,
		ForceBackend: scrapeForceBackend,
		UseBrowser:   cfg.UseBrowser,
	}

	if len(args) == 1 {
		snapshot, err := agent.ScrapeProfile(ctx, args[0], opts)
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}
		return printSnapshot(snapshot)
	}

	var failed int
	for _, result := range agent.ScrapeProfiles(ctx, args, opts) {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "scrape failed for %s: %v\n", result.URL, result.Err)
			continue
		}
		if err := printSnapshot(result.Snapshot); err != nil {
			return err
		}
	}
	if failed == len(args) {
		return fmt.Errorf("all %d scrapes failed", failed)
	}
	return nil
}

func printSnapshot(snapshot *types.ProfileSnapshot) error {
	if scrapeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSnapshot(snapshot)
	if scrapeEmail || scrapeForceBackend {
		printer.PrintResolution(snapshot.Email)
	}
	return nil
}
