package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/outreach-agent/internal/observability"
	"github.com/jordan/outreach-agent/internal/types"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find people similar to someone you contacted",
	Long: `Search for up to three people similar to a just-contacted person, ranked
by match strength: same company and role, then same company, then same role.
The contacted person themselves is excluded from the results.`,
	RunE: runSimilar,
}

var (
	similarConfigPath  string
	similarCompany     string
	similarHeadline    string
	similarLinkedInURL string
	similarJSON        bool
	similarVerbose     bool
)

func init() {
	similarCmd.Flags().StringVar(&similarConfigPath, "config", "", "Path to config.json file")
	similarCmd.Flags().StringVarP(&similarCompany, "company", "c", "", "Company of the contacted person")
	similarCmd.Flags().StringVar(&similarHeadline, "headline", "", "Headline of the contacted person (e.g. \"Engineer at Acme\")")
	similarCmd.Flags().StringVar(&similarLinkedInURL, "linkedin-url", "", "Profile URL of the contacted person, excluded from results")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "Print the results as JSON")
	similarCmd.Flags().BoolVarP(&similarVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if similarCompany == "" && similarHeadline == "" {
		return fmt.Errorf("at least one of --company or --headline must be provided")
	}

	cfg, err := loadConfig(similarConfigPath, similarVerbose)
	if err != nil {
		return err
	}
	boolOverride(cmd, "verbose", similarVerbose, &cfg.Verbose)

	logger := newLogger(cfg.Verbose)
	agent, cleanup, err := buildAgent(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := agent.FindSimilar(ctx, types.ContactedPerson{
		Company:     similarCompany,
		Headline:    similarHeadline,
		LinkedInURL: similarLinkedInURL,
	})
	if err != nil {
		return fmt.Errorf("similar search failed: %w", err)
	}

	if similarJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSuggestions(result.Suggestions)
	return nil
}
