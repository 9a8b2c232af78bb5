// Package main provides the entry point for the outreach agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "outreach_agent",
	Short: "Outreach Agent CLI and API server",
	Long:  "Outreach Agent scrapes professional profiles, resolves contact emails through layered fallbacks, finds similar people to reach out to, and drafts personalized outreach email.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
