package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/outreach-agent/internal/config"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Hash an API access token for API_TOKEN_HASH",
	Long: `Hash an access token with bcrypt. Put the output in API_TOKEN_HASH for
the serve command; callers then present the plain token as a bearer token.`,
	Args: cobra.ExactArgs(1),
	RunE: runHashToken,
}

func init() {
	rootCmd.AddCommand(hashTokenCmd)
}

func runHashToken(_ *cobra.Command, args []string) error {
	tokens, err := config.NewTokenConfig()
	if err != nil {
		return err
	}

	hash, err := tokens.HashToken(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, hash)
	return nil
}
