package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/outreach-agent/internal/mail"
	"github.com/jordan/outreach-agent/internal/observability"
	"github.com/jordan/outreach-agent/internal/outreach"
	"github.com/jordan/outreach-agent/internal/schemas"
	"github.com/jordan/outreach-agent/internal/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft <profile-url>",
	Short: "Draft a personalized outreach email for a profile",
	Long: `Scrape a profile, resolve a contact email, and generate a personalized
outreach draft from a template. The template comes from a JSON file
(--template) or inline flags (--subject/--body). With --send the draft is
sent through the Gmail API to the resolved address.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

var (
	draftConfigPath   string
	draftTemplateFile string
	draftSubject      string
	draftBody         string
	draftTo           string
	draftSend         bool
	draftForceBackend bool
	draftUseBrowser   bool
	draftJSON         bool
	draftVerbose      bool
)

func init() {
	draftCmd.Flags().StringVar(&draftConfigPath, "config", "", "Path to config.json file")
	draftCmd.Flags().StringVarP(&draftTemplateFile, "template", "t", "", "Path to a template JSON file")
	draftCmd.Flags().StringVar(&draftSubject, "subject", "", "Inline template subject")
	draftCmd.Flags().StringVar(&draftBody, "body", "", "Inline template body")
	draftCmd.Flags().StringVar(&draftTo, "to", "", "Recipient address (defaults to the resolved email)")
	draftCmd.Flags().BoolVar(&draftSend, "send", false, "Send the draft through the Gmail API")
	draftCmd.Flags().BoolVar(&draftForceBackend, "force-backend", false, "Allow a remote contact lookup when page sources fail")
	draftCmd.Flags().BoolVar(&draftUseBrowser, "use-browser", false, "Render the page with a headless browser (requires Chrome)")
	draftCmd.Flags().BoolVar(&draftJSON, "json", false, "Print the draft as JSON")
	draftCmd.Flags().BoolVarP(&draftVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	template, err := resolveTemplate()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(draftConfigPath, draftVerbose)
	if err != nil {
		return err
	}
	boolOverride(cmd, "use-browser", draftUseBrowser, &cfg.UseBrowser)
	boolOverride(cmd, "verbose", draftVerbose, &cfg.Verbose)

	logger := newLogger(cfg.Verbose)
	agent, cleanup, err := buildAgent(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	snapshot, err := agent.ScrapeProfile(ctx, args[0], outreach.ScrapeOptions{
		LookupEmail:  true,
		ForceBackend: draftForceBackend,
		UseBrowser:   cfg.UseBrowser,
	})
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	draft, err := agent.DraftEmail(ctx, snapshot, template)
	if err != nil {
		return err
	}

	if draftJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(draft); err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintResolution(snapshot.Email)
		printer.PrintDraft(draft)
	}

	if draftSend {
		return sendDraft(ctx, cfg.SenderAddress, snapshot.Email, draft)
	}
	return nil
}

// resolveTemplate loads the draft template from a file or the inline flags.
// Template files are validated against the email template schema before use.
func resolveTemplate() (types.EmailTemplate, error) {
	if draftTemplateFile != "" {
		return loadTemplateFile(draftTemplateFile)
	}
	if draftSubject == "" && draftBody == "" {
		return types.EmailTemplate{}, fmt.Errorf("a template is required: provide --template or --subject/--body")
	}
	return types.EmailTemplate{Subject: draftSubject, Body: draftBody}, nil
}

func loadTemplateFile(path string) (types.EmailTemplate, error) {
	var template types.EmailTemplate

	schemaPath := schemas.ResolveSchemaPath("schemas/email_template.schema.json")
	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return template, fmt.Errorf("template validation failed: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return template, fmt.Errorf("failed to read template: %w", err)
	}
	if err := json.Unmarshal(data, &template); err != nil {
		return template, fmt.Errorf("failed to parse template: %w", err)
	}
	return template, nil
}

// sendDraft mails the draft over the Gmail API.
func sendDraft(ctx context.Context, from, resolved string, draft *types.DraftEmail) error {
	to := draftTo
	if to == "" {
		to = resolved
	}
	if to == "" {
		return fmt.Errorf("no recipient: the profile resolved no email and --to was not given")
	}
	if from == "" {
		return fmt.Errorf("sender_address must be configured to send email")
	}

	dispatcher, err := mail.NewDispatcher(ctx, newLogger(draftVerbose))
	if err != nil {
		return fmt.Errorf("failed to create mail dispatcher: %w", err)
	}

	id, err := dispatcher.Send(ctx, mail.Message{
		From:    from,
		To:      to,
		Subject: draft.Subject,
		Body:    draft.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Sent message %s to %s\n", id, to)
	return nil
}
