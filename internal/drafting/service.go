// Package drafting turns a profile snapshot plus a user template into an
// outreach email draft via the generation model.
package drafting

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/llm"
	"github.com/jordan/outreach-agent/internal/prompts"
	"github.com/jordan/outreach-agent/internal/types"
)

// draftDelimiter separates subject from body in the model response.
const draftDelimiter = "$$$"

// maxExperienceEntries bounds how much experience history goes into the prompt.
const maxExperienceEntries = 3

// Service generates email drafts. Generation failures never propagate:
// callers always get a usable draft, falling back to fixed content when the
// model is unavailable.
type Service struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// Options configures draft generation.
type Options struct {
	Tier   llm.ModelTier
	Logger *zap.Logger
}

// DefaultOptions returns the default drafting options.
func DefaultOptions() Options {
	return Options{
		Tier: llm.TierStandard,
	}
}

// NewService creates a drafting service around an LLM client.
func NewService(client llm.Client, opts Options) *Service {
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		client: client,
		tier:   opts.Tier,
		logger: opts.Logger,
	}
}

// Draft builds a prompt from the snapshot and template, calls the generation
// model, and parses the delimited response into subject and body.
func (s *Service) Draft(ctx context.Context, snapshot *types.ProfileSnapshot, template types.EmailTemplate) *types.DraftEmail {
	system := prompts.MustGet("drafting.json", "draft-system")
	prompt := buildPrompt(snapshot, template)

	response, err := s.client.GenerateWithSystem(ctx, system, prompt, s.tier)
	if err != nil {
		s.logger.Warn("draft generation failed, using fallback",
			zap.String("profile_url", snapshot.ProfileURL),
			zap.Error(err))
		return FallbackDraft()
	}

	subject, body := parseDraft(response)
	return &types.DraftEmail{Subject: subject, Body: body}
}

// FallbackDraft returns the fixed draft used when generation is unavailable.
func FallbackDraft() *types.DraftEmail {
	return &types.DraftEmail{
		Subject:  prompts.MustGet("drafting.json", "fallback-subject"),
		Body:     prompts.MustGet("drafting.json", "fallback-body"),
		Fallback: true,
	}
}

func buildPrompt(snapshot *types.ProfileSnapshot, template types.EmailTemplate) string {
	entries := snapshot.Experience
	if len(entries) > maxExperienceEntries {
		entries = entries[:maxExperienceEntries]
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Content != "" {
			lines = append(lines, "- "+entry.Content)
		}
	}

	return prompts.Format(prompts.MustGet("drafting.json", "draft-email"), map[string]string{
		"Name":            snapshot.Name,
		"Headline":        snapshot.Headline,
		"Company":         snapshot.Company,
		"Location":        snapshot.Location,
		"About":           snapshot.About,
		"Experience":      strings.Join(lines, "\n"),
		"SubjectTemplate": template.Subject,
		"BodyTemplate":    template.Body,
	})
}

// parseDraft splits a model response into subject and body on the fixed
// delimiter. A response without the delimiter becomes the whole body, with
// the fallback subject standing in.
func parseDraft(response string) (subject, body string) {
	response = strings.TrimSpace(response)

	before, after, found := strings.Cut(response, draftDelimiter)
	if !found {
		return prompts.MustGet("drafting.json", "fallback-subject"), response
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
