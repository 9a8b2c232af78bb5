// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jordan/outreach-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox draws a titled box around the content, one line per row.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	row := func(text string) {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(text, boxWidth-4))
	}

	fmt.Fprintf(p.out, "┌%s┐\n", border)
	row(title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		row(line)
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// PrintSnapshot outputs a human-readable summary of a scraped profile.
func (p *Printer) PrintSnapshot(snapshot *types.ProfileSnapshot) {
	if snapshot == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", snapshot.Name))
	sb.WriteString(fmt.Sprintf("Headline: %s\n", snapshot.Headline))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", snapshot.Company))
	sb.WriteString(fmt.Sprintf("Location: %s\n", snapshot.Location))
	if snapshot.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", snapshot.Email))
	}

	if len(snapshot.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(snapshot.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", truncate(snapshot.Experience[i].Content, 50)))
		}
		if len(snapshot.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(snapshot.Experience)-maxItemsToShow))
		}
	}

	p.printBox("PROFILE SNAPSHOT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs similar-person suggestions with scores and reasons.
func (p *Printer) PrintSuggestions(suggestions []types.CandidatePerson) {
	if len(suggestions) == 0 {
		p.printBox("SIMILAR PEOPLE", "No suggestions found")
		return
	}

	var sb strings.Builder
	for i, candidate := range suggestions {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, candidate.Name))
		sb.WriteString(fmt.Sprintf("    Score: %d (%s)\n", candidate.SimilarityScore, candidate.SimilarityReason))
		if candidate.Title != "" {
			sb.WriteString(fmt.Sprintf("    Title: %s\n", truncate(candidate.Title, 45)))
		}
		if candidate.OrganizationName != "" {
			sb.WriteString(fmt.Sprintf("    Org:   %s\n", candidate.OrganizationName))
		}
		if i < len(suggestions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SIMILAR PEOPLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs a generated email draft.
func (p *Printer) PrintDraft(draft *types.DraftEmail) {
	if draft == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Subject: %s\n", draft.Subject))
	if draft.Fallback {
		sb.WriteString("(fallback draft, generation unavailable)\n")
	}
	sb.WriteString("\n")
	sb.WriteString(draft.Body)

	p.printBox("EMAIL DRAFT", sb.String())
}

// PrintResolution outputs the outcome of an email resolution attempt.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResolution(email string) {
	if email == "" {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO EMAIL FOUND (enter one manually)")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	p.printBox("RESOLVED EMAIL", email)
}
