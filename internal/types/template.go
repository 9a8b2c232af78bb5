package types

// EmailTemplate is a user-authored outreach template. Subject and Body may
// contain bracketed placeholders (e.g. "[first name]", "[company]") that the
// generation model fills from the profile snapshot.
type EmailTemplate struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftEmail is a generated outreach draft ready for user editing.
type DraftEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// Fallback is true when generation failed and the draft holds the fixed
	// fallback content instead of model output.
	Fallback bool `json:"fallback,omitempty"`
}

// ContactedPerson identifies someone the user already reached out to, used as
// the seed for similar-person search.
type ContactedPerson struct {
	Company     string `json:"company"`
	Headline    string `json:"headline"`
	LinkedInURL string `json:"linkedin_url"`
}
