package types

// SimilarityReason explains why a candidate matched the contacted person.
type SimilarityReason string

// Similarity reasons, in decreasing order of match strength
const (
	ReasonSameCompanyAndRole SimilarityReason = "same_company_and_role"
	ReasonSameCompany        SimilarityReason = "same_company"
	ReasonSameRole           SimilarityReason = "same_role"
)

// Score returns the integer ranking weight for a reason (3/2/1).
// The score is used strictly for sorting, it is not a probability.
func (r SimilarityReason) Score() int {
	switch r {
	case ReasonSameCompanyAndRole:
		return 3
	case ReasonSameCompany:
		return 2
	case ReasonSameRole:
		return 1
	default:
		return 0
	}
}

// CandidatePerson is one result of a person-search query.
type CandidatePerson struct {
	ID               string           `json:"id,omitempty"`
	Name             string           `json:"name"`
	Title            string           `json:"title"`
	OrganizationName string           `json:"organization_name"`
	LinkedInURL      string           `json:"linkedin_url"`
	Email            string           `json:"email,omitempty"`
	SimilarityReason SimilarityReason `json:"similarity_reason"`
	SimilarityScore  int              `json:"similarity_score"`
}

// DedupeKey identifies a candidate for deduplication: the LinkedIn URL when
// present, otherwise the provider ID.
func (c CandidatePerson) DedupeKey() string {
	if c.LinkedInURL != "" {
		return c.LinkedInURL
	}
	return c.ID
}
