package peoplesearch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jordan/outreach-agent/internal/types"
)

var slugPattern = regexp.MustCompile(`/in/([^/?#]+)`)

// ProfileSlug extracts the `/in/<slug>` path segment from a LinkedIn profile
// URL, lowercased, ignoring query string, fragment and trailing slash.
// Returns "" when the URL has no /in/ segment.
func ProfileSlug(url string) string {
	match := slugPattern.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(match[1], "/"))
}

// SameProfile reports whether two profile URLs point at the same person,
// comparing only their slugs. Query/hash/trailing-slash differences between
// otherwise-identical URLs are common, so full URL equality is never used.
func SameProfile(a, b string) bool {
	slugA, slugB := ProfileSlug(a), ProfileSlug(b)
	return slugA != "" && slugA == slugB
}

// rank deduplicates candidates by slug (falling back to provider ID), sorts
// by similarity score descending with case-insensitive name ascending as the
// tiebreak, and caps the list at limit.
func rank(candidates []types.CandidatePerson, limit int) []types.CandidatePerson {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]types.CandidatePerson, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c.DedupeKey())
		if slug := ProfileSlug(c.LinkedInURL); slug != "" {
			key = slug
		}
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].SimilarityScore != deduped[j].SimilarityScore {
			return deduped[i].SimilarityScore > deduped[j].SimilarityScore
		}
		return strings.ToLower(deduped[i].Name) < strings.ToLower(deduped[j].Name)
	})

	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}
