// Package peoplesearch queries a third-party person-search service for
// people similar to a just-contacted person, ranked by how closely they
// match the contacted person's organization and role.
package peoplesearch

import (
	"regexp"
	"strings"
)

// legalSuffixes are trailing legal-entity annotations stripped from scraped
// company names before guessing a domain or building a display name.
var legalSuffixes = []string{"inc", "llc", "ltd", "corp", "corporation", "company", "co."}

// embeddedDomain matches a domain already present in a company string
// (e.g. "acme.com" inside "Acme (acme.com)").
var embeddedDomain = regexp.MustCompile(`[a-z0-9][a-z0-9\-.]*\.(?:com|org|net)`)

// employmentAnnotation matches the trailing employment-type marker scraped
// headlines carry (e.g. "Acme · Full-time").
var employmentAnnotation = regexp.MustCompile(`\s*·\s*(?:full[- ]time|part[- ]time|contract|self[- ]employed|freelance|internship|apprenticeship).*$`)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GuessDomain turns a company name into a best-guess website domain. When
// the name already embeds a .com/.org/.net domain that domain is used;
// otherwise legal suffixes and non-alphanumerics are stripped and ".com" is
// appended. This is a heuristic filter hint, not a verified identity: it
// will be wrong for companies whose real domain isn't "<name>.com".
func GuessDomain(company string) string {
	lowered := strings.ToLower(strings.TrimSpace(company))
	if lowered == "" {
		return ""
	}

	if match := embeddedDomain.FindString(lowered); match != "" {
		return match
	}

	stripped := stripLegalSuffixes(lowered)
	stripped = nonAlphanumeric.ReplaceAllString(stripped, "")
	if stripped == "" {
		return ""
	}
	return stripped + ".com"
}

// NormalizeCompanyName turns a scraped company string into a clean display
// name: lowercased, employment annotation removed, whitespace collapsed,
// the scraper's exact half-duplication artifact collapsed, legal suffixes
// stripped, then title-cased.
func NormalizeCompanyName(company string) string {
	lowered := strings.ToLower(strings.TrimSpace(company))
	lowered = employmentAnnotation.ReplaceAllString(lowered, "")
	lowered = strings.Join(strings.Fields(lowered), " ")
	lowered = collapseDuplication(lowered)
	lowered = stripLegalSuffixes(lowered)
	return titleCase(lowered)
}

// collapseDuplication detects a string whose first half exactly equals its
// second half, a known artifact of scraped headline text being doubled, and
// returns a single copy.
func collapseDuplication(s string) string {
	words := strings.Fields(s)
	if len(words) < 2 || len(words)%2 != 0 {
		return s
	}
	half := len(words) / 2
	first := strings.Join(words[:half], " ")
	second := strings.Join(words[half:], " ")
	if first == second {
		return first
	}
	return s
}

// stripLegalSuffixes removes trailing legal-entity words. Input is expected
// lowercased; multiple suffixes strip in sequence ("acme co. inc" → "acme").
func stripLegalSuffixes(s string) string {
	s = strings.TrimSpace(s)
	for {
		stripped := false
		for _, suffix := range legalSuffixes {
			trimmed := strings.TrimSuffix(s, " "+suffix)
			if trimmed != s {
				s = strings.TrimSpace(trimmed)
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// titleDelimiters separate the job-title portion of a headline from the
// company portion.
var titleDelimiters = []string{" at ", " @ ", "|"}

// NormalizeTitle extracts the job-title portion of a headline: the text
// before the earliest delimiter, trimmed. No further normalization is
// applied; in particular titleSynonyms is not consulted.
func NormalizeTitle(headline string) string {
	title := headline
	cut := -1
	for _, delim := range titleDelimiters {
		if idx := strings.Index(headline, delim); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut >= 0 {
		title = headline[:cut]
	}
	return strings.TrimSpace(title)
}

// titleSynonyms maps job-title variants to a canonical form. Defined for a
// planned synonym-aware search tier; NormalizeTitle does not apply it.
var titleSynonyms = map[string]string{
	"swe":                       "software engineer",
	"software developer":        "software engineer",
	"dev":                       "software engineer",
	"sre":                       "site reliability engineer",
	"devops":                    "devops engineer",
	"pm":                        "product manager",
	"product owner":             "product manager",
	"em":                        "engineering manager",
	"engineering lead":          "engineering manager",
	"data scientist":            "data scientist",
	"ml engineer":               "machine learning engineer",
	"recruiter":                 "technical recruiter",
	"talent acquisition":        "technical recruiter",
	"founder":                   "chief executive officer",
	"co-founder":                "chief executive officer",
	"ceo":                       "chief executive officer",
	"cto":                       "chief technology officer",
	"head of engineering":       "vp of engineering",
	"vp engineering":            "vp of engineering",
	"account executive":         "account executive",
	"sales development rep":     "sales development representative",
	"sdr":                       "sales development representative",
	"business development rep":  "sales development representative",
	"marketing manager":         "marketing manager",
	"growth":                    "growth manager",
	"designer":                  "product designer",
	"ux designer":               "product designer",
	"ui designer":               "product designer",
}
