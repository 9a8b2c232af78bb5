// Package textutil provides pure string utilities for email extraction,
// HTML escaping, and URL sanitization. All functions are total: malformed
// input yields an empty result, never a panic or error.
package textutil

import (
	"net/url"
	"regexp"
	"strings"
)

// emailPattern is an RFC-5322-lite address matcher: dots, underscores, plus
// and hyphen in the local part, a dotted domain, and a TLD of at least two
// letters. Addresses without a TLD ("user@host") do not match, and a
// trailing dot is not consumed.
var emailPattern = regexp.MustCompile(`(?i)[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the first email address found in text, in document
// order, or "" when none is present.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// htmlEscapes lists replacements in application order. Ampersand is first so
// already-produced entities are not double-escaped within one pass.
var htmlEscapes = []struct {
	from string
	to   string
}{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{`"`, "&quot;"},
	{"'", "&#39;"},
	{"/", "&#x2F;"},
}

// EscapeHTML replaces the HTML special characters & < > " ' / with entity
// references. Empty input returns "".
func EscapeHTML(text string) string {
	for _, e := range htmlEscapes {
		text = strings.ReplaceAll(text, e.from, e.to)
	}
	return text
}

// SanitizeURL parses raw and returns the normalized absolute URL when the
// scheme is exactly http or https. Any other scheme, or invalid URL syntax,
// returns "".
func SanitizeURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
