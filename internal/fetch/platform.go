// Package fetch - platform.go provides platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known professional-network platform.
type Platform string

const (
	// PlatformLinkedIn is the LinkedIn platform
	PlatformLinkedIn Platform = "linkedin"
	// PlatformXing is the XING platform
	PlatformXing Platform = "xing"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the profile platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "linkedin.com") {
		return PlatformLinkedIn
	}
	if strings.Contains(host, "xing.com") {
		return PlatformXing
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{
			".scaffold-layout__main", // Primary logged-in layout
			".profile-content",
			".core-rail",
			"main",
			"#content",
		}
	case PlatformXing:
		return []string{
			"[data-testid='profile-page']",
			".profile-main",
			"main",
			".content",
		}
	default:
		return ProfilePageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Chrome around the profile
		"form",
		".global-nav",
		".msg-overlay-container",
		".ad-banner-container",
		"[data-testid='sidebar']",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformLinkedIn:
		return append(common,
			".scaffold-layout__aside",
			".right-rail",
			".feed-follows-module",
			"#similar-profiles",
		)
	case PlatformXing:
		return append(common,
			"[data-testid='ad-slot']",
			".sidebar-ads",
		)
	default:
		return common
	}
}
