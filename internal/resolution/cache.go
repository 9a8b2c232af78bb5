// Package resolution discovers an email address for the current profile by
// trying successively more expensive sources, caching the result for the
// page it was found on.
package resolution

import "sync"

// Cache is a single-slot, process-lifetime cache mapping one profile URL to
// the email found for it. It is never persisted; a navigation to a different
// URL simply misses.
type Cache struct {
	mu         sync.Mutex
	profileURL string
	email      string
	valid      bool
}

// Lookup returns the cached email when url matches the cached profile URL.
func (c *Cache) Lookup(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.profileURL != url {
		return "", false
	}
	return c.email, true
}

// Store replaces the slot with url's email.
func (c *Cache) Store(url, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profileURL = url
	c.email = email
	c.valid = true
}

// Clear empties the slot. Used when the caller knows the page context changed
// in a way the URL comparison won't catch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profileURL = ""
	c.email = ""
	c.valid = false
}
