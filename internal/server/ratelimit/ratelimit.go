// Package ratelimit throttles API clients with per-endpoint token buckets.
package ratelimit

import (
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Info reports the limit state for a single decision. RetryAfter is zero
// unless the request was denied.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket. Tokens accrue continuously at rate per second up
// to capacity; each allowed request spends one.
type bucket struct {
	tokens   float64
	capacity float64
	rate     float64
	refilled time.Time
	lastUsed time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = math.Min(b.capacity, b.tokens+now.Sub(b.refilled).Seconds()*b.rate)
	b.refilled = now
}

// resetAt reports when the bucket will be full again.
func (b *bucket) resetAt(now time.Time) time.Time {
	if b.tokens >= b.capacity {
		return now
	}
	wait := (b.capacity - b.tokens) / b.rate
	return now.Add(time.Duration(wait * float64(time.Second)))
}

// Limiter tracks one bucket per client+endpoint+method combination and
// periodically drops buckets that have gone idle.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter for the given configuration. A nil config
// gets a permissive default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.sweep(config.CleanupInterval)
	}
	return l
}

// Allow decides whether a request from clientID to the given path and method
// may proceed, and returns the limit state to surface in response headers.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ec := l.match(path, method)
	if ec.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + path + ":" + method
	now := time.Now()

	l.mu.Lock()
	b := l.buckets[key]
	if b == nil {
		capacity := ec.Burst
		if capacity <= 0 {
			capacity = ec.Limit
		}
		b = &bucket{
			tokens:   float64(capacity),
			capacity: float64(capacity),
			rate:     float64(ec.Limit) / ec.Window.Seconds(),
			refilled: now,
		}
		l.buckets[key] = b
	}
	b.refill(now)
	b.lastUsed = now

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	remaining := int(b.tokens)
	reset := b.resetAt(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     ec.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if wait := time.Until(reset); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return allowed, info
}

// match picks the endpoint configuration for a request. Exact path matches
// win over prefix entries (paths ending in "/"); unmatched requests fall back
// to the global default.
func (l *Limiter) match(path, method string) *EndpointConfig {
	// The health check stays unthrottled so probes never get a 429.
	if path == "/health" && method == http.MethodGet {
		return &EndpointConfig{}
	}

	for i := range l.config.EndpointConfigs {
		ec := &l.config.EndpointConfigs[i]
		if ec.Method == method && ec.Path == path {
			return ec
		}
	}
	for i := range l.config.EndpointConfigs {
		ec := &l.config.EndpointConfigs[i]
		if ec.Method == method && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			return ec
		}
	}
	return &EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}
}

func (l *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			l.dropIdle(now.Add(-time.Hour))
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastUsed.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the background sweeper.
func (l *Limiter) Stop() {
	if l.stop != nil {
		close(l.stop)
	}
}
