package security

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter grants each client a fixed budget of requests per window.
// Buckets refill all at once when the window elapses.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	budget  int
	window  time.Duration
}

type bucket struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows budget requests per window for each client key.
func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		budget:  budget,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether a request under the given key fits the budget,
// consuming one unit when it does.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{remaining: rl.budget, resetAt: now.Add(rl.window)}
		rl.buckets[key] = b
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// sweep drops buckets that have been idle past their reset time so the
// map does not grow without bound.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if now.Sub(b.resetAt) > rl.window {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// GetClientIP returns the originating client address, preferring proxy
// headers over the socket address.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the original client when multiple proxies append.
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
