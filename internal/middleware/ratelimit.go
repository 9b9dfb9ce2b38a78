// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter budgets admin API requests per client over a sliding window.
// For every client it keeps the times of the requests it admitted that are
// still inside the window, oldest first.
type RateLimiter struct {
	limit  int
	window time.Duration
	key    func(*http.Request) string
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// RateLimitOption configures a RateLimiter.
type RateLimitOption func(*RateLimiter)

// WithClientKey sets how requests are attributed to clients. The default
// is ClientIP(false).
func WithClientKey(key func(*http.Request) string) RateLimitOption {
	return func(rl *RateLimiter) { rl.key = key }
}

// NewRateLimiter admits limit requests per client in any window-long span.
// A background goroutine drops idle clients once per window until Stop.
func NewRateLimiter(limit int, window time.Duration, opts ...RateLimitOption) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		key:     ClientIP(false),
		now:     time.Now,
		clients: make(map[string][]time.Time),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// take admits one request for client. It returns the requests left in the
// budget and, when the request is refused, how long until the oldest
// admitted one leaves the window.
func (rl *RateLimiter) take(client string) (remaining int, wait time.Duration, ok bool) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := inWindow(rl.clients[client], now.Add(-rl.window))
	if len(hits) >= rl.limit {
		rl.clients[client] = hits
		return 0, hits[0].Add(rl.window).Sub(now), false
	}

	hits = append(hits, now)
	rl.clients[client] = hits
	return rl.limit - len(hits), 0, true
}

// sweep forgets clients with nothing left in the window.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for client, hits := range rl.clients {
		if len(inWindow(hits, cutoff)) == 0 {
			delete(rl.clients, client)
		}
	}
}

// inWindow drops the leading hits at or before cutoff.
func inWindow(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// Middleware enforces the budget. Every response carries X-RateLimit-Limit
// and X-RateLimit-Remaining; refused requests get a JSON 429 whose
// Retry-After is the whole number of seconds until a slot frees up.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(rl.limit)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := rl.key(r)
		remaining, wait, ok := rl.take(client)

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			h.Set("Retry-After", strconv.Itoa(retrySeconds(wait)))
			slog.Warn("admin rate limit exceeded", "client", client, "path", r.URL.Path, "retry_after", wait)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retrySeconds rounds d up to whole seconds, never below one.
func retrySeconds(d time.Duration) int {
	return max(int((d+time.Second-1)/time.Second), 1)
}

// ClientIP returns a client key function. With trustProxy the leftmost
// X-Forwarded-For address, then X-Real-IP, is preferred over the socket
// peer; without it those headers are ignored, since any caller can set them.
func ClientIP(trustProxy bool) func(*http.Request) string {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
			if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
				return xri
			}
		}
		return remoteHost(r)
	}
}

// remoteHost is the socket peer without its port.
func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
