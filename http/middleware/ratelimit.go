package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitConfig tunes the fixed-window limiter. A zero Limit disables
// limiting entirely.
type RateLimitConfig struct {
	// Limit is the number of requests allowed per client per window.
	Limit int
	// Window is the counting interval. Defaults to one minute.
	Window time.Duration
}

// RateLimit rejects clients exceeding the configured request rate with a
// 429 and Retry-After. Clients are keyed by remote IP; counts live in a
// fixed window that resets when it elapses.
func RateLimit(cfg RateLimitConfig) func(next http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	limiter := &windowLimiter{
		limit:   cfg.Limit,
		window:  cfg.Window,
		clients: make(map[string]*windowCount),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			allowed, retryAfter := limiter.allow(clientKey(r))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type windowCount struct {
	count   int
	resetAt time.Time
}

type windowLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*windowCount
}

func (l *windowLimiter) allow(key string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.clients[key]
	if !ok || now.After(wc.resetAt) {
		l.clients[key] = &windowCount{count: 1, resetAt: now.Add(l.window)}
		l.sweep(now)
		return true, 0
	}

	if wc.count >= l.limit {
		return false, wc.resetAt.Sub(now)
	}
	wc.count++
	return true, 0
}

// sweep drops expired windows so idle clients do not accumulate. Runs
// under the lock on the cheap path of a fresh window.
func (l *windowLimiter) sweep(now time.Time) {
	if len(l.clients) < 1024 {
		return
	}
	for key, wc := range l.clients {
		if now.After(wc.resetAt) {
			delete(l.clients, key)
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
