package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/utils"
)

// Fixed-window per-IP limits for the credential-sensitive endpoints.
const (
	loginRateLimit  = 5
	loginRateWindow = 15 * time.Minute

	registerRateLimit  = 3
	registerRateWindow = time.Hour

	resetRateLimit  = 3
	resetRateWindow = time.Hour

	// sweepThreshold bounds the hits map: once it grows past this size,
	// expired windows are purged on the next allow call.
	sweepThreshold = 1024
)

// rateLimiter is a fixed-window counter keyed by client identifier.
// Windows do not slide: the first hit opens a window, and the counter
// resets when it ends.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*hitWindow
}

type hitWindow struct {
	count       int
	windowStart time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*hitWindow),
	}
}

// allow records a hit for key and reports whether it fits the current
// window. When the limit is exceeded it returns the time remaining until
// the window resets.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.hits) > sweepThreshold {
		rl.sweep(now)
	}

	hw, ok := rl.hits[key]
	if !ok || now.Sub(hw.windowStart) >= rl.window {
		rl.hits[key] = &hitWindow{count: 1, windowStart: now}
		return true, 0
	}

	if hw.count >= rl.limit {
		return false, hw.windowStart.Add(rl.window).Sub(now)
	}

	hw.count++
	return true, 0
}

// sweep drops expired windows. Caller must hold mu.
func (rl *rateLimiter) sweep(now time.Time) {
	for key, hw := range rl.hits {
		if now.Sub(hw.windowStart) >= rl.window {
			delete(rl.hits, key)
		}
	}
}

// rateLimit wraps a route with rl, answering 429 with a Retry-After header
// once a client exhausts its window.
func (h *Handler) rateLimit(rl *rateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIdentifier(r)

			ok, retryAfter := rl.allow(key)
			if !ok {
				logger.FromRequest(r).Warn().
					Str("client", key).
					Dur("retryAfter", retryAfter).
					Msg("rate limit exceeded")

				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				utils.WriteMessage(w, "too many requests, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdentifier resolves the caller's IP, preferring proxy-set headers
// over the raw peer address.
func clientIdentifier(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
