package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits per client IP.
type ClientLimiter struct {
	mu   sync.Mutex
	m    map[string]*clientEntry
	r    rate.Limit
	b    int
	idle time.Duration
}

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewClientLimiter returns nil when reqPerSec is not positive, which
// disables limiting.
func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	if reqPerSec <= 0 {
		return nil
	}
	return &ClientLimiter{
		m:    make(map[string]*clientEntry),
		r:    rate.Limit(reqPerSec),
		b:    burst,
		idle: 10 * time.Minute,
	}
}

func (cl *ClientLimiter) limiterFor(client string, now time.Time) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if e, ok := cl.m[client]; ok {
		e.seen = now
		return e.lim
	}
	// forget clients that went quiet so the map stays bounded
	for k, e := range cl.m {
		if now.Sub(e.seen) > cl.idle {
			delete(cl.m, k)
		}
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = &clientEntry{lim: lim, seen: now}
	return lim
}

func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiterFor(client, time.Now()).Allow()
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(cl *ClientLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if cl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				WriteError(w, r, http.StatusTooManyRequests, codeRateLimited, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
