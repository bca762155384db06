package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiter applies a per-client token bucket to the predict endpoint.
// Buckets are keyed by remote IP and created on first sight; the map is never
// pruned, which is fine for the request volumes this service sees.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newClientLimiter creates a limiter allowing perHour requests per client
// with the given burst.
func newClientLimiter(perHour, burst int) *clientLimiter {
	if perHour <= 0 {
		perHour = 100
	}
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perHour) / 3600.0),
		burst:    burst,
	}
}

// allow reports whether the client may proceed.
func (c *clientLimiter) allow(clientIP string) bool {
	c.mu.Lock()
	limiter, ok := c.limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[clientIP] = limiter
	}
	c.mu.Unlock()
	return limiter.Allow()
}

// rateLimited wraps a handler with the per-client limit, answering 429 when
// the budget is exhausted.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiter.allow(ip) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		next(w, r)
	}
}
