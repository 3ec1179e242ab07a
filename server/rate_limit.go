package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
	}
}

// allow reports whether client may make a request at now. Idle clients are
// swept at most once per limiterIdleTimeout so the map stays bounded by recent
// traffic without a full scan on every request.
func (c *clientLimiter) allow(client string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSweep.IsZero() {
		c.lastSweep = now
	} else if now.Sub(c.lastSweep) >= limiterIdleTimeout {
		c.sweep(now)
	}

	e, ok := c.limiters[client]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.limiters[client] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (c *clientLimiter) sweep(now time.Time) {
	for key, e := range c.limiters {
		if now.Sub(e.lastSeen) > limiterIdleTimeout {
			delete(c.limiters, key)
		}
	}
	c.lastSweep = now
}

func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}
		client := clientIP(r)
		if !s.limiter.allow(client, s.now()) {
			log.Warn().Str("request_id", requestID(r)).Str("client", client).Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, "rate_limited", "too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
