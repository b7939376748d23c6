package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.  Zero disables
	// limiting.
	RequestsPerSecond float64
	// BurstSize is the bucket depth.
	BurstSize int
	// KeyFunc extracts the client key.  Defaults to the client IP.
	KeyFunc func(c *gin.Context) string
	// SkipPaths bypass limiting.
	SkipPaths []string
	// IdleTTL evicts limiters unused for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the defaults used when only the rate is
// configured.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiters keeps one token bucket per client key.
type ClientLimiters struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

// NewClientLimiters creates the per-client limiter set.
func NewClientLimiters(rps float64, burst int, ttl time.Duration) *ClientLimiters {
	if burst <= 0 {
		burst = int(math.Ceil(rps))
		if burst <= 0 {
			burst = 1
		}
	}
	return &ClientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// Reserve takes a token for key.  When none is available it returns false
// and how long the client should wait.
func (l *ClientLimiters) Reserve(key string) (bool, time.Duration, int) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ttl > 0 && now.Sub(l.lastSweep) >= l.ttl {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) >= l.ttl {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now

	r := cl.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, 0
	}
	return true, 0, int(cl.limiter.TokensAt(now))
}

// Len reports how many clients are tracked.
func (l *ClientLimiters) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects clients that exceed their token bucket with 429 and a
// Retry-After header.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	if config.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	limiters := NewClientLimiters(config.RequestsPerSecond, config.BurstSize, config.IdleTTL)
	limit := strconv.Itoa(limiters.burst)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		ok, wait, remaining := limiters.Reserve(keyFunc(c))
		c.Header("X-RateLimit-Limit", limit)
		if !ok {
			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "rate limit exceeded, retry after " + strconv.Itoa(retryAfter) + "s",
				},
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

//Personal.AI order the ending
