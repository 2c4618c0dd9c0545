package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting implementations.
type RateLimiter interface {
	// Allow checks if a request with the given key is allowed.
	// Returns whether the request is allowed and current rate limit info.
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo contains current rate limit state for a given key.
type RateLimitInfo struct {
	// Limit is the bucket size.
	Limit int
	// Remaining is the number of requests that may be made immediately.
	Remaining int
	// RetryAfter is how long to wait for the next token when denied.
	RetryAfter time.Duration
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the rate limit key from a request.
	// If nil, the client IP is used.
	KeyFunc func(c *gin.Context) string
	// SkipPaths are paths that bypass rate limiting.
	SkipPaths []string
}

// ─────────────────────────────────────────────────────────────────────────────
// Keyed limiter
// ─────────────────────────────────────────────────────────────────────────────

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter implements RateLimiter with one token bucket per key.
type KeyedLimiter struct {
	rate            rate.Limit
	burst           int
	idleTTL         time.Duration
	mu              sync.Mutex
	entries         map[string]*limiterEntry
	now             func() time.Time
	stopCleanup     chan struct{}
	stopCleanupOnce sync.Once
}

// NewKeyedLimiter creates a limiter allowing rps requests per second with the
// given burst for each key.  Buckets idle for longer than idleTTL are evicted
// by a background goroutine when idleTTL > 0; call Stop to end it.
func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	l := &KeyedLimiter{
		rate:        rate.Limit(rps),
		burst:       burst,
		idleTTL:     idleTTL,
		entries:     make(map[string]*limiterEntry),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	if idleTTL > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes one token from key's bucket if available.
func (l *KeyedLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	info := RateLimitInfo{Limit: l.burst}
	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, info
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		info.RetryAfter = delay
		return false, info
	}
	info.Remaining = int(e.limiter.TokensAt(now))
	return true, info
}

func (l *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *KeyedLimiter) cleanup() {
	threshold := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastSeen.Before(threshold) {
			delete(l.entries, key)
		}
	}
}

// Stop ends the background cleanup goroutine.
func (l *KeyedLimiter) Stop() {
	l.stopCleanupOnce.Do(func() { close(l.stopCleanup) })
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// RateLimit returns middleware that enforces limiter.  Denied requests get
// 429 with a Retry-After header.
func RateLimit(limiter RateLimiter, config RateLimitConfig) gin.HandlerFunc {
	skipSet := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skipSet[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		if skipSet[c.Request.URL.Path] {
			c.Next()
			return
		}

		allowed, info := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

		if !allowed {
			retryAfter := int(info.RetryAfter.Seconds() + 0.999)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":       "RATE_LIMITED",
				"message":    "rate limit exceeded, please retry later",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

//Personal.AI order the ending
