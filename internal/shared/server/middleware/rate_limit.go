package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/shared/server/respond"
)

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
// A zero rule never limits.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

func (r RateLimitRule) enabled() bool { return r.Rate > 0 && r.Burst > 0 }

// RateLimitConfig holds the two budgets the API enforces. Reads, deletes and
// type lookups share Default per caller. Uploads draw from Upload, with one
// bucket per caller and owning record, so a large batch for one record does
// not starve list refreshes.
type RateLimitConfig struct {
	Default RateLimitRule
	Upload  RateLimitRule
	Limiter *RateLimiter
}

// RateLimiter holds token buckets by key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
	// idleTTL is how long an untouched bucket is kept before it is swept.
	idleTTL   time.Duration
	lastSweep time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter constructs a limiter; now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets:   make(map[string]*rateBucket),
		now:       now,
		idleTTL:   10 * time.Minute,
		lastSweep: now(),
	}
}

// RateLimit rejects requests over budget with 429, a Retry-After header and
// retryAfterMs in the error details.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		caller := strings.TrimSpace(PrincipalFromContext(c))
		if caller == "" {
			caller = c.ClientIP()
		}

		rule, key := cfg.Default, "read|"+caller
		if isUpload(c) {
			rule, key = cfg.Upload, "upload|"+caller+"|"+c.Param("ownerId")
		}
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}

		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryAfterMs)/1000.0))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, retry later", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

func isUpload(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/owners/:ownerId/documents")
}

// Allow consumes a token for key and otherwise reports the wait until the next one.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || !rule.enabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}

// Len reports how many buckets are held.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets idle for longer than idleTTL. Caller holds mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.last) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
