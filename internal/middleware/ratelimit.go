package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/util"
	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
}

// WriteRateLimitConfig bounds engagement writes (toggles, comments,
// progress reports) per viewer
func WriteRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{Limit: perMinute, Window: time.Minute}
}

// tokenBucket refills continuously at refillRate tokens per second
type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

func (tb *tokenBucket) allow(now time.Time) bool {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *tokenBucket) retryAfter() int {
	if tb.tokens >= 1 {
		return 0
	}
	return int((1-tb.tokens)/tb.refillRate) + 1
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	now     func() time.Time
}

// NewRateLimiter creates a limiter with config
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
		now:     time.Now,
	}
}

// Allow takes a token for key and returns the seconds to wait when none is left
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &tokenBucket{
			tokens:     float64(rl.config.Limit),
			maxTokens:  float64(rl.config.Limit),
			refillRate: float64(rl.config.Limit) / rl.config.Window.Seconds(),
			lastRefill: now,
		}
		rl.buckets[key] = bucket
	}

	if bucket.allow(now) {
		return true, 0
	}
	return false, bucket.retryAfter()
}

// Prune drops buckets idle for longer than a window; they are full again
// by then anyway
func (rl *RateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.config.Window)
	for key, bucket := range rl.buckets {
		if bucket.lastRefill.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Middleware limits requests per authenticated user, or per client IP for
// anonymous viewers
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID := util.OptionalUserID(c); userID != 0 {
			key = "user:" + strconv.FormatUint(userID, 10)
		}

		if ok, retryAfter := rl.Allow(key); !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			metrics.RecordRateLimited(routeLabel(c))
			util.RespondRateLimited(c, "You are doing that too often. Please wait a moment.")
			return
		}
		c.Next()
	}
}
