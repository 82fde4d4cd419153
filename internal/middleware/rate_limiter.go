package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// Idle is how long an unused per-client bucket is kept.
	Idle    time.Duration
	Message string
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *cache.Cache
	onLimit  func(c *gin.Context)
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Idle <= 0 {
		config.Idle = 30 * time.Minute
	}
	if config.Message == "" {
		config.Message = "Too many requests, try again later"
	}
	return &RateLimiter{
		config:   config,
		limiters: cache.New(config.Idle, config.Idle),
	}
}

// OnLimit registers a hook called for every rejected request.
func (rl *RateLimiter) OnLimit(fn func(c *gin.Context)) *RateLimiter {
	rl.onLimit = fn
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, found := rl.limiters.Get(key); found {
		rl.limiters.Set(key, l, cache.DefaultExpiration)
		return l.(*rate.Limiter)
	}

	l := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same client.
		if existing, found := rl.limiters.Get(key); found {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

// RateLimit aborts with 429 once a client exhausts its bucket. A
// non-positive RPS disables limiting.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.RPS <= 0 {
			c.Next()
			return
		}

		if !rl.limiter(c.ClientIP()).Allow() {
			if rl.onLimit != nil {
				rl.onLimit(c)
			}
			c.Header("Retry-After", "60")
			abortWithError(c, http.StatusTooManyRequests, rl.config.Message)
			return
		}
		c.Next()
	}
}
