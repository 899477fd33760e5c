package ratelimit

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ClientLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewClientLimiter(config Config) *ClientLimiter {
	if config.RequestsPerSecond <= 0 {
		config = DefaultConfig()
	}
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func (c *ClientLimiter) GetLimiter(client string) *rate.Limiter {
	c.mu.RLock()
	limiter, exists := c.limiters[client]
	c.mu.RUnlock()

	if exists {
		return limiter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists = c.limiters[client]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(c.defaults.RequestsPerSecond), c.defaults.BurstSize)
	c.limiters[client] = limiter
	return limiter
}

// Allow reports whether the named client may make another request now.
func (c *ClientLimiter) Allow(client string) bool {
	return c.GetLimiter(client).Allow()
}

// Middleware rejects requests over the per-client budget with 429. Clients
// are keyed by remote IP.
func (c *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !c.Allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		ctx.Next()
	}
}
