package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/telemetry"
	"taskmanager/pkg/config"
)

// RateLimiter throttles per client IP with fixed windows per endpoint.
type RateLimiter struct {
	mu      sync.Mutex
	cache   *cache.Cache
	configs map[string]config.RateLimitConfig
	logger  *config.AppLogger
	metrics *telemetry.AppMetrics
}

// RateLimitEntry cache entry for rate limiting
type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

var defaultRateLimit = config.RateLimitConfig{
	Requests: 60,
	Window:   time.Minute,
}

func NewRateLimiter(cfg *config.AppConfig, logger *config.AppLogger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		configs: cfg.RateLimitConfigs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		limit, exists := rl.configs[methodPath]

		if !exists {
			limit = defaultRateLimit
		}

		key := fmt.Sprintf("ratelimit:%s:%s", methodPath, c.ClientIP())

		entry := rl.bump(key, limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit.Requests-entry.Count, 0)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(entry.ResetTime.Unix(), 10))

		if entry.Count > limit.Requests {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Logger.Ctx(c.Request.Context()).Warn("Rate limit exceeded",
				zap.String("path", methodPath),
				zap.String("client_ip", c.ClientIP()),
				zap.Int("count", entry.Count),
				zap.Int("limit", limit.Requests),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Message: "Too many requests",
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

// bump is a check-and-increment; the mutex keeps it atomic so concurrent
// requests cannot read the same count and lose increments.
func (rl *RateLimiter) bump(key string, limit config.RateLimitConfig) RateLimitEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(RateLimitEntry)

		if now.Before(entry.ResetTime) {
			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))
			return entry
		}
	}

	entry := RateLimitEntry{Count: 1, ResetTime: now.Add(limit.Window)}
	rl.cache.Set(key, entry, limit.Window)

	return entry
}
