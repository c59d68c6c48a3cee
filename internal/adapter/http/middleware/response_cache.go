package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
	"taskmanager/pkg/config"
)

// ResponseCache caches successful GET responses behind port.CacheRepository,
// so the memory and redis backends are interchangeable. Any successful
// mutation flushes the cached entries for its path.
type ResponseCache struct {
	repo    port.CacheRepository
	configs map[string]config.CacheConfig
	logger  *config.AppLogger
	metrics *telemetry.AppMetrics
}

// CachedResponse is the serialized form stored in the cache backend.
type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewResponseCache(repo port.CacheRepository, cfg *config.AppConfig, logger *config.AppLogger, metrics *telemetry.AppMetrics) *ResponseCache {
	return &ResponseCache{
		repo:    repo,
		configs: cfg.CacheConfigs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		if c.Request.Method != http.MethodGet {
			c.Next()

			// A committed write makes every cached listing stale.
			if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
				rc.invalidate(c, path)
			}
			return
		}

		cacheConfig, exists := rc.configs[path]

		if !exists || !cacheConfig.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.cacheKey(c, path)

		if cached, ok := rc.lookup(c, cacheKey); ok {
			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(c.Request.Context(), path)
			}

			for key, values := range cached.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}

			c.Header("X-Cache", "HIT")
			c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			rc.store(c, cacheKey, CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}, cacheConfig.TTL)

			c.Header("X-Cache", "MISS")
		}
	}
}

func (rc *ResponseCache) lookup(c *gin.Context, key string) (CachedResponse, bool) {
	data, err := rc.repo.Get(c.Request.Context(), key)

	if err != nil {
		rc.logger.Logger.Ctx(c.Request.Context()).Warn("Cache lookup failed",
			zap.String("key", key), zap.Error(err))
		return CachedResponse{}, false
	}

	if data == nil {
		return CachedResponse{}, false
	}

	var cached CachedResponse

	if err := json.Unmarshal(data, &cached); err != nil {
		return CachedResponse{}, false
	}

	return cached, true
}

func (rc *ResponseCache) store(c *gin.Context, key string, cached CachedResponse, ttl time.Duration) {
	data, err := json.Marshal(cached)

	if err != nil {
		return
	}

	if err := rc.repo.Set(c.Request.Context(), key, data, ttl); err != nil {
		rc.logger.Logger.Ctx(c.Request.Context()).Warn("Cache store failed",
			zap.String("key", key), zap.Error(err))
	}
}

func (rc *ResponseCache) invalidate(c *gin.Context, path string) {
	// PUT/DELETE paths carry the :id segment; listings are cached under the
	// collection path, so strip down to it before flushing.
	prefix := "cache:/api/tasks"

	if err := rc.repo.DeleteByPrefix(c.Request.Context(), prefix); err != nil {
		rc.logger.Logger.Ctx(c.Request.Context()).Warn("Cache invalidation failed",
			zap.String("path", path), zap.Error(err))
	}
}

func (rc *ResponseCache) cacheKey(c *gin.Context, path string) string {
	keyString := path

	if c.Request.URL.RawQuery != "" {
		keyString = keyString + "|" + c.Request.URL.RawQuery
	}

	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

// responseWriter buffers the body so it can be stored after the handler ran.
type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
