package routes

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/handler"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
	"taskmanager/pkg/config"
)

type HandlersConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig(), nil)
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig, cacheRepo port.CacheRepository) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	middleware.Setup(router, "taskmanager", metrics, logger)

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg, logger, metrics)
		router.Use(limiter.Middleware())
	}

	if cfg.CacheEnabled && cacheRepo != nil {
		responseCache := middleware.NewResponseCache(cacheRepo, cfg, logger, metrics)
		router.Use(responseCache.Middleware())
	}

	setupTaskRoutes(router, handlers.TaskHandler)

	if handlers.HealthHandler != nil {
		router.GET("/healthz", handlers.HealthHandler.Check)
	}

	return router
}

func setupTaskRoutes(router *gin.Engine, taskHandler *handler.TaskHandler) {
	api := router.Group("/api")
	{
		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.PUT("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests wires the routes with none of the operational
// middleware, so handler tests exercise only the request contract.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupTaskRoutes(router, handlers.TaskHandler)

	if handlers.HealthHandler != nil {
		router.GET("/healthz", handlers.HealthHandler.Check)
	}

	return router
}
