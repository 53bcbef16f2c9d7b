// Package api assembles the HTTP engine.
package api

import (
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/easeaico/moodtales/internal/handler"
	"github.com/easeaico/moodtales/internal/story"
)

// httpMetrics registers the gin request collectors once per process.
var httpMetrics = sync.OnceValue(func() *ginprometheus.Prometheus {
	return ginprometheus.NewPrometheus("moodtales_http")
})

// SetupRouter registers the page, API, health and metrics routes.
func SetupRouter(router *story.Router, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	engine := gin.New()

	// Recovery must run first so it sees panics from every later middleware.
	engine.Use(RecoverWithSentry(logger))
	engine.Use(SentryMiddleware())
	engine.Use(RequestTracking(logger))
	engine.Use(httpMetrics().HandlerFunc())

	engine.GET("/health", handler.HealthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handler.NewStoryHandler(router, logger)
	engine.GET("/", h.Home)
	engine.POST("/detect", h.Detect)
	engine.POST("/generate", h.Generate)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/emotions", h.DetectEmotion)
		v1.POST("/stories", h.CreateStory)
		v1.GET("/prompts", h.ListPrompts)
		v1.GET("/config", h.GetConfig)
	}

	return engine
}
