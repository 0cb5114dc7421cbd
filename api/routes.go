package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/podcastr-pages/api/episodes"
	"github.com/killallgit/podcastr-pages/api/health"
	"github.com/killallgit/podcastr-pages/api/pages"
	"github.com/killallgit/podcastr-pages/api/revalidate"
	"github.com/killallgit/podcastr-pages/api/types"
	"github.com/killallgit/podcastr-pages/api/version"
	_ "github.com/killallgit/podcastr-pages/docs/swagger"
)

// RegisterRoutes registers all routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limits RateLimitSettings, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil || deps.Pages == nil {
		return errors.New("page service is not configured")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler(deps))

	limit := func(group string, rps, burst int) []gin.HandlerFunc {
		if !limits.Enabled {
			return nil
		}
		return []gin.HandlerFunc{
			RateGroup(group),
			PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst),
		}
	}

	// Episode pages and their assets
	pageGroup := engine.Group("/", limit("pages", limits.RPS, limits.Burst)...)
	pages.RegisterRoutes(pageGroup, deps)

	// API v1 routes
	v1 := engine.Group("/api/v1", limit("api", limits.RPS, limits.Burst)...)
	episodes.RegisterRoutes(v1, deps)

	// Revalidation regenerates pages, so it gets a tighter limit (1 req/s, burst of 2)
	adminGroup := engine.Group("/api/v1", limit("revalidate", 1, 2)...)
	revalidate.RegisterRoutes(adminGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors, with an HTML page outside the JSON API
func NotFoundHandler(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			pages.RenderError(c, deps, http.StatusNotFound)
			return
		}

		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
