package episodes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/middleware"
	"github.com/killallgit/podcastr-pages/api/types"
)

// RegisterRoutes registers episode data routes
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies) {
	// GET /api/v1/episodes/:slug - Page props of an episode
	router.GET("/episodes/:slug", middleware.ETag(), GetBySlug(deps))

	// GET /api/v1/paths - Pre-rendered paths
	router.GET("/paths", GetPaths(deps))
}
