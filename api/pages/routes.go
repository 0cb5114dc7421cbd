package pages

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/middleware"
	"github.com/killallgit/podcastr-pages/api/types"
)

// RegisterRoutes registers the episode page route and its static assets
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies) {
	router.GET("/episodes/:slug", middleware.ETag(), Get(deps))

	if deps.Assets != nil {
		asset := Asset(deps)
		for _, name := range deps.Assets.Names() {
			router.GET("/"+name, asset)
		}
	}
}
