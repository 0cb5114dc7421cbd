package revalidate

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// RegisterRoutes registers the on-demand revalidation route; it stays
// unregistered while no token is configured
func RegisterRoutes(router gin.IRouter, deps *types.Dependencies) {
	if deps.RevalidateToken == "" {
		return
	}
	router.POST("/revalidate/:slug", Post(deps))
}
