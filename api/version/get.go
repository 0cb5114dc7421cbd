package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// Get handles version requests
// @Summary      Service information
// @Description  Name, version and build details of the running service
// @Tags         version
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	var info types.VersionInfo
	if deps != nil {
		info = deps.Version
	}
	if info.Version == "" {
		info.Version = "dev"
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Podcastr Pages",
			"version":     info.Version,
			"commit":      info.GitCommit,
			"build_time":  info.BuildTime,
			"description": "Pre-rendered podcast episode pages",
			"status":      "running",
		})
	}
}
