package episodes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
	apperrors "github.com/killallgit/podcastr-pages/pkg/errors"
)

// GetPaths lists the pre-rendered episode paths
// @Summary      Pre-rendered paths
// @Description  The most recently published episodes, newest first, together with the fallback policy for other slugs
// @Tags         episodes
// @Produce      json
// @Success      200  {object}  types.PathsResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /api/v1/paths [get]
func GetPaths(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.Pages.Paths(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Enumerating paths: %v", err)
			types.SendError(c, apperrors.ExternalServiceError("content-api", err))
			return
		}

		response := types.PathsResponse{
			Paths:    make([]types.PathEntry, 0, len(result.Paths)),
			Fallback: string(result.Fallback),
		}
		for _, slug := range result.Slugs() {
			response.Paths = append(response.Paths, types.PathEntry{Params: types.PathParams{Slug: slug}})
		}

		types.SendSuccess(c, response)
	}
}
