package revalidate

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// Post regenerates an episode page on demand
// @Summary      Revalidate a page
// @Description  Regenerates the page of an episode now instead of waiting for its revalidation time
// @Tags         pages
// @Produce      json
// @Security     ApiKeyAuth
// @Param        slug  path      string  true  "Episode slug"
// @Success      200   {object}  types.RevalidateResponse
// @Failure      401   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/v1/revalidate/{slug} [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorized(c.GetHeader("Authorization"), deps.RevalidateToken) {
			types.SendUnauthorized(c, "A valid revalidation token is required")
			return
		}

		slug, ok := types.SlugParam(c)
		if !ok {
			return
		}

		page, err := deps.Pages.Revalidate(c.Request.Context(), slug)
		if err != nil {
			appErr := types.PageError(slug, err)
			if appErr.GetHTTPCode() >= http.StatusInternalServerError {
				log.Printf("[ERROR] Revalidating %s: %v", slug, err)
			}
			types.SendError(c, appErr)
			return
		}

		log.Printf("[INFO] Revalidated page %s on demand", slug)
		types.SendSuccess(c, types.RevalidateResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Revalidated:  true,
			Slug:         page.Slug,
			ETag:         page.ETag,
			GeneratedAt:  page.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}
}

// authorized checks a "Bearer <token>" header against token
func authorized(header, token string) bool {
	if token == "" {
		return false
	}
	given, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), []byte(token)) == 1
}
