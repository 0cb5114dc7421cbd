package episodes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/pages"
	"github.com/killallgit/podcastr-pages/api/types"
	apperrors "github.com/killallgit/podcastr-pages/pkg/errors"
)

// GetBySlug returns the props an episode page was rendered from
// @Summary      Episode page props
// @Description  Returns the episode data behind a pre-rendered page, generating the page first when needed
// @Tags         episodes
// @Produce      json
// @Param        slug  path      string  true  "Episode slug"
// @Success      200   {object}  types.PagePropsResponse
// @Success      304   {string}  string  "Not modified"
// @Failure      404   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/v1/episodes/{slug} [get]
func GetBySlug(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, ok := types.SlugParam(c)
		if !ok {
			return
		}

		page, status, err := deps.Pages.Serve(c.Request.Context(), slug)
		if err != nil {
			appErr := types.PageError(slug, err)
			if appErr.GetHTTPCode() >= http.StatusInternalServerError {
				log.Printf("[ERROR] Loading props of %s: %v", slug, err)
			}
			types.SendError(c, appErr)
			return
		}

		episode, err := page.Props()
		if err != nil {
			log.Printf("[ERROR] Decoding props of %s: %v", slug, err)
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "stored page props are unreadable"))
			return
		}

		c.Header(pages.CacheHeader, string(status))
		c.Header("Cache-Control", pages.CacheControl(deps.Revalidate))
		types.SendSuccess(c, types.PagePropsResponse{Episode: episode})
	}
}
