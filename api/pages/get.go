package pages

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

const (
	// CacheHeader reports whether a page was served fresh, stale or generated
	CacheHeader = "X-Page-Cache"

	defaultRevalidate = 24 * time.Hour
)

// Get serves the rendered episode page
// @Summary      Episode page
// @Description  Returns the pre-rendered HTML page of an episode. Pages past their revalidation time are served stale while they regenerate in the background.
// @Tags         pages
// @Produce      html
// @Param        slug           path    string  true   "Episode slug"
// @Param        If-None-Match  header  string  false  "ETag of a cached copy"
// @Success      200  {string}  string  "Rendered page"
// @Success      304  {string}  string  "Not modified"
// @Failure      404  {string}  string  "Episode not found"
// @Failure      500  {string}  string  "Generation failed"
// @Router       /episodes/{slug} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))

		page, status, err := deps.Pages.Serve(c.Request.Context(), slug)
		if err != nil {
			appErr := types.PageError(slug, err)
			if appErr.GetHTTPCode() >= http.StatusInternalServerError {
				log.Printf("[ERROR] Serving page %s: %v", slug, err)
			}
			RenderError(c, deps, appErr.GetHTTPCode())
			return
		}

		c.Header(CacheHeader, string(status))
		c.Header("ETag", page.ETag)
		c.Header("Last-Modified", page.GeneratedAt.UTC().Format(http.TimeFormat))
		c.Header("Cache-Control", CacheControl(deps.Revalidate))
		c.Data(http.StatusOK, "text/html; charset=utf-8", page.HTML)
	}
}

// CacheControl lets shared caches keep a page for the revalidation window and
// serve it stale while it is refreshed
func CacheControl(revalidate time.Duration) string {
	if revalidate <= 0 {
		revalidate = defaultRevalidate
	}
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate", int64(revalidate.Seconds()))
}

// RenderError writes the HTML error page for status
func RenderError(c *gin.Context, deps *types.Dependencies, status int) {
	c.Header("Cache-Control", "no-store")

	message := http.StatusText(status)
	if deps == nil || deps.ErrorPages == nil {
		c.String(status, message)
		return
	}

	var buf bytes.Buffer
	if err := deps.ErrorPages.RenderError(&buf, status, message); err != nil {
		log.Printf("[ERROR] Rendering error page: %v", err)
		c.String(status, message)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
