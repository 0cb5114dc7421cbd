package pages

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// Asset serves one embedded static file
// @Summary      Static asset
// @Description  Icons and stylesheet referenced by episode pages, gzipped when accepted
// @Tags         pages
// @Produce      image/svg+xml,text/css
// @Success      200  {string}  string  "Asset content"
// @Failure      404  {string}  string  "Unknown asset"
// @Router       /play.svg [get]
// @Router       /arrow-left.svg [get]
// @Router       /episode.css [get]
func Asset(deps *types.Dependencies) gin.HandlerFunc {
	return gin.WrapH(deps.Assets)
}
