package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports service status along with the database and page cache
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Services:     map[string]interface{}{},
		}
		code := http.StatusOK

		dbStatus := getDatabaseStatus(deps)
		response.Services["database"] = dbStatus
		if dbStatus["status"] == "unhealthy" {
			response.Status = types.StatusError
			response.Message = "database unavailable"
			code = http.StatusServiceUnavailable
		}

		if deps != nil && deps.CacheStats != nil {
			stats := deps.CacheStats.Stats()
			response.Services["page_cache"] = gin.H{
				"status":  "healthy",
				"entries": stats.Entries,
				"hits":    stats.Hits,
				"misses":  stats.Misses,
				"size":    stats.Size,
			}
		}

		c.JSON(code, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy"}
}
