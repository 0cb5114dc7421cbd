package types

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	apperrors "github.com/killallgit/podcastr-pages/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// SlugParam extracts the slug URL parameter
// Returns false and sends a JSON not found response when it is blank
func SlugParam(c *gin.Context) (string, bool) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		SendError(c, apperrors.NotFound("episode", slug))
		return "", false
	}
	return slug, true
}

// PageError maps a page generation failure to an application error
func PageError(slug string, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case pages.IsNotFound(err):
		return apperrors.NotFound("episode", slug)
	case errors.Is(err, pages.ErrRender):
		return apperrors.RenderError(slug, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeAPITimeout, "generating page timed out").
			WithDetail("slug", slug)
	default:
		appErr = apperrors.Wrap(err, apperrors.ErrCodeInternal, "generating page failed").
			WithDetail("slug", slug)
		return appErr
	}
}

// SendError sends a standardized JSON error response for err
// Errors that carry no application error code are reported as internal
func SendError(c *gin.Context, err error) {
	response := ErrorResponse{
		Status:  StatusError,
		Message: "internal error",
		Error:   string(apperrors.GetCode(err)),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		if len(appErr.Details) > 0 {
			response.Details = appErr.Details
		}
	}
	c.JSON(apperrors.GetHTTPCode(err), response)
}

// SendUnauthorized sends a standardized unauthorized response
func SendUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Status:  StatusError,
		Message: message,
		Error:   string(apperrors.ErrCodeUnauthorized),
	})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
