package types

import "github.com/killallgit/podcastr-pages/internal/models"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// PagePropsResponse carries the props an episode page was rendered from
type PagePropsResponse struct {
	Episode models.Episode `json:"episode"`
}

// PathParams identifies one pre-rendered page
type PathParams struct {
	Slug string `json:"slug" example:"a-importancia-da-contribuicao-em-open-source"`
}

// PathEntry wraps the params of one pre-rendered page
type PathEntry struct {
	Params PathParams `json:"params"`
}

// PathsResponse lists the pre-rendered paths and the fallback policy
type PathsResponse struct {
	Paths    []PathEntry `json:"paths"`
	Fallback string      `json:"fallback" example:"blocking"`
}

// RevalidateResponse reports an on-demand regeneration
type RevalidateResponse struct {
	BaseResponse
	Revalidated bool   `json:"revalidated"`
	Slug        string `json:"slug" example:"a-importancia-da-contribuicao-em-open-source"`
	ETag        string `json:"etag"`
	GeneratedAt string `json:"generated_at" example:"2025-01-01T00:00:00Z"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Timestamp string                 `json:"timestamp"`
	Services  map[string]interface{} `json:"services,omitempty"`
}
