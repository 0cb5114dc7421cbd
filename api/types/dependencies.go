package types

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/killallgit/podcastr-pages/internal/database"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/cache"
	"github.com/killallgit/podcastr-pages/internal/services/episodes"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	"github.com/killallgit/podcastr-pages/internal/static"
)

// PageService builds and serves episode pages
type PageService interface {
	Paths(ctx context.Context) (*episodes.PathsResult, error)
	Serve(ctx context.Context, slug string) (*models.Page, pages.CacheStatus, error)
	Revalidate(ctx context.Context, slug string) (*models.Page, error)
}

// ErrorPageRenderer writes HTML error pages
type ErrorPageRenderer interface {
	RenderError(w io.Writer, status int, message string) error
}

// AssetServer serves named static files
type AssetServer interface {
	http.Handler
	Names() []string
}

var (
	_ PageService = (*pages.Generator)(nil)
	_ AssetServer = (*static.Assets)(nil)
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB              *database.DB
	Pages           PageService
	ErrorPages      ErrorPageRenderer
	Assets          AssetServer
	CacheStats      cache.StatsProvider
	Revalidate      time.Duration
	RevalidateToken string
	Version         VersionInfo
}

// VersionInfo describes the running build
type VersionInfo struct {
	Version   string `json:"version" example:"1.0.0"`
	GitCommit string `json:"commit" example:"abc1234"`
	BuildTime string `json:"build_time" example:"2025-01-01T00:00:00Z"`
}
