package episodes

import (
	"context"

	"github.com/killallgit/podcastr-pages/internal/services/contentapi"
)

// EpisodeSource defines the upstream calls the loader depends on
type EpisodeSource interface {
	ListEpisodes(ctx context.Context, params contentapi.ListParams) ([]contentapi.EpisodeSummary, error)
	GetEpisode(ctx context.Context, id string) (*contentapi.EpisodeRecord, error)
}

// EpisodeLoader defines path enumeration and per-path data loading
type EpisodeLoader interface {
	StaticPaths(ctx context.Context) (*PathsResult, error)
	LoadEpisode(ctx context.Context, slug string) (*PageProps, error)
}

// Ensure the HTTP client satisfies EpisodeSource
var _ EpisodeSource = (*contentapi.Client)(nil)
