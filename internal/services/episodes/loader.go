package episodes

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/killallgit/podcastr-pages/internal/locale"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/contentapi"
)

const (
	// DefaultPrebuildCount is how many recent episodes are generated ahead of requests
	DefaultPrebuildCount = 2
	// DefaultRevalidate is how long a generated page stays fresh
	DefaultRevalidate = 24 * time.Hour

	sortByPublishedAt = "published_at"
)

// Fallback decides what happens to slugs that were not enumerated
type Fallback string

const (
	// FallbackBlocking generates unknown slugs on first request and keeps them
	FallbackBlocking Fallback = "blocking"
	// FallbackFalse answers unknown slugs with not found
	FallbackFalse Fallback = "false"
)

// ParseFallback converts a configuration value into a Fallback
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case FallbackBlocking, FallbackFalse:
		return Fallback(s), nil
	default:
		return "", fmt.Errorf("unknown fallback %q", s)
	}
}

// PathParams identifies one episode page
type PathParams struct {
	Slug string `json:"slug"`
}

// Path wraps the params of one enumerated page
type Path struct {
	Params PathParams `json:"params"`
}

// PathsResult is the output of path enumeration
type PathsResult struct {
	Paths    []Path   `json:"paths"`
	Fallback Fallback `json:"fallback"`
}

// Slugs returns the enumerated slugs in order
func (r *PathsResult) Slugs() []string {
	slugs := make([]string, 0, len(r.Paths))
	for _, p := range r.Paths {
		slugs = append(slugs, p.Params.Slug)
	}
	return slugs
}

// PageProps is the data of one page and how long it stays fresh
type PageProps struct {
	Episode    models.Episode `json:"episode"`
	Revalidate time.Duration  `json:"-"`
}

// Loader enumerates episode paths and loads page props from the content API
type Loader struct {
	source        EpisodeSource
	locale        *locale.Locale
	location      *time.Location
	prebuildCount int
	revalidate    time.Duration
	fallback      Fallback
}

// LoaderOption is a functional option for configuring the loader
type LoaderOption func(*Loader)

// WithLocale sets the locale used for publication dates
func WithLocale(l *locale.Locale) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.locale = l
		}
	}
}

// WithLocation sets the time zone naive timestamps are read in
func WithLocation(loc *time.Location) LoaderOption {
	return func(ld *Loader) {
		if loc != nil {
			ld.location = loc
		}
	}
}

// WithPrebuildCount sets how many recent episodes are enumerated
func WithPrebuildCount(n int) LoaderOption {
	return func(ld *Loader) {
		if n > 0 {
			ld.prebuildCount = n
		}
	}
}

// WithRevalidate sets the freshness window of generated pages
func WithRevalidate(d time.Duration) LoaderOption {
	return func(ld *Loader) {
		if d > 0 {
			ld.revalidate = d
		}
	}
}

// WithFallback sets the policy for slugs outside the enumerated list
func WithFallback(f Fallback) LoaderOption {
	return func(ld *Loader) {
		if f != "" {
			ld.fallback = f
		}
	}
}

// NewLoader creates a loader with optional configuration
func NewLoader(source EpisodeSource, opts ...LoaderOption) *Loader {
	ld := &Loader{
		source:        source,
		locale:        locale.Default(),
		location:      time.UTC,
		prebuildCount: DefaultPrebuildCount,
		revalidate:    DefaultRevalidate,
		fallback:      FallbackBlocking,
	}

	for _, opt := range opts {
		opt(ld)
	}

	return ld
}

// Fallback returns the configured fallback policy
func (l *Loader) Fallback() Fallback {
	return l.fallback
}

// Revalidate returns the configured freshness window
func (l *Loader) Revalidate() time.Duration {
	return l.revalidate
}

// StaticPaths lists the most recently published episodes, newest first
func (l *Loader) StaticPaths(ctx context.Context) (*PathsResult, error) {
	summaries, err := l.source.ListEpisodes(ctx, contentapi.ListParams{
		Limit: l.prebuildCount,
		Sort:  sortByPublishedAt,
		Order: contentapi.OrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("listing recent episodes: %w", err)
	}

	result := &PathsResult{
		Paths:    make([]Path, 0, len(summaries)),
		Fallback: l.fallback,
	}
	for _, s := range summaries {
		slug := strings.TrimSpace(string(s.ID))
		if slug == "" {
			continue
		}
		result.Paths = append(result.Paths, Path{Params: PathParams{Slug: slug}})
	}

	return result, nil
}

// LoadEpisode fetches one episode and maps it to page props
func (l *Loader) LoadEpisode(ctx context.Context, slug string) (*PageProps, error) {
	record, err := l.source.GetEpisode(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching episode %s: %w", slug, err)
	}

	episode, err := l.toEpisode(record)
	if err != nil {
		return nil, fmt.Errorf("transforming episode %s: %w", slug, err)
	}

	return &PageProps{
		Episode:    episode,
		Revalidate: l.revalidate,
	}, nil
}

func (l *Loader) toEpisode(record *contentapi.EpisodeRecord) (models.Episode, error) {
	publishedAt, err := FormatPublishedAt(record.PublishedAt, l.locale, l.location)
	if err != nil {
		return models.Episode{}, err
	}

	duration := float64(record.File.Duration)
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration > MaxDurationSeconds {
		return models.Episode{}, fmt.Errorf("duration %v is out of range", duration)
	}
	if duration < 0 {
		duration = 0
	}

	return models.Episode{
		ID:               string(record.ID),
		Title:            record.Title,
		Thumbnail:        record.Thumbnail,
		Members:          record.Members,
		PublishedAt:      publishedAt,
		Duration:         duration,
		DurationAsString: FormatDuration(duration),
		Description:      record.Description,
		URL:              record.File.URL,
	}, nil
}
