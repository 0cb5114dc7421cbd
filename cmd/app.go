package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/killallgit/podcastr-pages/internal/database"
	"github.com/killallgit/podcastr-pages/internal/locale"
	"github.com/killallgit/podcastr-pages/internal/render"
	"github.com/killallgit/podcastr-pages/internal/services/cache"
	"github.com/killallgit/podcastr-pages/internal/services/cleanup"
	"github.com/killallgit/podcastr-pages/internal/services/contentapi"
	"github.com/killallgit/podcastr-pages/internal/services/episodes"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	"github.com/killallgit/podcastr-pages/internal/static"
	"github.com/killallgit/podcastr-pages/pkg/config"
)

// application holds the components shared by serve and build
type application struct {
	cfg       *config.Config
	loader    *episodes.Loader
	renderer  *render.Renderer
	assets    *static.Assets
	generator *pages.Generator
	db        *database.DB
	memCache  *cache.MemoryCache
	cleanup   *cleanup.Service
}

// newApplication wires the content API, loader, renderer and page store
func newApplication(cfg *config.Config) (*application, error) {
	location, err := time.LoadLocation(cfg.Render.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Render.Timezone, err)
	}

	fallback, err := episodes.ParseFallback(cfg.Pages.Fallback)
	if err != nil {
		return nil, err
	}

	pageLocale := locale.Match(cfg.Render.Locale)

	client := contentapi.NewClient(contentapi.Config{
		BaseURL:   cfg.ContentAPI.BaseURL,
		Timeout:   cfg.ContentAPI.Timeout,
		UserAgent: cfg.ContentAPI.UserAgent,
		RateLimit: cfg.ContentAPI.RateLimit,
	})

	loader := episodes.NewLoader(client,
		episodes.WithLocale(pageLocale),
		episodes.WithLocation(location),
		episodes.WithPrebuildCount(cfg.Pages.PrebuildCount),
		episodes.WithRevalidate(cfg.Pages.Revalidate),
		episodes.WithFallback(fallback),
	)

	renderer, err := render.New(render.WithLocale(pageLocale), render.WithMinify(cfg.Render.Minify))
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	assets, err := static.Load()
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	app := &application{
		cfg:      cfg,
		loader:   loader,
		renderer: renderer,
		assets:   assets,
	}

	var store pages.Store
	switch cfg.Pages.Store {
	case config.StoreSQLite:
		db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		repo := pages.NewRepository(db.DB)
		app.db = db
		app.cleanup = cleanup.NewService(repo, cfg.Pages.Retention, cfg.Pages.CleanupInterval)
		store = repo
	default:
		app.memCache = cache.NewMemoryCache(cfg.Cache.Memory.MaxSizeMB)
		store = pages.NewCacheStore(app.memCache, cfg.Pages.Retention)
	}

	app.generator = pages.NewGenerator(loader, renderer, store)

	log.Printf("[INFO] Pages: store=%s fallback=%s revalidate=%s locale=%s content_api=%s",
		cfg.Pages.Store, fallback, cfg.Pages.Revalidate, pageLocale, client.BaseURL())

	return app, nil
}

// cacheStats returns the stats source of the page store, if it has one
func (a *application) cacheStats() cache.StatsProvider {
	if a.memCache == nil {
		return nil
	}
	return a.memCache
}

// Close stops background work and releases the store
func (a *application) Close() {
	a.generator.Stop()
	if a.cleanup != nil {
		a.cleanup.Stop()
	}
	if a.memCache != nil {
		a.memCache.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}
}
