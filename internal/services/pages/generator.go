// Package pages generates episode pages ahead of time and keeps them fresh.
//
// Pages for the enumerated paths are built up front. A page is served from
// the store until its revalidation time passes; after that the stale copy is
// still served while one background regeneration replaces it. Slugs that were
// never enumerated are generated on first request when the fallback policy is
// blocking and rejected otherwise.
package pages

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/render"
	"github.com/killallgit/podcastr-pages/internal/services/contentapi"
	"github.com/killallgit/podcastr-pages/internal/services/episodes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRegenerateTimeout = 30 * time.Second
	defaultBuildConcurrency  = 4
)

// CacheStatus tells how a served page was obtained
type CacheStatus string

const (
	StatusHit   CacheStatus = "HIT"
	StatusStale CacheStatus = "STALE"
	StatusMiss  CacheStatus = "MISS"
)

// PageLoader enumerates paths and loads page props
type PageLoader interface {
	StaticPaths(ctx context.Context) (*episodes.PathsResult, error)
	LoadEpisode(ctx context.Context, slug string) (*episodes.PageProps, error)
	Fallback() episodes.Fallback
}

// PageRenderer turns page props into HTML
type PageRenderer interface {
	Episode(ep models.Episode) ([]byte, error)
}

var (
	_ PageLoader   = (*episodes.Loader)(nil)
	_ PageRenderer = (*render.Renderer)(nil)
)

// BuildReport summarizes one Build run
type BuildReport struct {
	Paths     *episodes.PathsResult `json:"paths"`
	Generated []string              `json:"generated"`
	Failed    map[string]string     `json:"failed,omitempty"`
	Pages     []*models.Page        `json:"-"`
	Duration  time.Duration         `json:"duration"`
}

// OK reports whether every enumerated path was generated
func (r *BuildReport) OK() bool {
	return len(r.Failed) == 0
}

// Generator builds, serves and regenerates pages
type Generator struct {
	loader   PageLoader
	renderer PageRenderer
	store    Store

	now               func() time.Time
	regenerateTimeout time.Duration
	buildConcurrency  int

	group        singleflight.Group
	regenerating sync.Map

	mu      sync.Mutex
	known   map[string]struct{}
	stopped bool
	wg      sync.WaitGroup

	baseCtx context.Context
	cancel  context.CancelFunc
}

// GeneratorOption is a functional option for configuring the generator
type GeneratorOption func(*Generator)

// WithClock overrides the time source
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRegenerateTimeout bounds each background regeneration
func WithRegenerateTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.regenerateTimeout = d
		}
	}
}

// WithBuildConcurrency sets how many pages Build generates at once
func WithBuildConcurrency(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.buildConcurrency = n
		}
	}
}

// NewGenerator creates a generator. Call Stop to wait for background work.
func NewGenerator(loader PageLoader, renderer PageRenderer, store Store, opts ...GeneratorOption) *Generator {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Generator{
		loader:            loader,
		renderer:          renderer,
		store:             store,
		now:               time.Now,
		regenerateTimeout: defaultRegenerateTimeout,
		buildConcurrency:  defaultBuildConcurrency,
		known:             make(map[string]struct{}),
		baseCtx:           ctx,
		cancel:            cancel,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Paths returns the enumerated paths without generating anything
func (g *Generator) Paths(ctx context.Context) (*episodes.PathsResult, error) {
	return g.loader.StaticPaths(ctx)
}

// Build enumerates the paths and generates a page for each one. Failed pages
// are recorded in the report; only a failed enumeration is returned as error.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	start := g.now()

	paths, err := g.loader.StaticPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating paths: %w", err)
	}

	slugs := paths.Slugs()
	g.mu.Lock()
	for _, slug := range slugs {
		g.known[slug] = struct{}{}
	}
	g.mu.Unlock()

	results := make([]*models.Page, len(slugs))
	failures := make([]error, len(slugs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.buildConcurrency)
	for i, slug := range slugs {
		i, slug := i, slug
		eg.Go(func() error {
			page, err := g.generateShared(egCtx, slug)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = page
			return nil
		})
	}
	_ = eg.Wait()

	report := &BuildReport{
		Paths:     paths,
		Generated: make([]string, 0, len(slugs)),
		Failed:    make(map[string]string),
	}
	for i, slug := range slugs {
		if failures[i] != nil {
			log.Printf("[ERROR] Failed to generate page %s: %v", slug, failures[i])
			report.Failed[slug] = failures[i].Error()
			continue
		}
		report.Generated = append(report.Generated, slug)
		report.Pages = append(report.Pages, results[i])
	}
	report.Duration = g.now().Sub(start)

	log.Printf("[INFO] Built %d/%d pages in %s (fallback: %s)",
		len(report.Generated), len(slugs), report.Duration, paths.Fallback)

	return report, nil
}

// Serve returns the page for slug and how it was obtained
func (g *Generator) Serve(ctx context.Context, slug string) (*models.Page, CacheStatus, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, "", ErrPageNotFound
	}

	page, ok, err := g.store.Get(ctx, slug)
	if err != nil {
		return nil, "", fmt.Errorf("reading page %s: %w", slug, err)
	}

	if ok {
		if page.IsStale(g.now()) {
			g.scheduleRegeneration(slug)
			return page, StatusStale, nil
		}
		return page, StatusHit, nil
	}

	if !g.mayGenerate(slug) {
		return nil, "", ErrPageNotFound
	}

	page, err = g.generateShared(ctx, slug)
	if err != nil {
		return nil, "", err
	}
	return page, StatusMiss, nil
}

// Revalidate regenerates the page for slug now, whatever its age. Slugs
// without a stored page follow the fallback policy, as in Serve.
func (g *Generator) Revalidate(ctx context.Context, slug string) (*models.Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrPageNotFound
	}
	if g.isStopped() {
		return nil, ErrStopped
	}

	_, stored, err := g.store.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("reading page %s: %w", slug, err)
	}
	if !stored && !g.mayGenerate(slug) {
		return nil, ErrPageNotFound
	}

	return g.generateShared(ctx, slug)
}

// Stop cancels background regenerations and waits for them to return
func (g *Generator) Stop() {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()

	g.cancel()
	g.wg.Wait()
}

func (g *Generator) isStopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}

// mayGenerate reports whether a slug without a stored page can be generated
func (g *Generator) mayGenerate(slug string) bool {
	if g.loader.Fallback() == episodes.FallbackBlocking {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.known[slug]
	return ok
}

func (g *Generator) scheduleRegeneration(slug string) {
	if _, busy := g.regenerating.LoadOrStore(slug, struct{}{}); busy {
		return
	}

	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		g.regenerating.Delete(slug)
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer g.regenerating.Delete(slug)

		ctx, cancel := context.WithTimeout(g.baseCtx, g.regenerateTimeout)
		defer cancel()

		if _, err := g.shared(ctx, ctx, slug); err != nil {
			log.Printf("[WARN] Background regeneration of %s failed, keeping stale page: %v", slug, err)
			return
		}
		log.Printf("[DEBUG] Regenerated stale page %s", slug)
	}()
}

// generateShared runs one generation per slug at a time; concurrent callers
// receive the same result. The generation outlives a cancelled caller.
func (g *Generator) generateShared(ctx context.Context, slug string) (*models.Page, error) {
	return g.shared(ctx, context.WithoutCancel(ctx), slug)
}

// shared waits on ctx for a generation that runs under genCtx
func (g *Generator) shared(ctx, genCtx context.Context, slug string) (*models.Page, error) {
	ch := g.group.DoChan(slug, func() (any, error) {
		return g.generate(genCtx, slug)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Page), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Generator) generate(ctx context.Context, slug string) (*models.Page, error) {
	props, err := g.loader.LoadEpisode(ctx, slug)
	if err != nil {
		if contentapi.IsNotFound(err) {
			if delErr := g.store.Delete(ctx, slug); delErr != nil {
				log.Printf("[WARN] Failed to drop page %s: %v", slug, delErr)
			}
			return nil, fmt.Errorf("%w: %w", ErrPageNotFound, err)
		}
		return nil, err
	}

	html, err := g.renderer.Episode(props.Episode)
	if err != nil {
		return nil, fmt.Errorf("%w for page %s: %w", ErrRender, slug, err)
	}

	now := g.now()
	page := &models.Page{
		Slug:         slug,
		HTML:         html,
		ETag:         ETag(html),
		GeneratedAt:  now,
		RevalidateAt: now.Add(props.Revalidate),
	}
	if err := page.SetProps(props.Episode); err != nil {
		return nil, fmt.Errorf("encoding props of %s: %w", slug, err)
	}

	if err := g.store.Put(ctx, page); err != nil {
		return nil, fmt.Errorf("storing page %s: %w", slug, err)
	}

	log.Printf("[INFO] Generated page %s (revalidate at %s)", slug, page.RevalidateAt.Format(time.RFC3339))
	return page, nil
}

// ETag returns a strong entity tag for body
func ETag(body []byte) string {
	hash := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(hash[:]))
}

// IsNotFound reports whether err means the page does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound) || contentapi.IsNotFound(err)
}
