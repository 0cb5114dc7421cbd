package pages

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/render"
	"github.com/killallgit/podcastr-pages/internal/services/cache"
	"github.com/killallgit/podcastr-pages/internal/services/contentapi"
	"github.com/killallgit/podcastr-pages/internal/services/episodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) StaticPaths(ctx context.Context) (*episodes.PathsResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*episodes.PathsResult), args.Error(1)
}

func (m *MockLoader) LoadEpisode(ctx context.Context, slug string) (*episodes.PageProps, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*episodes.PageProps), args.Error(1)
}

func (m *MockLoader) Fallback() episodes.Fallback {
	args := m.Called()
	return args.Get(0).(episodes.Fallback)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func props(slug, title string) *episodes.PageProps {
	return &episodes.PageProps{
		Episode: models.Episode{
			ID:               slug,
			Title:            title,
			Thumbnail:        "https://example.com/" + slug + ".jpg",
			Members:          "Diego Fernandes",
			PublishedAt:      "8 jan 21",
			Duration:         5400,
			DurationAsString: "01:30:00",
			Description:      "<p>" + title + "</p>",
			URL:              "https://example.com/" + slug + ".m4a",
		},
		Revalidate: 24 * time.Hour,
	}
}

func pathsOf(fallback episodes.Fallback, slugs ...string) *episodes.PathsResult {
	result := &episodes.PathsResult{Fallback: fallback}
	for _, slug := range slugs {
		result.Paths = append(result.Paths, episodes.Path{Params: episodes.PathParams{Slug: slug}})
	}
	return result
}

type fixture struct {
	loader *MockLoader
	store  *CacheStore
	clock  *fakeClock
	gen    *Generator
}

func newFixture(t *testing.T, fallback episodes.Fallback) *fixture {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	mc := cache.NewMemoryCache(8)
	t.Cleanup(mc.Stop)

	loader := new(MockLoader)
	loader.On("Fallback").Return(fallback).Maybe()

	clock := &fakeClock{t: time.Now()}
	store := NewCacheStore(mc, 7*24*time.Hour)
	gen := NewGenerator(loader, renderer, store, WithClock(clock.Now))
	t.Cleanup(gen.Stop)

	return &fixture{loader: loader, store: store, clock: clock, gen: gen}
}

func TestGenerator_Build(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("StaticPaths", ctx).Return(pathsOf(episodes.FallbackBlocking, "newest", "second"), nil)
	f.loader.On("LoadEpisode", mock.Anything, "newest").Return(props("newest", "Newest"), nil).Once()
	f.loader.On("LoadEpisode", mock.Anything, "second").Return(props("second", "Second"), nil).Once()

	report, err := f.gen.Build(ctx)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, []string{"newest", "second"}, report.Generated)
	require.Len(t, report.Pages, 2)
	assert.Equal(t, "newest", report.Pages[0].Slug)

	slugs, err := f.store.Slugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "second"}, slugs)

	// fresh pages never reach the loader again
	page, status, err := f.gen.Serve(ctx, "newest")
	require.NoError(t, err)
	assert.Equal(t, StatusHit, status)
	assert.Contains(t, string(page.HTML), "<h1>Newest</h1>")
	assert.Equal(t, ETag(page.HTML), page.ETag)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), page.RevalidateAt)

	ep, err := page.Props()
	require.NoError(t, err)
	assert.Equal(t, "01:30:00", ep.DurationAsString)

	f.loader.AssertExpectations(t)
}

func TestGenerator_BuildFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("page failure is reported", func(t *testing.T) {
		f := newFixture(t, episodes.FallbackBlocking)
		f.loader.On("StaticPaths", ctx).Return(pathsOf(episodes.FallbackBlocking, "ok", "broken"), nil)
		f.loader.On("LoadEpisode", mock.Anything, "ok").Return(props("ok", "Ok"), nil)
		f.loader.On("LoadEpisode", mock.Anything, "broken").Return(nil, errors.New("bad published_at"))

		report, err := f.gen.Build(ctx)
		require.NoError(t, err)

		assert.False(t, report.OK())
		assert.Equal(t, []string{"ok"}, report.Generated)
		assert.Contains(t, report.Failed["broken"], "bad published_at")
	})

	t.Run("enumeration failure is an error", func(t *testing.T) {
		f := newFixture(t, episodes.FallbackBlocking)
		f.loader.On("StaticPaths", ctx).Return(nil, errors.New("connection refused"))

		_, err := f.gen.Build(ctx)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestGenerator_ServeBlockingFallback(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("LoadEpisode", mock.Anything, "older").Return(props("older", "Older"), nil).Once()

	page, status, err := f.gen.Serve(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, status)
	assert.Contains(t, string(page.HTML), "<h1>Older</h1>")

	again, status, err := f.gen.Serve(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, StatusHit, status)
	assert.Equal(t, page.ETag, again.ETag)

	f.loader.AssertNumberOfCalls(t, "LoadEpisode", 1)
}

func TestGenerator_ServeConcurrentMiss(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	release := make(chan struct{})
	f.loader.On("LoadEpisode", mock.Anything, "hot").
		Run(func(mock.Arguments) { <-release }).
		Return(props("hot", "Hot"), nil)

	const callers = 5
	var wg sync.WaitGroup
	etags := make([]string, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, _, err := f.gen.Serve(ctx, "hot")
			if assert.NoError(t, err) {
				etags[i] = page.ETag
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	f.loader.AssertNumberOfCalls(t, "LoadEpisode", 1)
	for _, etag := range etags {
		assert.Equal(t, etags[0], etag)
	}
}

func TestGenerator_ServeFalseFallback(t *testing.T) {
	f := newFixture(t, episodes.FallbackFalse)
	ctx := context.Background()

	f.loader.On("StaticPaths", ctx).Return(pathsOf(episodes.FallbackFalse, "listed"), nil)
	f.loader.On("LoadEpisode", mock.Anything, "listed").Return(props("listed", "Listed"), nil)

	_, err := f.gen.Build(ctx)
	require.NoError(t, err)

	_, _, err = f.gen.Serve(ctx, "unlisted")
	assert.ErrorIs(t, err, ErrPageNotFound)
	f.loader.AssertNotCalled(t, "LoadEpisode", mock.Anything, "unlisted")

	// a listed page that dropped out of the store is generated again
	require.NoError(t, f.store.Delete(ctx, "listed"))
	_, status, err := f.gen.Serve(ctx, "listed")
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, status)

	_, _, err = f.gen.Serve(ctx, "  ")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestGenerator_ServeStale(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(props("weekly", "Before"), nil).Once()
	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(props("weekly", "After"), nil).Once()

	first, _, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)

	stale, status, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, StatusStale, status)
	assert.Equal(t, first.ETag, stale.ETag)

	f.gen.Stop()

	fresh, ok, err := f.store.Get(ctx, "weekly")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(fresh.HTML), "<h1>After</h1>")
	assert.False(t, fresh.IsStale(f.clock.Now()))
	f.loader.AssertExpectations(t)
}

func TestGenerator_ServeStaleRegenerationFails(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(props("weekly", "Before"), nil).Once()
	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(nil, errors.New("upstream down")).Once()

	first, _, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)
	_, status, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, StatusStale, status)

	f.gen.Stop()

	kept, ok, err := f.store.Get(ctx, "weekly")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ETag, kept.ETag)
}

func TestGenerator_UpstreamNotFound(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("LoadEpisode", mock.Anything, "gone").Return(props("gone", "Gone"), nil).Once()
	f.loader.On("LoadEpisode", mock.Anything, "gone").
		Return(nil, contentapi.NewAPIError("/episodes/gone", 404, "{}")).Once()

	_, _, err := f.gen.Serve(ctx, "gone")
	require.NoError(t, err)

	_, err = f.gen.Revalidate(ctx, "gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.True(t, IsNotFound(err))

	_, ok, err := f.store.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerator_Revalidate(t *testing.T) {
	f := newFixture(t, episodes.FallbackBlocking)
	ctx := context.Background()

	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(props("weekly", "Before"), nil).Once()
	f.loader.On("LoadEpisode", mock.Anything, "weekly").Return(props("weekly", "After"), nil).Once()

	first, _, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)

	page, err := f.gen.Revalidate(ctx, "weekly")
	require.NoError(t, err)
	assert.NotEqual(t, first.ETag, page.ETag)

	served, status, err := f.gen.Serve(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, StatusHit, status)
	assert.Equal(t, page.ETag, served.ETag)

	f.gen.Stop()
	_, err = f.gen.Revalidate(ctx, "weekly")
	assert.ErrorIs(t, err, ErrStopped)
}

func TestGenerator_RevalidateFalseFallback(t *testing.T) {
	f := newFixture(t, episodes.FallbackFalse)
	ctx := context.Background()

	f.loader.On("StaticPaths", ctx).Return(pathsOf(episodes.FallbackFalse, "listed"), nil)
	f.loader.On("LoadEpisode", mock.Anything, "listed").Return(props("listed", "Listed"), nil)

	_, err := f.gen.Build(ctx)
	require.NoError(t, err)

	// unlisted slugs cannot be created through revalidation
	_, err = f.gen.Revalidate(ctx, "unlisted")
	assert.ErrorIs(t, err, ErrPageNotFound)
	_, _, err = f.gen.Serve(ctx, "unlisted")
	assert.ErrorIs(t, err, ErrPageNotFound)
	f.loader.AssertNotCalled(t, "LoadEpisode", mock.Anything, "unlisted")

	page, err := f.gen.Revalidate(ctx, "listed")
	require.NoError(t, err)
	assert.Equal(t, "listed", page.Slug)
}

func TestETag(t *testing.T) {
	tag := ETag([]byte("<html></html>"))
	assert.Len(t, tag, 66)
	assert.Equal(t, byte('"'), tag[0])
	assert.Equal(t, tag, ETag([]byte("<html></html>")))
	assert.NotEqual(t, tag, ETag([]byte("<html> </html>")))
}
