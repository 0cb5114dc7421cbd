package pages

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/podcastr-pages/internal/database"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage(t *testing.T, slug, html string, generatedAt time.Time) *models.Page {
	t.Helper()
	page := &models.Page{
		Slug:         slug,
		HTML:         []byte(html),
		ETag:         ETag([]byte(html)),
		GeneratedAt:  generatedAt,
		RevalidateAt: generatedAt.Add(24 * time.Hour),
	}
	require.NoError(t, page.SetProps(models.Episode{ID: slug, Title: slug, DurationAsString: "00:01:00"}))
	return page
}

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.DB)
}

func setupCacheStore(t *testing.T) *CacheStore {
	t.Helper()
	mc := cache.NewMemoryCache(8)
	t.Cleanup(mc.Stop)
	return NewCacheStore(mc, time.Hour)
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"cache":      func(t *testing.T) Store { return setupCacheStore(t) },
		"repository": func(t *testing.T) Store { return setupRepository(t) },
	}

	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			store := setup(t)
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)

			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Put(ctx, samplePage(t, "b-episode", "<p>b</p>", now)))
			require.NoError(t, store.Put(ctx, samplePage(t, "a-episode", "<p>a</p>", now)))

			got, ok, err := store.Get(ctx, "a-episode")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "<p>a</p>", string(got.HTML))
			assert.Equal(t, ETag([]byte("<p>a</p>")), got.ETag)
			assert.True(t, now.Add(24*time.Hour).Equal(got.RevalidateAt))

			ep, err := got.Props()
			require.NoError(t, err)
			assert.Equal(t, "00:01:00", ep.DurationAsString)

			// replacing keeps one entry per slug
			later := now.Add(time.Hour)
			require.NoError(t, store.Put(ctx, samplePage(t, "a-episode", "<p>a2</p>", later)))
			got, ok, err = store.Get(ctx, "a-episode")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "<p>a2</p>", string(got.HTML))
			assert.True(t, later.Equal(got.GeneratedAt))

			slugs, err := store.Slugs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a-episode", "b-episode"}, slugs)

			require.NoError(t, store.Delete(ctx, "a-episode"))
			require.NoError(t, store.Delete(ctx, "never-stored"))
			_, ok, err = store.Get(ctx, "a-episode")
			require.NoError(t, err)
			assert.False(t, ok)

			slugs, err = store.Slugs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b-episode"}, slugs)
		})
	}
}

func TestCacheStore_KeepsStalePagesForRetention(t *testing.T) {
	store := setupCacheStore(t)
	ctx := context.Background()

	// revalidation time already passed, retention still holds it
	page := samplePage(t, "old", "<p>old</p>", time.Now().Add(-25*time.Hour))
	require.NoError(t, store.Put(ctx, page))

	got, ok, err := store.Get(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsStale(time.Now()))
}

func TestRepository_List(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, samplePage(t, "second", "<p>2</p>", now)))
	require.NoError(t, repo.Put(ctx, samplePage(t, "first", "<p>1</p>", now)))

	pages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "first", pages[0].Slug)
	assert.Empty(t, pages[0].HTML)
	assert.NotEmpty(t, pages[0].ETag)
}

func TestRepository_PruneExpired(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, samplePage(t, "ancient", "<p>old</p>", now.Add(-30*24*time.Hour))))
	require.NoError(t, repo.Put(ctx, samplePage(t, "recent", "<p>new</p>", now)))

	removed, err := repo.PruneExpired(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	slugs, err := repo.Slugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"recent"}, slugs)
}
