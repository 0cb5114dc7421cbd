package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/cache"
	"gorm.io/datatypes"
)

// Store persists generated pages keyed by slug
type Store interface {
	// Get returns the stored page for slug; ok is false when nothing is stored
	Get(ctx context.Context, slug string) (page *models.Page, ok bool, err error)

	// Put inserts or replaces the page for page.Slug
	Put(ctx context.Context, page *models.Page) error

	// Delete removes the page for slug, if any
	Delete(ctx context.Context, slug string) error

	// Slugs lists stored slugs in sorted order
	Slugs(ctx context.Context) ([]string, error)
}

const pageKeyPrefix = "page:"

func pageKey(slug string) string {
	return pageKeyPrefix + slug
}

// storedPage is the cache encoding of a page
type storedPage struct {
	Slug         string          `json:"slug"`
	HTML         []byte          `json:"html"`
	Props        json.RawMessage `json:"props"`
	ETag         string          `json:"etag"`
	GeneratedAt  time.Time       `json:"generated_at"`
	RevalidateAt time.Time       `json:"revalidate_at"`
}

// CacheStore keeps pages in a byte cache. Entries outlive their revalidation
// time by the retention window so stale pages can still be served.
type CacheStore struct {
	cache     cache.Cache
	retention time.Duration
}

var _ Store = (*CacheStore)(nil)

// NewCacheStore creates a store on top of c; entries expire after retention
func NewCacheStore(c cache.Cache, retention time.Duration) *CacheStore {
	return &CacheStore{cache: c, retention: retention}
}

func (s *CacheStore) Get(ctx context.Context, slug string) (*models.Page, bool, error) {
	data, ok := s.cache.Get(ctx, pageKey(slug))
	if !ok {
		return nil, false, nil
	}

	var sp storedPage
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, false, fmt.Errorf("decoding cached page %s: %w", slug, err)
	}

	return &models.Page{
		Slug:         sp.Slug,
		HTML:         sp.HTML,
		PropsData:    datatypes.JSON(sp.Props),
		ETag:         sp.ETag,
		GeneratedAt:  sp.GeneratedAt,
		RevalidateAt: sp.RevalidateAt,
	}, true, nil
}

func (s *CacheStore) Put(ctx context.Context, page *models.Page) error {
	data, err := json.Marshal(storedPage{
		Slug:         page.Slug,
		HTML:         page.HTML,
		Props:        json.RawMessage(page.PropsData),
		ETag:         page.ETag,
		GeneratedAt:  page.GeneratedAt,
		RevalidateAt: page.RevalidateAt,
	})
	if err != nil {
		return fmt.Errorf("encoding page %s: %w", page.Slug, err)
	}

	// keep the page around past its revalidation time so it can be served stale
	ttl := time.Until(page.RevalidateAt) + s.retention
	if ttl <= 0 {
		ttl = s.retention
	}
	return s.cache.Set(ctx, pageKey(page.Slug), data, ttl)
}

func (s *CacheStore) Delete(ctx context.Context, slug string) error {
	return s.cache.Delete(ctx, pageKey(slug))
}

func (s *CacheStore) Slugs(ctx context.Context) ([]string, error) {
	keys := s.cache.Keys(ctx, pageKeyPrefix)
	slugs := make([]string, 0, len(keys))
	for _, key := range keys {
		slugs = append(slugs, strings.TrimPrefix(key, pageKeyPrefix))
	}
	return slugs, nil
}
