// Package apitest provides test doubles for the handler packages.
package apitest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/killallgit/podcastr-pages/api/types"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/episodes"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	"github.com/stretchr/testify/mock"
)

// MockPageService is a testify mock of types.PageService
type MockPageService struct {
	mock.Mock
}

var _ types.PageService = (*MockPageService)(nil)

func (m *MockPageService) Paths(ctx context.Context) (*episodes.PathsResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*episodes.PathsResult), args.Error(1)
}

func (m *MockPageService) Serve(ctx context.Context, slug string) (*models.Page, pages.CacheStatus, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Page), args.Get(1).(pages.CacheStatus), args.Error(2)
}

func (m *MockPageService) Revalidate(ctx context.Context, slug string) (*models.Page, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

// ErrorPages renders error pages as "<status>: <message>"
type ErrorPages struct{}

func (ErrorPages) RenderError(w io.Writer, status int, message string) error {
	_, err := fmt.Fprintf(w, "%d: %s", status, message)
	return err
}

// Page builds a stored page for slug with the given HTML
func Page(slug, html string) *models.Page {
	generated := time.Date(2021, 1, 8, 12, 0, 0, 0, time.UTC)
	page := &models.Page{
		Slug:         slug,
		HTML:         []byte(html),
		ETag:         pages.ETag([]byte(html)),
		GeneratedAt:  generated,
		RevalidateAt: generated.Add(24 * time.Hour),
	}
	_ = page.SetProps(models.Episode{
		ID:               slug,
		Title:            "A semana",
		PublishedAt:      "8 jan 21",
		Duration:         5400,
		DurationAsString: "01:30:00",
	})
	return page
}
