package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/podcastr-pages/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores pages in the database, one row per slug
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, slug string) (*models.Page, bool, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting page %s: %w", slug, err)
	}
	return &page, true, nil
}

func (r *Repository) Put(ctx context.Context, page *models.Page) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"html", "props_data", "etag", "generated_at", "revalidate_at", "updated_at", "deleted_at"}),
	}).Create(page).Error
	if err != nil {
		return fmt.Errorf("saving page %s: %w", page.Slug, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, slug string) error {
	if err := r.db.WithContext(ctx).Unscoped().Where("slug = ?", slug).Delete(&models.Page{}).Error; err != nil {
		return fmt.Errorf("deleting page %s: %w", slug, err)
	}
	return nil
}

func (r *Repository) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := r.db.WithContext(ctx).Model(&models.Page{}).Order("slug ASC").Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return slugs, nil
}

// List returns every stored page without its HTML body, ordered by slug
func (r *Repository) List(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.WithContext(ctx).
		Omit("html", "props_data").
		Order("slug ASC").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return pages, nil
}

// PruneExpired removes pages whose revalidation time is before cutoff
func (r *Repository) PruneExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().Where("revalidate_at < ?", cutoff).Delete(&models.Page{})
	if result.Error != nil {
		return 0, fmt.Errorf("pruning pages: %w", result.Error)
	}
	return result.RowsAffected, nil
}
