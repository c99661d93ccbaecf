// Package news provides CRUD and publishing operations for news articles.
package news

import (
	"errors"
	"time"

	"github.com/microcosm-cc/bluemonday"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/slugs"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// DefaultLimit is the page size of the public news page.
const DefaultLimit = 9

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNewsNotFound is returned when no article matches.
	ErrNewsNotFound = errors.New("news not found")
	// ErrSlugTaken is returned when another article uses the slug.
	ErrSlugTaken = errors.New("a news article with this slug already exists")
)

var policy = bluemonday.UGCPolicy() //nolint:gochecknoglobals

// Now is the clock used for published_at. Tests replace it.
var Now = time.Now //nolint:gochecknoglobals

// List returns every article, newest first.
func List(db *gorm.DB) ([]models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.News

	if err := db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list news")
	}

	return out, nil
}

// ListPublished pages published articles, latest publication first.
func ListPublished(db *gorm.DB, page, limit int) (pagination.Page[models.News], error) {
	if db == nil {
		return pagination.Page[models.News]{}, ErrDBNil
	}

	page, limit = pagination.Normalize(page, limit, DefaultLimit)

	q := db.Model(&models.News{}).Where("is_published = ?", true).Order("published_at DESC")

	p, err := pagination.Find[models.News](q, page, limit)

	return p, pkgerrors.Wrap(err, "failed to list published news")
}

func first(db *gorm.DB, q *gorm.DB) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var n models.News

	if err := q.First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load news")
	}

	return &n, nil
}

// Get loads an article by id.
func Get(db *gorm.DB, id string) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return first(db, db.Where("id = ?", id))
}

// GetBySlug loads an article by slug. publishedOnly hides drafts.
func GetBySlug(db *gorm.DB, slug string, publishedOnly bool) (*models.News, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	return first(db, q)
}

func prepare(db *gorm.DB, n *models.News, exceptID string) error {
	if n.Slug == "" {
		n.Slug = slugs.Make(n.Title)
	} else {
		n.Slug = slugs.Make(n.Slug)
	}

	n.Content = policy.Sanitize(n.Content)

	if n.BgColor == "" {
		n.BgColor = models.DefaultNewsBackground
	}

	if err := validation.Struct(n); err != nil {
		return err
	}

	taken, err := slugs.Taken(db, &models.News{}, n.Slug, exceptID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to check slug")
	}

	if taken {
		return ErrSlugTaken
	}

	return nil
}

// Create stores n. Published articles get published_at now.
func Create(db *gorm.DB, n *models.News) error {
	if db == nil {
		return ErrDBNil
	}

	if err := prepare(db, n, ""); err != nil {
		return err
	}

	n.PublishedAt = nil
	if n.IsPublished {
		now := Now()
		n.PublishedAt = &now
	}

	return pkgerrors.Wrap(db.Create(n).Error, "failed to create news")
}

// publishedAt decides published_at for a transition from wasPublished to in.
func publishedAt(wasPublished bool, current *time.Time, isPublished bool) *time.Time {
	switch {
	case isPublished && !wasPublished:
		now := Now()

		return &now
	case !isPublished:
		return nil
	default:
		return current
	}
}

// Update replaces the article id with in. An empty featured image keeps the
// stored one. published_at follows the publish transition.
func Update(db *gorm.DB, id string, in models.News) (*models.News, error) {
	current, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	in.ID = current.ID
	in.CreatedAt = current.CreatedAt

	if in.FeaturedImage == "" {
		in.FeaturedImage = current.FeaturedImage
	}

	if err := prepare(db, &in, id); err != nil {
		return nil, err
	}

	in.PublishedAt = publishedAt(current.IsPublished, current.PublishedAt, in.IsPublished)

	if err := db.Save(&in).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update news")
	}

	return &in, nil
}

// Toggle flips is_published and sets or clears published_at.
func Toggle(db *gorm.DB, id string) (*models.News, error) {
	n, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	n.PublishedAt = publishedAt(n.IsPublished, n.PublishedAt, !n.IsPublished)
	n.IsPublished = !n.IsPublished

	err = db.Model(n).Select("is_published", "published_at", "updated_at").Updates(map[string]any{
		"is_published": n.IsPublished,
		"published_at": n.PublishedAt,
		"updated_at":   Now(),
	}).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to toggle news")
	}

	return n, nil
}

// Delete removes an article.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where("id = ?", id).Delete(&models.News{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete news")
	}

	if res.RowsAffected == 0 {
		return ErrNewsNotFound
	}

	return nil
}
