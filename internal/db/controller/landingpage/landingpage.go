// Package landingpage stores campaign landing pages built from components.
package landingpage

import (
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/slugs"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
)

// DefaultLimit is the page size when the filter has none.
const DefaultLimit = 10

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrPageNotFound is returned when no landing page matches.
	ErrPageNotFound = errors.New("landing page not found")
	// ErrSlugTaken is returned when another page uses the slug.
	ErrSlugTaken = errors.New("a landing page with this slug already exists")
	// ErrMissingFields is returned when title, slug or content is missing.
	ErrMissingFields = errors.New("missing required fields: title, slug, content")
	// ErrInvalidStatus is returned for an unknown status.
	ErrInvalidStatus = errors.New("invalid landing page status")
	// ErrInvalidExpiry is returned when expires_at cannot be parsed.
	ErrInvalidExpiry = errors.New("invalid expiry date")
)

var expiryLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", time.DateOnly} //nolint:gochecknoglobals

// ParseExpiry accepts RFC 3339, datetime-local and date values. Empty clears the expiry.
func ParseExpiry(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil
	}

	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}

	return nil, ErrInvalidExpiry
}

// Now is the clock used for publication timestamps.
var Now = time.Now //nolint:gochecknoglobals

// Filter narrows List and Count. Zero values do not filter.
type Filter struct {
	Status         models.LandingPageStatus
	CampaignSource string
	CreatedBy      string
	Search         string
	Limit          int
	Offset         int
}

// Pagination describes the window returned by List.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives page numbers from an offset window.
func NewPagination(total int64, limit, offset int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Total:      total,
		Page:       offset/limit + 1,
		Limit:      limit,
		TotalPages: pages,
		HasNext:    int64(offset+limit) < total,
		HasPrev:    offset > 0,
	}
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if f.CampaignSource != "" {
		q = q.Where("campaign_source = ?", f.CampaignSource)
	}

	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("(title LIKE ? OR description LIKE ? OR slug LIKE ?)", like, like, like)
	}

	return q
}

// List returns the pages matching f, most recently updated first.
func List(db *gorm.DB, f Filter) ([]models.LandingPage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var out []models.LandingPage

	err := f.apply(db.Model(&models.LandingPage{})).
		Order("updated_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&out).Error

	return out, pkgerrors.Wrap(err, "failed to list landing pages")
}

// Count returns the number of pages matching f, ignoring its window.
func Count(db *gorm.DB, f Filter) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := f.apply(db.Model(&models.LandingPage{})).Count(&n).Error

	return n, pkgerrors.Wrap(err, "failed to count landing pages")
}

func first(db *gorm.DB, where string, arg any) (*models.LandingPage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.LandingPage

	if err := db.Where(where, arg).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load landing page")
	}

	return &p, nil
}

// Get loads a page by id.
func Get(db *gorm.DB, id string) (*models.LandingPage, error) {
	return first(db, "id = ?", id)
}

// GetBySlug loads a page by slug regardless of status.
func GetBySlug(db *gorm.DB, slug string) (*models.LandingPage, error) {
	return first(db, "slug = ?", slug)
}

// GetPublished loads a page that is published and not expired at now.
func GetPublished(db *gorm.DB, slug string, now time.Time) (*models.LandingPage, error) {
	p, err := GetBySlug(db, slug)
	if err != nil {
		return nil, err
	}

	if !p.Live(now) {
		return nil, ErrPageNotFound
	}

	return p, nil
}

func checkSlug(db *gorm.DB, slug, exceptID string) error {
	taken, err := slugs.Taken(db, &models.LandingPage{}, slug, exceptID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to check slug")
	}

	if taken {
		return ErrSlugTaken
	}

	return nil
}

func prepareContent(content landing.Content, status models.LandingPageStatus) (landing.Content, error) {
	content = landing.Clean(landing.Normalize(content))

	if err := validateContent(content, status); err != nil {
		return nil, err
	}

	return content, nil
}

// validateContent applies the publish checks when status makes the page live.
func validateContent(content landing.Content, status models.LandingPageStatus) error {
	if status == models.LandingPublished {
		return landing.ValidateForPublish(content) //nolint:wrapcheck
	}

	return landing.Validate(content) //nolint:wrapcheck
}

// Create validates and stores p. Published pages get published_at now.
func Create(db *gorm.DB, p *models.LandingPage) error {
	if db == nil {
		return ErrDBNil
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Slug = slugs.Make(p.Slug)

	if p.Title == "" || p.Slug == "" || p.Content == nil {
		return ErrMissingFields
	}

	if p.Status == "" {
		p.Status = models.LandingDraft
	}

	if !p.Status.Valid() {
		return ErrInvalidStatus
	}

	content, err := prepareContent(p.Content, p.Status)
	if err != nil {
		return err
	}

	p.Content = content

	if p.Settings == nil {
		p.Settings = map[string]any{}
	}

	if err := checkSlug(db, p.Slug, ""); err != nil {
		return err
	}

	if p.Status == models.LandingPublished {
		now := Now()
		p.PublishedAt = &now
	} else {
		p.PublishedAt = nil
	}

	return pkgerrors.Wrap(db.Create(p).Error, "failed to create landing page")
}

// Patch lists the fields an update changes. Nil fields are kept.
type Patch struct {
	Title           *string                   `json:"title"`
	Slug            *string                   `json:"slug"`
	Description     *string                   `json:"description"`
	Content         *landing.Content          `json:"content"`
	MetaTitle       *string                   `json:"meta_title"`
	MetaDescription *string                   `json:"meta_description"`
	OGImage         *string                   `json:"og_image"`
	Status          *models.LandingPageStatus `json:"status"`
	TemplateType    *string                   `json:"template_type"`
	TargetAudience  *string                   `json:"target_audience"`
	CampaignSource  *string                   `json:"campaign_source"`
	TrackingCode    *string                   `json:"tracking_code"`
	Settings        map[string]any            `json:"settings"`
	ExpiresAt       *string                   `json:"expires_at"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Update applies patch to page id.
func Update(db *gorm.DB, id string, patch Patch) (*models.LandingPage, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if patch.Slug != nil {
		slug := slugs.Make(*patch.Slug)
		if slug == "" {
			return nil, ErrMissingFields
		}

		if slug != p.Slug {
			if err := checkSlug(db, slug, id); err != nil {
				return nil, err
			}
		}

		p.Slug = slug
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrMissingFields
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	status := p.Status
	set(&status, patch.Status)

	if patch.Content != nil {
		content, err := prepareContent(*patch.Content, status)
		if err != nil {
			return nil, err
		}

		p.Content = content
	} else if status == models.LandingPublished && p.Status != models.LandingPublished {
		if err := validateContent(p.Content, status); err != nil {
			return nil, err
		}
	}

	if patch.Status != nil {

		if *patch.Status == models.LandingPublished && p.PublishedAt == nil {
			now := Now()
			p.PublishedAt = &now
		}

		p.Status = *patch.Status
	}

	set(&p.Title, patch.Title)
	set(&p.Description, patch.Description)
	set(&p.MetaTitle, patch.MetaTitle)
	set(&p.MetaDescription, patch.MetaDescription)
	set(&p.OGImage, patch.OGImage)
	set(&p.TemplateType, patch.TemplateType)
	set(&p.TargetAudience, patch.TargetAudience)
	set(&p.CampaignSource, patch.CampaignSource)
	set(&p.TrackingCode, patch.TrackingCode)

	if patch.ExpiresAt != nil {
		exp, err := ParseExpiry(*patch.ExpiresAt)
		if err != nil {
			return nil, err
		}

		p.ExpiresAt = exp
	}

	if patch.Settings != nil {
		p.Settings = patch.Settings
	}

	if err := db.Save(p).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update landing page")
	}

	return p, nil
}

// Publish marks page id as published now. Content must be complete.
func Publish(db *gorm.DB, id string) (*models.LandingPage, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := landing.ValidateForPublish(p.Content); err != nil {
		return nil, err //nolint:wrapcheck
	}

	now := Now()
	p.Status = models.LandingPublished
	p.PublishedAt = &now

	err = db.Model(p).Updates(map[string]any{"status": p.Status, "published_at": p.PublishedAt}).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to publish landing page")
	}

	return p, nil
}

// Clone copies page id as a new draft with title and slug. createdBy owns the copy.
func Clone(db *gorm.DB, id, title, slug, createdBy string) (*models.LandingPage, error) {
	src, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	c := *src
	c.ID = ""
	c.Title = strings.TrimSpace(title)
	c.Slug = slugs.Make(slug)
	c.Status = models.LandingDraft
	c.PublishedAt = nil
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}

	if createdBy != "" {
		c.CreatedBy = createdBy
	}

	if c.Title == "" || c.Slug == "" {
		return nil, ErrMissingFields
	}

	if err := checkSlug(db, c.Slug, ""); err != nil {
		return nil, err
	}

	if err := db.Create(&c).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to clone landing page")
	}

	return &c, nil
}

// Delete removes page id and its analytics.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.LandingPage{})
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "failed to delete landing page")
		}

		if res.RowsAffected == 0 {
			return ErrPageNotFound
		}

		err := tx.Where("landing_page_id = ?", id).Delete(&models.LandingPageAnalytics{}).Error

		return pkgerrors.Wrap(err, "failed to delete landing page analytics")
	})
}

// ArchiveExpired archives published pages whose expires_at is before now.
func ArchiveExpired(db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Model(&models.LandingPage{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.LandingPublished, now).
		Update("status", models.LandingArchived)

	return res.RowsAffected, pkgerrors.Wrap(res.Error, "failed to archive expired landing pages")
}

// CanEdit reports whether a user may change p. Owners match by username or email.
func CanEdit(p *models.LandingPage, u *models.User) bool {
	if p == nil || u == nil {
		return false
	}

	if u.IsAdmin() {
		return true
	}

	return p.CreatedBy != "" && (p.CreatedBy == u.Username || p.CreatedBy == u.Email)
}
