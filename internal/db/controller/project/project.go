// Package project provides CRUD operations for property projects.
package project

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/slugs"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// DefaultLimit is the dashboard page size.
const DefaultLimit = 10

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrProjectNotFound is returned when no project matches.
	ErrProjectNotFound = errors.New("project not found")
	// ErrSlugTaken is returned when another project uses the slug.
	ErrSlugTaken = errors.New("a project with this slug already exists")
)

// Changes describes an update. KeepGallery nil keeps the whole gallery,
// otherwise only listed images survive. AddGallery is appended afterwards.
type Changes struct {
	Project     models.Project
	KeepGallery []string
	AddGallery  []string
}

// List returns a page of projects, newest first.
func List(db *gorm.DB, page, limit int) (pagination.Page[models.Project], error) {
	if db == nil {
		return pagination.Page[models.Project]{}, ErrDBNil
	}

	page, limit = pagination.Normalize(page, limit, DefaultLimit)

	p, err := pagination.Find[models.Project](db.Model(&models.Project{}).Order("created_at DESC"), page, limit)

	return p, pkgerrors.Wrap(err, "failed to list projects")
}

// ListPublic returns projects for the public site. Empty status means all,
// limit <= 0 means no limit.
func ListPublic(db *gorm.DB, status models.ProjectStatus, limit int) ([]models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Where("slug <> ?", models.GeneralInquiriesSlug).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Project

	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list projects")
	}

	return out, nil
}

func first(db *gorm.DB, where string, arg any) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Project

	if err := db.Where(where, arg).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load project")
	}

	return &p, nil
}

// Get loads a project by id.
func Get(db *gorm.DB, id string) (*models.Project, error) {
	return first(db, "id = ?", id)
}

// GetBySlug loads a project by slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Project, error) {
	return first(db, "slug = ?", slug)
}

func prepare(db *gorm.DB, p *models.Project, exceptID string) error {
	if p.Slug == "" {
		p.Slug = slugs.Make(p.Name)
	} else {
		p.Slug = slugs.Make(p.Slug)
	}

	if p.Status == "" {
		p.Status = models.ProjectResidential
	}

	if p.GalleryImages == nil {
		p.GalleryImages = []string{}
	}

	if p.Advantages == nil {
		p.Advantages = []string{}
	}

	if err := validation.Struct(p); err != nil {
		return err
	}

	taken, err := slugs.Taken(db, &models.Project{}, p.Slug, exceptID)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to check slug")
	}

	if taken {
		return ErrSlugTaken
	}

	return nil
}

// Create validates and stores p. The slug is derived from the name when empty.
func Create(db *gorm.DB, p *models.Project) error {
	if db == nil {
		return ErrDBNil
	}

	if err := prepare(db, p, ""); err != nil {
		return err
	}

	return pkgerrors.Wrap(db.Create(p).Error, "failed to create project")
}

// Update applies c to the project id. An empty main image keeps the stored one.
func Update(db *gorm.DB, id string, c Changes) (*models.Project, error) {
	current, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	next := c.Project
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if next.MainImage == "" {
		next.MainImage = current.MainImage
	}

	next.GalleryImages = mergeGallery(current.GalleryImages, c.KeepGallery, c.AddGallery)

	if err := prepare(db, &next, id); err != nil {
		return nil, err
	}

	if err := db.Save(&next).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update project")
	}

	return &next, nil
}

func mergeGallery(current, keep, add []string) []string {
	out := make([]string, 0, len(current)+len(add))

	if keep == nil {
		out = append(out, current...)
	} else {
		kept := make(map[string]struct{}, len(keep))
		for _, k := range keep {
			kept[k] = struct{}{}
		}

		for _, img := range current {
			if _, ok := kept[img]; ok {
				out = append(out, img)
			}
		}
	}

	return append(out, add...)
}

// Delete removes the project and its units.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "failed to delete project")
		}

		if res.RowsAffected == 0 {
			return ErrProjectNotFound
		}

		return pkgerrors.Wrap(tx.Where("project_id = ?", id).Delete(&models.Unit{}).Error, "failed to delete units")
	})
}

// Count returns the number of listed projects.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := db.Model(&models.Project{}).Where("slug <> ?", models.GeneralInquiriesSlug).Count(&n).Error

	return n, pkgerrors.Wrap(err, "failed to count projects")
}
