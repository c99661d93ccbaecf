// Package unit provides CRUD operations for the units of a project.
package unit

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/slugs"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// DefaultLimit is the page size of unit listings.
const DefaultLimit = 10

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUnitNotFound is returned when no unit matches.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrProjectNotFound is returned when the parent project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrSlugTaken is returned when the project already has a unit with this slug.
	ErrSlugTaken = errors.New("a unit with this name already exists in the project")
)

// Detail is a unit with the fields of its project the unit page shows.
type Detail struct {
	models.Unit
	ProjectName     string               `json:"project_name"`
	ProjectSlug     string               `json:"project_slug"`
	ProjectLocation string               `json:"project_location"`
	ProjectStatus   models.ProjectStatus `json:"project_status"`
}

// ListByProject pages the units of projectID, newest first.
// An empty status lists every status.
func ListByProject(db *gorm.DB, projectID string, status models.UnitStatus, page, limit int) (pagination.Page[models.Unit], error) {
	if db == nil {
		return pagination.Page[models.Unit]{}, ErrDBNil
	}

	page, limit = pagination.Normalize(page, limit, DefaultLimit)

	q := db.Model(&models.Unit{}).Where("project_id = ?", projectID).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	p, err := pagination.Find[models.Unit](q, page, limit)

	return p, pkgerrors.Wrap(err, "failed to list units")
}

// Get loads a unit by id.
func Get(db *gorm.DB, id string) (*models.Unit, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.Unit

	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load unit")
	}

	return &u, nil
}

// GetBySlug loads a unit by its project slug and its own slug.
func GetBySlug(db *gorm.DB, projectSlug, unitSlug string) (*Detail, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Project

	if err := db.Where("slug = ?", projectSlug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load project")
	}

	var u models.Unit

	if err := db.Where("project_id = ? AND slug = ?", p.ID, unitSlug).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load unit")
	}

	return &Detail{
		Unit:            u,
		ProjectName:     p.Name,
		ProjectSlug:     p.Slug,
		ProjectLocation: p.Location,
		ProjectStatus:   p.Status,
	}, nil
}

func prepare(db *gorm.DB, u *models.Unit) error {
	u.Slug = slugs.Make(u.Name)

	if u.Status == "" {
		u.Status = models.UnitActive
	}

	if u.Facilities == nil {
		u.Facilities = []string{}
	}

	if u.GalleryImages == nil {
		u.GalleryImages = []string{}
	}

	if err := validation.Struct(u); err != nil {
		return err
	}

	var n int64

	if err := db.Model(&models.Project{}).Where("id = ?", u.ProjectID).Count(&n).Error; err != nil {
		return pkgerrors.Wrap(err, "failed to check project")
	}

	if n == 0 {
		return ErrProjectNotFound
	}

	q := db.Model(&models.Unit{}).Where("project_id = ? AND slug = ?", u.ProjectID, u.Slug)
	if u.ID != "" {
		q = q.Where("id <> ?", u.ID)
	}

	if err := q.Count(&n).Error; err != nil {
		return pkgerrors.Wrap(err, "failed to check slug")
	}

	if n > 0 {
		return ErrSlugTaken
	}

	return nil
}

// Create validates and stores u. The slug is derived from the name.
func Create(db *gorm.DB, u *models.Unit) error {
	if db == nil {
		return ErrDBNil
	}

	if err := prepare(db, u); err != nil {
		return err
	}

	return pkgerrors.Wrap(db.Create(u).Error, "failed to create unit")
}

// Update replaces the unit id with in. An empty main image keeps the stored one.
func Update(db *gorm.DB, id string, in models.Unit) (*models.Unit, error) {
	current, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	in.ID = current.ID
	in.CreatedAt = current.CreatedAt

	if in.ProjectID == "" {
		in.ProjectID = current.ProjectID
	}

	if in.MainImage == "" {
		in.MainImage = current.MainImage
	}

	if err := prepare(db, &in); err != nil {
		return nil, err
	}

	if err := db.Save(&in).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update unit")
	}

	return &in, nil
}

// Delete removes a unit.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where("id = ?", id).Delete(&models.Unit{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete unit")
	}

	if res.RowsAffected == 0 {
		return ErrUnitNotFound
	}

	return nil
}
