// Package component manages the landing page component template library.
package component

import (
	"encoding/json"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrComponentNotFound is returned when no template matches.
	ErrComponentNotFound = errors.New("component template not found")
	// ErrSystemComponent is returned when changing a system template.
	ErrSystemComponent = errors.New("system components cannot be modified or deleted")
	// ErrMissingFields is returned when name, type or config is missing.
	ErrMissingFields = errors.New("missing required fields: name, type, config")
	// ErrUnknownType is returned for a type outside the component set.
	ErrUnknownType = errors.New("unknown component type")
)

// List returns templates, system ones first then by name. Empty typ lists all.
func List(db *gorm.DB, typ landing.Type) ([]models.LandingPageComponent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Order("is_system DESC").Order("name ASC")
	if typ != "" {
		q = q.Where("type = ?", typ)
	}

	var out []models.LandingPageComponent

	err := q.Find(&out).Error

	return out, pkgerrors.Wrap(err, "failed to list component templates")
}

// Get loads a template by id.
func Get(db *gorm.DB, id string) (*models.LandingPageComponent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.LandingPageComponent

	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComponentNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load component template")
	}

	return &c, nil
}

func check(c *models.LandingPageComponent) error {
	if c.Name == "" || c.Type == "" || len(c.Config) == 0 {
		return ErrMissingFields
	}

	if !c.Type.Known() {
		return ErrUnknownType
	}

	return landing.Validate(landing.Content{{ID: "template", Type: c.Type, Config: c.Config}}) //nolint:wrapcheck
}

// Create stores a user template. IsSystem is always false.
func Create(db *gorm.DB, c *models.LandingPageComponent) error {
	if db == nil {
		return ErrDBNil
	}

	if err := check(c); err != nil {
		return err
	}

	c.IsSystem = false

	return pkgerrors.Wrap(db.Create(c).Error, "failed to create component template")
}

// Update replaces name, type, config and preview of a user template.
func Update(db *gorm.DB, id string, in models.LandingPageComponent) (*models.LandingPageComponent, error) {
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if c.IsSystem {
		return nil, ErrSystemComponent
	}

	if err := check(&in); err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.Type = in.Type
	c.Config = in.Config
	c.PreviewImage = in.PreviewImage

	if err := db.Save(c).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update component template")
	}

	return c, nil
}

// Delete removes a user template. System templates are kept.
func Delete(db *gorm.DB, id string) error {
	c, err := Get(db, id)
	if err != nil {
		return err
	}

	if c.IsSystem {
		return ErrSystemComponent
	}

	res := db.Where("id = ? AND is_system = ?", id, false).Delete(&models.LandingPageComponent{})

	return pkgerrors.Wrap(res.Error, "failed to delete component template")
}

// SeedSystem inserts the embedded system templates that are missing and
// returns how many were added.
func SeedSystem(db *gorm.DB) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	presets, err := landing.SystemPresets()
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	added := 0

	for _, p := range presets {
		var n int64

		if err := db.Model(&models.LandingPageComponent{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return added, pkgerrors.Wrap(err, "failed to look up system component")
		}

		if n > 0 {
			continue
		}

		c := models.LandingPageComponent{
			ID:        p.ID,
			Name:      p.Name,
			Type:      p.Type,
			Config:    json.RawMessage(p.Config),
			IsSystem:  true,
			CreatedBy: "system",
		}

		if err := db.Create(&c).Error; err != nil {
			return added, pkgerrors.Wrapf(err, "failed to seed system component %s", p.ID)
		}

		added++
	}

	return added, nil
}
