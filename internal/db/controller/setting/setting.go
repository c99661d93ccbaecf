// Package setting stores named blobs in the settings table.
package setting

import (
	"encoding/json"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned for an empty setting name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting

	if err := db.Where("name = ?", name).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load setting")
	}

	return &s, nil
}

// GetAll retrieves every setting ordered by name.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting

	if err := db.Order("name").Find(&settings).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list settings")
	}

	return settings, nil
}

// Set creates or replaces the value stored under name.
func Set(db *gorm.DB, name string, value []byte) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	s := models.Setting{Name: name, Value: value}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error

	return pkgerrors.Wrap(err, "failed to store setting")
}

// Delete removes the setting called name.
func Delete(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	res := db.Where("name = ?", name).Delete(&models.Setting{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete setting")
	}

	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// LoadJSON decodes the setting called name into v.
// ErrSettingNotFound leaves v untouched.
func LoadJSON(db *gorm.DB, name string, v any) error {
	s, err := Get(db, name)
	if err != nil {
		return err
	}

	return pkgerrors.Wrapf(json.Unmarshal(s.Value, v), "setting %s holds invalid json", name)
}

// SaveJSON encodes v and stores it under name.
func SaveJSON(db *gorm.DB, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode setting")
	}

	return Set(db, name, raw)
}
