package menu

import (
	_ "embed"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedItem struct {
	Title    string     `yaml:"title"`
	URL      string     `yaml:"url"`
	Children []seedItem `yaml:"children"`
}

// Seed inserts the default navigation when no menu exists and returns how
// many entries were added.
func Seed(db *gorm.DB) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.WebsiteMenu{}).Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "failed to count website menus")
	}

	if n > 0 {
		return 0, nil
	}

	var items []seedItem
	if err := yaml.Unmarshal(defaultsYAML, &items); err != nil {
		return 0, pkgerrors.Wrap(err, "failed to decode default menu")
	}

	added := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		var insert func(items []seedItem, parent *string) error

		insert = func(items []seedItem, parent *string) error {
			for i, it := range items {
				m := &models.WebsiteMenu{
					Title:    it.Title,
					URL:      it.URL,
					Order:    i,
					IsActive: true,
					ParentID: parent,
				}

				if err := tx.Create(m).Error; err != nil {
					return pkgerrors.Wrapf(err, "failed to seed menu %s", it.Title)
				}

				added++

				if err := insert(it.Children, &m.ID); err != nil {
					return err
				}
			}

			return nil
		}

		return insert(items, nil)
	})
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return added, nil
}
