// Package slugs derives URL slugs and checks their uniqueness per table.
package slugs

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Make returns the slug of s.
func Make(s string) string {
	return slug.Make(s)
}

// Taken reports whether another row of model already uses s.
// exceptID excludes the row being updated.
func Taken(db *gorm.DB, model any, s, exceptID string) (bool, error) {
	var n int64

	q := db.Model(model).Where("slug = ?", s)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&n).Error; err != nil {
		return false, err //nolint:wrapcheck
	}

	return n > 0, nil
}
