// Package pagination holds the page envelope shared by list controllers.
package pagination

import (
	"gorm.io/gorm"
)

// MaxLimit caps any requested page size.
const MaxLimit = 100

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Normalize clamps page and limit. A non-positive limit becomes def.
func Normalize(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = def
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}

	return int((total + int64(limit) - 1) / int64(limit))
}

// New builds a page envelope.
func New[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}

	pages := TotalPages(total, limit)

	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

// Find counts q, then loads the requested page into a new slice.
// q must already carry filters and ordering.
func Find[T any](q *gorm.DB, page, limit int) (Page[T], error) {
	var (
		total int64
		items []T
	)

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, err //nolint:wrapcheck
	}

	if err := q.Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return Page[T]{}, err //nolint:wrapcheck
	}

	return New(items, total, page, limit), nil
}
