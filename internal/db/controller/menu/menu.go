// Package menu manages the website navigation tree.
package menu

import (
	"errors"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrMenuNotFound is returned when no menu matches.
	ErrMenuNotFound = errors.New("Website Menu not found.") //nolint:stylecheck
	// ErrOwnParent is returned when a menu is set as its own parent.
	ErrOwnParent = errors.New("Menu cannot be its own parent.") //nolint:stylecheck
	// ErrParentNotFound is returned for an unknown parent id.
	ErrParentNotFound = errors.New("The selected parent menu does not exist.") //nolint:stylecheck
	// ErrCircular is returned when the new parent is a descendant.
	ErrCircular = errors.New("This would create a circular reference.") //nolint:stylecheck
	// ErrHasChildren is returned when deleting a menu with sub-menus.
	ErrHasChildren = errors.New("Cannot delete menu with sub-menus. Please delete sub-menus first.") //nolint:stylecheck
)

// BuildTree links items into a forest. Items whose parent is not in items
// become roots. Siblings are sorted by order.
func BuildTree(items []models.WebsiteMenu) []*models.WebsiteMenu {
	nodes := make(map[string]*models.WebsiteMenu, len(items))

	for i := range items {
		n := items[i]
		n.Children = []*models.WebsiteMenu{}
		nodes[n.ID] = &n
	}

	roots := []*models.WebsiteMenu{}

	for i := range items {
		n := nodes[items[i].ID]

		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)

				continue
			}
		}

		roots = append(roots, n)
	}

	sortTree(roots, 0)

	return roots
}

// sortTree stops 64 levels deep.
func sortTree(items []*models.WebsiteMenu, depth int) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	if depth > 64 { //nolint:mnd
		return
	}

	for _, it := range items {
		sortTree(it.Children, depth+1)
	}
}

// List returns every menu ordered by order.
func List(db *gorm.DB) ([]models.WebsiteMenu, error) {
	return list(db, false)
}

func list(db *gorm.DB, activeOnly bool) ([]models.WebsiteMenu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.Order("sort_order ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var out []models.WebsiteMenu

	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list website menus")
	}

	return out, nil
}

// Tree returns the menu forest, optionally only active entries.
func Tree(db *gorm.DB, activeOnly bool) ([]*models.WebsiteMenu, error) {
	items, err := list(db, activeOnly)
	if err != nil {
		return nil, err
	}

	return BuildTree(items), nil
}

// Get loads a menu by id.
func Get(db *gorm.DB, id string) (*models.WebsiteMenu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.WebsiteMenu

	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load website menu")
	}

	return &m, nil
}

func normalizeParent(m *models.WebsiteMenu) {
	if m.ParentID != nil && (*m.ParentID == "" || *m.ParentID == "none") {
		m.ParentID = nil
	}
}

func parentOf(db *gorm.DB, id string) (*string, bool, error) {
	var m models.WebsiteMenu

	err := db.Select("id", "parent_id").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, pkgerrors.Wrap(err, "failed to load parent menu")
	}

	return m.ParentID, true, nil
}

// checkParent validates parentID as the parent of menu id. id is empty for a new menu.
func checkParent(db *gorm.DB, id string, parentID *string) error {
	if parentID == nil {
		return nil
	}

	if id != "" && *parentID == id {
		return ErrOwnParent
	}

	visited := map[string]bool{}
	if id != "" {
		visited[id] = true
	}

	current := *parentID
	first := true

	for current != "" {
		if visited[current] {
			return ErrCircular
		}

		visited[current] = true

		next, ok, err := parentOf(db, current)
		if err != nil {
			return err
		}

		if !ok {
			if first {
				return ErrParentNotFound
			}

			break
		}

		first = false

		if next == nil {
			break
		}

		current = *next
	}

	return nil
}

// Create validates and stores a new menu.
func Create(db *gorm.DB, m *models.WebsiteMenu) error {
	if db == nil {
		return ErrDBNil
	}

	normalizeParent(m)

	if err := validation.Struct(m); err != nil {
		return err //nolint:wrapcheck
	}

	if err := checkParent(db, "", m.ParentID); err != nil {
		return err
	}

	return pkgerrors.Wrap(db.Create(m).Error, "failed to create website menu")
}

// Update replaces the editable fields of menu id.
func Update(db *gorm.DB, id string, in models.WebsiteMenu) (*models.WebsiteMenu, error) {
	m, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	normalizeParent(&in)

	if err := validation.Struct(&in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := checkParent(db, id, in.ParentID); err != nil {
		return nil, err
	}

	m.Title = in.Title
	m.URL = in.URL
	m.Order = in.Order
	m.IsActive = in.IsActive
	m.ParentID = in.ParentID
	m.IsMegaMenu = in.IsMegaMenu
	m.IconClass = in.IconClass
	m.Description = in.Description

	if err := db.Save(m).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update website menu")
	}

	return m, nil
}

// Delete removes a menu without sub-menus.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	var children int64

	if err := db.Model(&models.WebsiteMenu{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return pkgerrors.Wrap(err, "failed to count sub-menus")
	}

	if children > 0 {
		return ErrHasChildren
	}

	res := db.Where("id = ?", id).Delete(&models.WebsiteMenu{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete website menu")
	}

	if res.RowsAffected == 0 {
		return ErrMenuNotFound
	}

	return nil
}

// Reorder sets order to the position of each id in ids.
func Reorder(db *gorm.DB, ids []string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&models.WebsiteMenu{}).Where("id = ?", id).Update("sort_order", i).Error
			if err != nil {
				return pkgerrors.Wrap(err, "failed to reorder website menus")
			}
		}

		return nil
	})
}

// Cycle describes a menu whose ancestor chain loops back.
type Cycle struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parentId"`
	Self     bool   `json:"self"`
}

// FindCycles reports every menu that is its own ancestor. Descendants of
// a cycle are not reported.
func FindCycles(db *gorm.DB) ([]Cycle, error) {
	items, err := List(db)
	if err != nil {
		return nil, err
	}

	parents := make(map[string]string, len(items))
	for _, m := range items {
		if m.ParentID != nil {
			parents[m.ID] = *m.ParentID
		}
	}

	var out []Cycle

	for _, m := range items {
		if m.ParentID == nil {
			continue
		}

		if loops(m.ID, parents) {
			out = append(out, Cycle{ID: m.ID, Title: m.Title, ParentID: *m.ParentID, Self: m.ID == *m.ParentID})
		}
	}

	return out, nil
}

// loops reports whether following parents from id leads back to id.
func loops(id string, parents map[string]string) bool {
	visited := map[string]bool{}

	current, ok := parents[id]
	for ok && current != "" {
		if current == id {
			return true
		}

		if visited[current] {
			return false
		}

		visited[current] = true
		current, ok = parents[current]
	}

	return false
}

// ClearParents detaches the listed menus so they become roots.
func ClearParents(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	if len(ids) == 0 {
		return 0, nil
	}

	res := db.Model(&models.WebsiteMenu{}).Where("id IN ?", ids).Update("parent_id", nil)

	return res.RowsAffected, pkgerrors.Wrap(res.Error, "failed to clear parents")
}
