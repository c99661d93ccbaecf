// Package kanban manages the internal task boards.
package kanban

import (
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrBoardNotFound is returned when no board matches.
	ErrBoardNotFound = errors.New("board not found")
	// ErrColumnNotFound is returned when no column matches.
	ErrColumnNotFound = errors.New("column not found")
	// ErrTaskNotFound is returned when no task matches.
	ErrTaskNotFound = errors.New("task not found")
	// ErrColumnBoardMismatch is returned when a task moves to a column of another board.
	ErrColumnBoardMismatch = errors.New("column belongs to another board")
	// ErrMixedBoards is returned when a reorder names ids of several boards.
	ErrMixedBoards = errors.New("ids belong to more than one board")
)

// DefaultColumns are created with every new board.
var DefaultColumns = []string{"To Do", "In Progress", "Done"} //nolint:gochecknoglobals

func notFound(err, sentinel error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}

	return pkgerrors.Wrap(err, msg)
}

// ListBoards returns the boards of userID plus the shared system boards.
func ListBoards(db *gorm.DB, userID string) ([]models.KanbanBoard, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.KanbanBoard

	err := db.Where("user_id = ? OR user_id = ?", userID, models.SystemBoardOwner).
		Order("created_at DESC").Find(&out).Error

	return out, pkgerrors.Wrap(err, "failed to list boards")
}

// GetBoard loads a board with its ordered columns and tasks.
func GetBoard(db *gorm.DB, id string) (*models.KanbanBoard, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.KanbanBoard

	err := db.
		Preload("Columns", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Columns.Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, notFound(err, ErrBoardNotFound, "failed to load board")
	}

	return &b, nil
}

// CreateBoard stores b with the default columns.
func CreateBoard(db *gorm.DB, b *models.KanbanBoard) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validation.Struct(b); err != nil {
		return err //nolint:wrapcheck
	}

	if b.UserID == "" {
		b.UserID = models.SystemBoardOwner
	}

	return db.Transaction(func(tx *gorm.DB) error {
		b.Columns = nil

		if err := tx.Create(b).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to create board")
		}

		for i, title := range DefaultColumns {
			c := models.KanbanColumn{BoardID: b.ID, Title: title, Order: i}

			if err := tx.Create(&c).Error; err != nil {
				return pkgerrors.Wrap(err, "failed to create default column")
			}

			b.Columns = append(b.Columns, c)
		}

		return nil
	})
}

// UpdateBoard changes title and description.
func UpdateBoard(db *gorm.DB, id, title, description string) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validation.Var("title", title, "required"); err != nil {
		return err //nolint:wrapcheck
	}

	res := db.Model(&models.KanbanBoard{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "description": description})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to update board")
	}

	if res.RowsAffected == 0 {
		return ErrBoardNotFound
	}

	return nil
}

// DeleteBoard removes a board with its columns and tasks.
func DeleteBoard(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&models.KanbanTask{}).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to delete tasks")
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.KanbanColumn{}).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to delete columns")
		}

		res := tx.Where("id = ?", id).Delete(&models.KanbanBoard{})
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "failed to delete board")
		}

		if res.RowsAffected == 0 {
			return ErrBoardNotFound
		}

		return nil
	})
}

// nextOrder returns MAX(sort_order)+1 of model rows matching where, or 0.
func nextOrder(db *gorm.DB, model any, where string, arg any) (int, error) {
	var maxOrder sql.NullInt64

	err := db.Model(model).Where(where, arg).Select("MAX(sort_order)").Row().Scan(&maxOrder)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to read order")
	}

	if !maxOrder.Valid {
		return 0, nil
	}

	return int(maxOrder.Int64) + 1, nil
}

// ListColumns returns the columns of a board by order.
func ListColumns(db *gorm.DB, boardID string) ([]models.KanbanColumn, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.KanbanColumn

	err := db.Where("board_id = ?", boardID).Order("sort_order ASC").Find(&out).Error

	return out, pkgerrors.Wrap(err, "failed to list columns")
}

// CreateColumn appends a column to its board.
func CreateColumn(db *gorm.DB, c *models.KanbanColumn) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validation.Struct(c); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := GetBoard(db, c.BoardID); err != nil {
		return err
	}

	order, err := nextOrder(db, &models.KanbanColumn{}, "board_id = ?", c.BoardID)
	if err != nil {
		return err
	}

	c.Order = order
	c.Tasks = nil

	return pkgerrors.Wrap(db.Create(c).Error, "failed to create column")
}

// UpdateColumn changes title and color. Empty values are left unchanged.
func UpdateColumn(db *gorm.DB, id, title, color string) error {
	if db == nil {
		return ErrDBNil
	}

	updates := map[string]any{}
	if title != "" {
		updates["title"] = title
	}

	if color != "" {
		updates["color"] = color
	}

	if len(updates) == 0 {
		return nil
	}

	res := db.Model(&models.KanbanColumn{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to update column")
	}

	if res.RowsAffected == 0 {
		return ErrColumnNotFound
	}

	return nil
}

func reorder(db *gorm.DB, model any, ids []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(model).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return pkgerrors.Wrap(err, "failed to reorder")
			}
		}

		return nil
	})
}

// boardOf returns the board all ids of model belong to. Unknown ids give
// notFoundErr, ids spread over boards give ErrMixedBoards.
func boardOf(db *gorm.DB, model any, ids []string, notFoundErr error) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	unique := map[string]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var rows []struct {
		ID      string
		BoardID string
	}

	if err := db.Model(model).Select("id, board_id").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return "", pkgerrors.Wrap(err, "failed to load board ids")
	}

	if len(rows) != len(unique) {
		return "", notFoundErr
	}

	boardID := rows[0].BoardID

	for _, r := range rows[1:] {
		if r.BoardID != boardID {
			return "", ErrMixedBoards
		}
	}

	return boardID, nil
}

// ColumnsBoard returns the board the columns ids belong to.
func ColumnsBoard(db *gorm.DB, ids []string) (string, error) {
	return boardOf(db, &models.KanbanColumn{}, ids, ErrColumnNotFound)
}

// TasksBoard returns the board the tasks ids belong to.
func TasksBoard(db *gorm.DB, ids []string) (string, error) {
	return boardOf(db, &models.KanbanTask{}, ids, ErrTaskNotFound)
}

// ReorderColumns sets order to the position of each id in ids.
func ReorderColumns(db *gorm.DB, ids []string) error {
	if db == nil {
		return ErrDBNil
	}

	return reorder(db, &models.KanbanColumn{}, ids)
}

// DeleteColumn removes a column and its tasks.
func DeleteColumn(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", id).Delete(&models.KanbanTask{}).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to delete tasks")
		}

		res := tx.Where("id = ?", id).Delete(&models.KanbanColumn{})
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "failed to delete column")
		}

		if res.RowsAffected == 0 {
			return ErrColumnNotFound
		}

		return nil
	})
}

// GetColumn loads a column by id.
func GetColumn(db *gorm.DB, id string) (*models.KanbanColumn, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return getColumn(db, id)
}

func getColumn(db *gorm.DB, id string) (*models.KanbanColumn, error) {
	var c models.KanbanColumn

	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, ErrColumnNotFound, "failed to load column")
	}

	return &c, nil
}

// ListTasks returns the tasks of a board by order.
func ListTasks(db *gorm.DB, boardID string) ([]models.KanbanTask, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.KanbanTask

	err := db.Where("board_id = ?", boardID).Order("sort_order ASC").Find(&out).Error

	return out, pkgerrors.Wrap(err, "failed to list tasks")
}

// GetTask loads a task by id.
func GetTask(db *gorm.DB, id string) (*models.KanbanTask, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.KanbanTask

	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, ErrTaskNotFound, "failed to load task")
	}

	return &t, nil
}

// CreateTask appends a task to its column. The board is taken from the column.
func CreateTask(db *gorm.DB, t *models.KanbanTask) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validation.Struct(t); err != nil {
		return err //nolint:wrapcheck
	}

	c, err := getColumn(db, t.ColumnID)
	if err != nil {
		return err
	}

	order, err := nextOrder(db, &models.KanbanTask{}, "column_id = ?", c.ID)
	if err != nil {
		return err
	}

	t.BoardID = c.BoardID
	t.Order = order

	if t.Tags == nil {
		t.Tags = []string{}
	}

	return pkgerrors.Wrap(db.Create(t).Error, "failed to create task")
}

// UpdateTask replaces the editable fields of task id.
func UpdateTask(db *gorm.DB, id string, in models.KanbanTask) (*models.KanbanTask, error) {
	t, err := GetTask(db, id)
	if err != nil {
		return nil, err
	}

	in.ColumnID = t.ColumnID
	in.BoardID = t.BoardID

	if in.Priority == "" {
		in.Priority = t.Priority
	}

	if err := validation.Struct(&in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	t.Title = in.Title
	t.Description = in.Description
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	t.AssignedTo = in.AssignedTo

	if in.Tags != nil {
		t.Tags = in.Tags
	}

	if err := db.Save(t).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update task")
	}

	return t, nil
}

// MoveTask puts a task in columnID at order.
func MoveTask(db *gorm.DB, id, columnID string, order int) error {
	t, err := GetTask(db, id)
	if err != nil {
		return err
	}

	c, err := getColumn(db, columnID)
	if err != nil {
		return err
	}

	if c.BoardID != t.BoardID {
		return ErrColumnBoardMismatch
	}

	err = db.Model(&models.KanbanTask{}).Where("id = ?", id).
		Updates(map[string]any{"column_id": columnID, "sort_order": order}).Error

	return pkgerrors.Wrap(err, "failed to move task")
}

// ReorderTasks sets order to the position of each id in ids.
func ReorderTasks(db *gorm.DB, ids []string) error {
	if db == nil {
		return ErrDBNil
	}

	return reorder(db, &models.KanbanTask{}, ids)
}

// DeleteTask removes a task.
func DeleteTask(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where("id = ?", id).Delete(&models.KanbanTask{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "failed to delete task")
	}

	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
