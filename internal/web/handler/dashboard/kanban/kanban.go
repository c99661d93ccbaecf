// Package kanban provides the dashboard endpoints of the task boards.
package kanban

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	boards "github.com/EstateCMS/EstateCMS/internal/db/controller/kanban"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the kanban endpoints path below the dashboard API.
const Path = "/kanban"

// BoardRequest is the body of board create and update.
type BoardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ColumnRequest is the body of column create and update.
type ColumnRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

// MoveRequest moves a task to a column position.
type MoveRequest struct {
	ColumnID string `json:"columnId"`
	Order    int    `json:"order"`
}

// Service is the kanban handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the kanban handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	dashboard.Group(app, deps, Path, func(router fiber.Router) {
		router.Get("/boards", s.ListBoards)
		router.Post("/boards", s.CreateBoard)
		router.Get("/boards/:id", s.GetBoard)
		router.Put("/boards/:id", s.UpdateBoard)
		router.Delete("/boards/:id", s.DeleteBoard)
		router.Get("/boards/:id/columns", s.ListColumns)
		router.Post("/boards/:id/columns", s.CreateColumn)
		router.Get("/boards/:id/tasks", s.ListTasks)

		router.Put("/columns/reorder", s.ReorderColumns)
		router.Put("/columns/:id", s.UpdateColumn)
		router.Delete("/columns/:id", s.DeleteColumn)

		router.Post("/tasks", s.CreateTask)
		router.Put("/tasks/reorder", s.ReorderTasks)
		router.Get("/tasks/:id", s.GetTask)
		router.Put("/tasks/:id", s.UpdateTask)
		router.Put("/tasks/:id/move", s.MoveTask)
		router.Delete("/tasks/:id", s.DeleteTask)
	})

	return nil
}

// visible reports whether u may see board b: its owner, shared boards and admins.
func visible(u *models.User, b *models.KanbanBoard) bool {
	return u != nil && (b.UserID == u.ID || b.UserID == models.SystemBoardOwner || u.IsAdmin())
}

// board loads the :id board when the caller may see it.
func (s *Service) board(c *fiber.Ctx) (*models.KanbanBoard, error) {
	return s.boardByID(c, c.Params("id"), boards.ErrBoardNotFound)
}

// boardByID loads board id when the caller may see it. Hidden boards
// answer hidden, so they look like missing rows.
func (s *Service) boardByID(c *fiber.Ctx, id string, hidden error) (*models.KanbanBoard, error) {
	b, err := boards.GetBoard(s.deps.DB, id)
	if errors.Is(err, boards.ErrBoardNotFound) {
		return nil, hidden
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !visible(auth.CurrentUser(c), b) {
		return nil, hidden
	}

	return b, nil
}

// column loads column id when the caller may see its board.
func (s *Service) column(c *fiber.Ctx, id string) (*models.KanbanColumn, error) {
	col, err := boards.GetColumn(s.deps.DB, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := s.boardByID(c, col.BoardID, boards.ErrColumnNotFound); err != nil {
		return nil, err
	}

	return col, nil
}

// task loads the :id task when the caller may see its board.
func (s *Service) task(c *fiber.Ctx) (*models.KanbanTask, error) {
	t, err := boards.GetTask(s.deps.DB, c.Params("id"))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := s.boardByID(c, t.BoardID, boards.ErrTaskNotFound); err != nil {
		return nil, err
	}

	return t, nil
}

// ListBoards returns the boards of the caller and the shared boards.
func (s *Service) ListBoards(c *fiber.Ctx) error {
	out, err := boards.ListBoards(s.deps.DB, auth.CurrentUser(c).ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// CreateBoard creates a board owned by the caller with the default columns.
func (s *Service) CreateBoard(c *fiber.Ctx) error {
	var req BoardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	b := models.KanbanBoard{
		Title:       req.Title,
		Description: req.Description,
		UserID:      auth.CurrentUser(c).ID,
	}

	if err := boards.CreateBoard(s.deps.DB, &b); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, b)
}

// GetBoard returns a board with its columns and tasks.
func (s *Service) GetBoard(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, b)
}

// UpdateBoard changes title and description.
func (s *Service) UpdateBoard(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req BoardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := boards.UpdateBoard(s.deps.DB, b.ID, req.Title, req.Description); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Board updated successfully")
}

// DeleteBoard removes a board with its columns and tasks.
func (s *Service) DeleteBoard(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := boards.DeleteBoard(s.deps.DB, b.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Board deleted successfully")
}

// ListColumns returns the columns of a board.
func (s *Service) ListColumns(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	out, err := boards.ListColumns(s.deps.DB, b.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// CreateColumn appends a column to a board.
func (s *Service) CreateColumn(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req ColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	col := models.KanbanColumn{BoardID: b.ID, Title: req.Title, Color: req.Color}

	if err := boards.CreateColumn(s.deps.DB, &col); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, col)
}

// UpdateColumn changes title and color.
func (s *Service) UpdateColumn(c *fiber.Ctx) error {
	col, err := s.column(c, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	var req ColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := boards.UpdateColumn(s.deps.DB, col.ID, req.Title, req.Color); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Column updated successfully")
}

// ReorderColumns stores the order of the posted column ids.
func (s *Service) ReorderColumns(c *fiber.Ctx) error {
	ids, err := dashboard.ParseReorder(c)
	if err != nil {
		return response.Error(c, err)
	}

	boardID, err := boards.ColumnsBoard(s.deps.DB, ids)
	if err != nil {
		return response.Error(c, err)
	}

	if _, err := s.boardByID(c, boardID, boards.ErrColumnNotFound); err != nil {
		return response.Error(c, err)
	}

	if err := boards.ReorderColumns(s.deps.DB, ids); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Columns reordered successfully")
}

// DeleteColumn removes a column and its tasks.
func (s *Service) DeleteColumn(c *fiber.Ctx) error {
	col, err := s.column(c, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if err := boards.DeleteColumn(s.deps.DB, col.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Column deleted successfully")
}

// ListTasks returns the tasks of a board.
func (s *Service) ListTasks(c *fiber.Ctx) error {
	b, err := s.board(c)
	if err != nil {
		return response.Error(c, err)
	}

	out, err := boards.ListTasks(s.deps.DB, b.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// CreateTask appends a task to the column named in the body.
func (s *Service) CreateTask(c *fiber.Ctx) error {
	var t models.KanbanTask
	if err := c.BodyParser(&t); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	t.ID = ""

	if _, err := s.column(c, t.ColumnID); err != nil {
		return response.Error(c, err)
	}

	if err := boards.CreateTask(s.deps.DB, &t); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, t)
}

// GetTask returns one task.
func (s *Service) GetTask(c *fiber.Ctx) error {
	t, err := s.task(c)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, t)
}

// UpdateTask changes the editable fields of a task.
func (s *Service) UpdateTask(c *fiber.Ctx) error {
	current, err := s.task(c)
	if err != nil {
		return response.Error(c, err)
	}

	var in models.KanbanTask
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	t, err := boards.UpdateTask(s.deps.DB, current.ID, in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, t)
}

// MoveTask puts a task into a column of the same board.
func (s *Service) MoveTask(c *fiber.Ctx) error {
	t, err := s.task(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req MoveRequest
	if err := c.BodyParser(&req); err != nil || req.ColumnID == "" {
		return response.Fail(c, fiber.StatusBadRequest, "columnId is required")
	}

	// the target column must be on the same board
	if err := boards.MoveTask(s.deps.DB, t.ID, req.ColumnID, req.Order); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Task moved successfully")
}

// ReorderTasks stores the order of the posted task ids.
func (s *Service) ReorderTasks(c *fiber.Ctx) error {
	ids, err := dashboard.ParseReorder(c)
	if err != nil {
		return response.Error(c, err)
	}

	boardID, err := boards.TasksBoard(s.deps.DB, ids)
	if err != nil {
		return response.Error(c, err)
	}

	if _, err := s.boardByID(c, boardID, boards.ErrTaskNotFound); err != nil {
		return response.Error(c, err)
	}

	if err := boards.ReorderTasks(s.deps.DB, ids); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Tasks reordered successfully")
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(c *fiber.Ctx) error {
	t, err := s.task(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := boards.DeleteTask(s.deps.DB, t.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Task deleted successfully")
}
