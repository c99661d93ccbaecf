package kanban

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

const base = "/api/dashboard/kanban"

func TestBoardFlow(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	owner, token := handlertest.User(t, deps, "alice", models.RoleUser)
	_, other := handlertest.User(t, deps, "bob", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodPost, base+"/boards", fiber.Map{"title": "Launch"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var b models.KanbanBoard
	handlertest.Data(t, handlertest.Decode(t, resp), &b)
	assert.Equal(t, owner.ID, b.UserID)
	require.Len(t, b.Columns, 3)

	todo, done := b.Columns[0], b.Columns[2]

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/boards/"+b.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/tasks", fiber.Map{
		"columnId": todo.ID, "title": "Print brochures", "priority": "high",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task models.KanbanTask
	handlertest.Data(t, handlertest.Decode(t, resp), &task)
	assert.Equal(t, b.ID, task.BoardID)
	assert.Equal(t, models.PriorityHigh, task.Priority)

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/tasks", fiber.Map{
		"columnId": todo.ID, "title": "Bad", "priority": "someday",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/tasks/"+task.ID+"/move", fiber.Map{
		"columnId": done.ID, "order": 0,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/boards/"+b.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	handlertest.Data(t, handlertest.Decode(t, resp), &b)
	assert.Empty(t, b.Columns[0].Tasks)
	require.Len(t, b.Columns[2].Tasks, 1)
	assert.Equal(t, "Print brochures", b.Columns[2].Tasks[0].Title)

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/tasks/"+task.ID+"/move", fiber.Map{}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/boards/"+b.ID+"/columns", fiber.Map{"title": "Blocked"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var col models.KanbanColumn
	handlertest.Data(t, handlertest.Decode(t, resp), &col)
	assert.Equal(t, 3, col.Order)
	assert.Equal(t, models.DefaultColumnColor, col.Color)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/boards", nil, other)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.KanbanBoard
	handlertest.Data(t, handlertest.Decode(t, resp), &list)
	assert.Empty(t, list)

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/boards/"+b.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/tasks/"+task.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestColumnAndTaskRoutesHideForeignBoards(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "alice", models.RoleUser)
	_, other := handlertest.User(t, deps, "bob", models.RoleUser)
	_, admin := handlertest.User(t, deps, "root", models.RoleAdmin)

	resp := handlertest.Do(t, app, fiber.MethodPost, base+"/boards", fiber.Map{"title": "Private"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var b models.KanbanBoard
	handlertest.Data(t, handlertest.Decode(t, resp), &b)
	require.Len(t, b.Columns, 3)

	todo, doing := b.Columns[0], b.Columns[1]

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/tasks", fiber.Map{
		"columnId": todo.ID, "title": "Sign contract",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task models.KanbanTask
	handlertest.Data(t, handlertest.Decode(t, resp), &task)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"get task", fiber.MethodGet, base + "/tasks/" + task.ID, nil},
		{"update task", fiber.MethodPut, base + "/tasks/" + task.ID, fiber.Map{"title": "Mine now"}},
		{"move task", fiber.MethodPut, base + "/tasks/" + task.ID + "/move", fiber.Map{"columnId": doing.ID}},
		{"delete task", fiber.MethodDelete, base + "/tasks/" + task.ID, nil},
		{"create task", fiber.MethodPost, base + "/tasks", fiber.Map{"columnId": todo.ID, "title": "Planted"}},
		{"update column", fiber.MethodPut, base + "/columns/" + todo.ID, fiber.Map{"title": "Renamed"}},
		{"delete column", fiber.MethodDelete, base + "/columns/" + todo.ID, nil},
		{"reorder columns", fiber.MethodPut, base + "/columns/reorder", fiber.Map{"ids": []string{doing.ID, todo.ID}}},
		{"reorder tasks", fiber.MethodPut, base + "/tasks/reorder", fiber.Map{"ids": []string{task.ID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.Do(t, app, tt.method, tt.path, tt.body, other)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/boards/"+b.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	handlertest.Data(t, handlertest.Decode(t, resp), &b)
	require.Len(t, b.Columns, 3)
	assert.Equal(t, todo.ID, b.Columns[0].ID)
	assert.Equal(t, todo.Title, b.Columns[0].Title)
	require.Len(t, b.Columns[0].Tasks, 1)
	assert.Equal(t, "Sign contract", b.Columns[0].Tasks[0].Title)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/tasks/"+task.ID, nil, admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/boards", fiber.Map{"title": "Other"}, other)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var mine models.KanbanBoard
	handlertest.Data(t, handlertest.Decode(t, resp), &mine)

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/columns/reorder", fiber.Map{
		"ids": []string{mine.Columns[0].ID, todo.ID},
	}, other)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
