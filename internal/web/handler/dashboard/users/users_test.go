package users

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

const base = "/api/dashboard/users"

func TestUsersAdminOnly(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "editor", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodGet, base, nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserManagement(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	admin, token := handlertest.User(t, deps, "boss", models.RoleAdmin)

	resp := handlertest.Do(t, app, fiber.MethodPost, base, fiber.Map{
		"username": "agent", "email": "agent@example.com", "name": "Agent Smith", "password": "secret123",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var u models.User
	handlertest.Data(t, handlertest.Decode(t, resp), &u)
	assert.Equal(t, models.RoleUser, u.Role)

	resp = handlertest.Do(t, app, fiber.MethodPost, base, fiber.Map{
		"username": "agent", "email": "other@example.com", "name": "Agent Two", "password": "secret123",
	}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	tests := []struct {
		name   string
		id     string
		role   string
		status int
	}{
		{"promote", u.ID, "admin", http.StatusOK},
		{"bad role", u.ID, "owner", http.StatusBadRequest},
		{"self demote", admin.ID, "user", http.StatusBadRequest},
		{"unknown", "nope", "user", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.Do(t, app, fiber.MethodPut, base+"/"+tt.id+"/role", fiber.Map{"role": tt.role}, token)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	got, err := user.Get(deps.DB, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/"+admin.ID, nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/"+u.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.User
	handlertest.Data(t, handlertest.Decode(t, resp), &list)
	assert.Len(t, list, 1)
}

func TestRoleChangeAndDeleteApplyToOpenSessions(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "boss", models.RoleAdmin)
	deputy, deputyToken := handlertest.User(t, deps, "deputy", models.RoleAdmin)

	resp := handlertest.Do(t, app, fiber.MethodGet, base, nil, deputyToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/"+deputy.ID+"/role", fiber.Map{"role": "user"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base, nil, deputyToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "demotion applies to an issued token")

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/"+deputy.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base, nil, deputyToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "deleted accounts lose their session")
}
