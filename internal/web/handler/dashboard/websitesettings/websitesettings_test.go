package websitesettings

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settings "github.com/EstateCMS/EstateCMS/internal/db/controller/websitesettings"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

const base = "/api/dashboard/website-settings"

func TestSettingsAccess(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, userToken := handlertest.User(t, deps, "editor", models.RoleUser)
	_, adminToken := handlertest.User(t, deps, "boss", models.RoleAdmin)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", userToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.Do(t, app, fiber.MethodGet, base, nil, tt.token)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSettingsUpdate(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "boss", models.RoleAdmin)

	resp := handlertest.Do(t, app, fiber.MethodPut, base, fiber.Map{"siteTitle": ""}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPut, base, fiber.Map{
		"siteTitle":       "Sunrise Land",
		"logoLight":       "data:image/png;base64,iVBORw0KGgo=",
		"maintenanceMode": true,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	set, err := settings.Load(deps.DB)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Land", set.SiteTitle)
	assert.Equal(t, "https://media.test/website/asset-1.png", set.LogoLight)
	assert.True(t, set.MaintenanceMode)
}
