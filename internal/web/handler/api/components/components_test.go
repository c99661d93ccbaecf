package components

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/component"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

func TestComponents(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	added, err := component.SeedSystem(deps.DB)
	require.NoError(t, err)
	require.Positive(t, added)

	_, token := handlertest.User(t, deps, "alice", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodGet, Path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, Path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.LandingPageComponent
	handlertest.Data(t, handlertest.Decode(t, resp), &list)
	require.Len(t, list, added)
	assert.True(t, list[0].IsSystem)

	resp = handlertest.Do(t, app, fiber.MethodPut, Path+"/"+list[0].ID,
		fiber.Map{"name": "Mine", "type": list[0].Type, "config": fiber.Map{}}, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPost, Path,
		fiber.Map{"name": "Big CTA", "type": "cta", "config": fiber.Map{"buttonText": "Go"}}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.LandingPageComponent
	handlertest.Data(t, handlertest.Decode(t, resp), &created)
	assert.False(t, created.IsSystem)
	assert.Equal(t, "alice", created.CreatedBy)

	resp = handlertest.Do(t, app, fiber.MethodPost, Path,
		fiber.Map{"name": "Odd", "type": "marquee", "config": fiber.Map{}}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPut, Path+"/"+created.ID,
		fiber.Map{"name": "Bigger CTA", "type": "cta", "config": fiber.Map{"buttonText": "Go!"}}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, Path+"?type=cta", nil, token)
	handlertest.Data(t, handlertest.Decode(t, resp), &list)

	names := make([]string, 0, len(list))
	for _, c := range list {
		assert.Equal(t, landing.CTA, c.Type)
		names = append(names, c.Name)
	}

	assert.Contains(t, names, "Bigger CTA")

	resp = handlertest.Do(t, app, fiber.MethodDelete, Path+"/"+created.ID, nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodDelete, Path+"/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDefault(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "alice", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodGet, Path+"/defaults/faq", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c landing.Component
	handlertest.Data(t, handlertest.Decode(t, resp), &c)
	assert.Equal(t, landing.FAQ, c.Type)
	assert.NotEmpty(t, c.Config)

	resp = handlertest.Do(t, app, fiber.MethodGet, Path+"/defaults/marquee", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
