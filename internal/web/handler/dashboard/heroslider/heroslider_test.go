package heroslider

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

const (
	base  = "/api/dashboard/hero-sliders"
	pixel = "data:image/png;base64,iVBORw0KGgo="
)

func TestSliders(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "editor", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodPost, base, fiber.Map{
		"title": "First", "desktopImage": "https://img.test/d.jpg", "mobileImage": pixel,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ids := make([]string, 0, 2)

	for _, title := range []string{"First", "Second"} {
		resp = handlertest.Do(t, app, fiber.MethodPost, base, fiber.Map{
			"title": title, "isActive": true, "desktopImage": pixel, "mobileImage": pixel,
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var h models.HeroSlider
		handlertest.Data(t, handlertest.Decode(t, resp), &h)
		assert.Contains(t, h.DesktopImage, "https://media.test/")
		ids = append(ids, h.ID)
	}

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/reorder", fiber.Map{"ids": []string{ids[1], ids[0]}}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.HeroSlider
	handlertest.Data(t, handlertest.Decode(t, resp), &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/reorder", fiber.Map{"ids": []string{}}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/"+ids[0], nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/"+ids[0], nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
