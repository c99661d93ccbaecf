package projects

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/pagination"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

const (
	base  = "/api/dashboard/projects"
	pixel = "data:image/png;base64,iVBORw0KGgo="
)

func TestProjectsRequireAuth(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	resp := handlertest.Do(t, app, fiber.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "editor", models.RoleUser)

	body := fiber.Map{
		"name":          "Sunrise Residence",
		"location":      "Tangerang",
		"units":         12,
		"startingPrice": "1.2 M",
		"mainImage":     pixel,
		"galleryImages": []string{"https://img.test/g1.jpg", pixel},
	}

	resp := handlertest.Do(t, app, fiber.MethodPost, base, body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var p models.Project
	handlertest.Data(t, handlertest.Decode(t, resp), &p)
	assert.Equal(t, "sunrise-residence", p.Slug)
	assert.Equal(t, "https://media.test/projects/asset-1.png", p.MainImage)
	assert.Equal(t, []string{"https://img.test/g1.jpg", "https://media.test/projects/asset-2.png"}, p.GalleryImages)

	up, ok := deps.Uploader.(*media.Memory)
	require.True(t, ok)
	assert.Equal(t, []string{"projects", "projects"}, up.Uploads)

	resp = handlertest.Do(t, app, fiber.MethodPost, base, body, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	update := fiber.Map{
		"name":          "Sunrise Residence",
		"slug":          "sunrise-residence",
		"location":      "Serpong",
		"units":         12,
		"startingPrice": "1.3 M",
		"keepGallery":   []string{"https://img.test/g1.jpg"},
		"addGallery":    []string{"https://img.test/g3.jpg"},
	}

	resp = handlertest.Do(t, app, fiber.MethodPut, base+"/"+p.ID, update, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Project
	handlertest.Data(t, handlertest.Decode(t, resp), &updated)
	assert.Equal(t, "Serpong", updated.Location)
	assert.Equal(t, p.MainImage, updated.MainImage)
	assert.Equal(t, []string{"https://img.test/g1.jpg", "https://img.test/g3.jpg"}, updated.GalleryImages)

	resp = handlertest.Do(t, app, fiber.MethodPost, base+"/"+p.ID+"/units", fiber.Map{
		"name": "Type A", "status": "active", "bedrooms": 3,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var u models.Unit
	handlertest.Data(t, handlertest.Decode(t, resp), &u)
	assert.Equal(t, "type-a", u.Slug)
	assert.Equal(t, p.ID, u.ProjectID)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/"+p.ID+"/units", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var units pagination.Page[models.Unit]
	handlertest.Data(t, handlertest.Decode(t, resp), &units)
	assert.Equal(t, int64(1), units.Total)

	resp = handlertest.Do(t, app, fiber.MethodPut, "/api/dashboard/units/"+u.ID, fiber.Map{
		"name": "Type B", "status": "sold",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	handlertest.Data(t, handlertest.Decode(t, resp), &u)
	assert.Equal(t, "type-b", u.Slug)
	assert.Equal(t, models.UnitSold, u.Status)

	resp = handlertest.Do(t, app, fiber.MethodDelete, base+"/"+p.ID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, "/api/dashboard/units/"+u.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodGet, base+"/"+p.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidation(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, token := handlertest.User(t, deps, "editor", models.RoleUser)

	resp := handlertest.Do(t, app, fiber.MethodPost, base, fiber.Map{"name": "No Image"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
