package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/handlertest"
)

func TestInitNilApp(t *testing.T) {
	_, deps := handlertest.New(t)
	assert.ErrorIs(t, (&Service{}).Init(nil, deps), handler.ErrNilDeps)
	assert.ErrorIs(t, (&Service{}).Init(fiber.New(), &handler.Deps{}), handler.ErrNilDeps)
}

func TestPages(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	_, userToken := handlertest.User(t, deps, "editor", models.RoleUser)
	_, adminToken := handlertest.User(t, deps, "boss", models.RoleAdmin)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		body   string
	}{
		{"overview", "/dashboard", userToken, http.StatusOK, TemplateName},
		{"section", "/dashboard/projects", userToken, http.StatusOK, "dashboard/projects"},
		{"section edit", "/dashboard/landing-pages/abc", userToken, http.StatusOK, "dashboard/landing-pages"},
		{"admin section as user", "/dashboard/settings", userToken, http.StatusForbidden, TemplateForbidden},
		{"admin section as admin", "/dashboard/users", adminToken, http.StatusOK, "dashboard/users"},
		{"overview key is not a section", "/dashboard/overview", userToken, http.StatusNotFound, ""},
		{"unknown section", "/dashboard/reports", userToken, http.StatusNotFound, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := handlertest.Do(t, app, fiber.MethodGet, tc.path, nil, tc.token)
			assert.Equal(t, tc.status, resp.StatusCode)

			body := handlertest.Body(t, resp)
			if tc.body != "" {
				assert.Equal(t, tc.body, body)
			}
		})
	}
}

func TestPageRedirectsToLogin(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	resp := handlertest.Do(t, app, fiber.MethodGet, "/dashboard/news", nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard%2Fnews", resp.Header.Get(fiber.HeaderLocation))
}

func TestStats(t *testing.T) {
	app, deps := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(app, deps))

	require.NoError(t, deps.DB.Create(&models.Project{Name: "Sunrise", Slug: "sunrise"}).Error)

	_, userToken := handlertest.User(t, deps, "editor", models.RoleUser)
	_, adminToken := handlertest.User(t, deps, "boss", models.RoleAdmin)

	resp := handlertest.Do(t, app, fiber.MethodGet, APIPath+"/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var st Stats

	resp = handlertest.Do(t, app, fiber.MethodGet, APIPath+"/stats", nil, userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	handlertest.Data(t, handlertest.Decode(t, resp), &st)
	assert.EqualValues(t, 1, st.Projects)
	assert.Zero(t, st.Users)

	resp = handlertest.Do(t, app, fiber.MethodGet, APIPath+"/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	handlertest.Data(t, handlertest.Decode(t, resp), &st)
	assert.EqualValues(t, 2, st.Users)
}

func TestStoreImage(t *testing.T) {
	up := &media.Memory{}

	got, err := StoreImage(t.Context(), up, "news", "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got)
	assert.Empty(t, up.Uploads)

	got, err = StoreImage(t.Context(), up, "news", "data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/news/asset-1.png", got)

	all, err := StoreImages(t.Context(), up, "news", []string{"/a.png", "data:image/png;base64,iVBORw0KGgo="})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.png", "https://media.test/news/asset-2.png"}, all)
}

func TestParseReorder(t *testing.T) {
	app := fiber.New()
	app.Put("/", func(c *fiber.Ctx) error {
		ids, err := ParseReorder(c)
		if err != nil {
			return err
		}

		return c.JSON(ids)
	})

	req := httptest.NewRequest(fiber.MethodPut, "/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = handlertest.Do(t, app, fiber.MethodPut, "/", fiber.Map{"ids": []string{"b", "a"}}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["b","a"]`, handlertest.Body(t, resp))
}
