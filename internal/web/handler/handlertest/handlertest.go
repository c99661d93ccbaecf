// Package handlertest builds fiber apps with in-memory dependencies for
// handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/pagecache"
	"github.com/EstateCMS/EstateCMS/internal/web/storage"
)

// Secret signs test tokens.
const Secret = "test-secret"

// Views is a minimal fiber Views engine. It writes the template name,
// followed by the "error" entry of a fiber.Map when present.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = fmt.Fprintf(w, ": %v", v)
		}
	}

	return nil
}

// Config returns a config suitable for tests.
func Config() *config.Config {
	return &config.Config{
		Title: "EstateCMS",
		Webserver: config.Webserver{
			URL:           "http://localhost:3000",
			Port:          3000,
			MaxUploadSize: 5 << 20,
		},
		Auth: config.Auth{
			JWTSecret:  Secret,
			TokenTTL:   time.Hour,
			CookieName: auth.DefaultCookie,
		},
	}
}

// New returns a fiber app using Views and dependencies backed by an
// in-memory database.
func New(t *testing.T) (*fiber.App, *handler.Deps) {
	t.Helper()

	db := dbtest.New(t)
	cfg := Config()
	store := storage.NewGorm(db)

	svc, err := auth.NewService(cfg.Auth, store)
	require.NoError(t, err)

	svc.UseAccounts(db)

	renderer, err := landing.NewRenderer()
	require.NoError(t, err)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Auth:     svc,
		Uploader: &media.Memory{},
		Cache:    pagecache.New(store, time.Minute, cfg.Auth.CookieName),
		Store:    store,
		Landing:  renderer,
	}

	app := fiber.New(fiber.Config{Views: Views{}})

	return app, deps
}

// User creates an account with role and returns it with a bearer token.
func User(t *testing.T, deps *handler.Deps, username string, role models.Role) (*models.User, string) {
	t.Helper()

	u, err := user.Create(deps.DB, user.Registration{
		Username: username,
		Email:    username + "@example.com",
		Name:     username + " name",
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)

	token, _, err := deps.Auth.Issue(u, false)
	require.NoError(t, err)

	return u, token
}

// Do sends a request with an optional JSON body and bearer token.
func Do(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Envelope is the decoded API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// Decode reads the envelope of resp.
func Decode(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	defer resp.Body.Close()

	var env Envelope

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return env
}

// Data unmarshals the data of env into v.
func Data(t *testing.T, env Envelope, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(env.Data, v))
}

// Body reads resp as a string.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(raw)
}
