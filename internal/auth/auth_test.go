package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/storage"
)

var alice = &models.User{ //nolint:gochecknoglobals
	ID: "u1", Name: "Alice", Email: "alice@example.com", Username: "alice", Role: models.RoleUser,
}

func newService(t *testing.T) *Service {
	t.Helper()

	s, err := NewService(config.Auth{JWTSecret: "test-secret"}, storage.NewGorm(dbtest.New(t)))
	require.NoError(t, err)

	return s
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(config.Auth{}, nil)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueParseRoundTrip(t *testing.T) {
	s := newService(t)

	token, exp, err := s.Issue(alice, false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), exp, time.Minute)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "alice@example.com", claims.User().Email)

	_, exp, err = s.Issue(alice, true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(RememberTTL), exp, time.Minute)
}

func TestParseRejects(t *testing.T) {
	s := newService(t)

	other, err := NewService(config.Auth{JWTSecret: "other"}, nil)
	require.NoError(t, err)

	foreign, _, err := other.Issue(alice, false)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := s.Issue(alice, false)
	require.NoError(t, err)

	s.now = time.Now

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"alg none", none, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Parse(tc.token)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRevoke(t *testing.T) {
	s := newService(t)

	token, _, err := s.Issue(alice, false)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(claims))

	_, err = s.Parse(token)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestMiddleware(t *testing.T) {
	s := newService(t)

	userToken, _, err := s.Issue(alice, false)
	require.NoError(t, err)

	admin := *alice
	admin.Role = models.RoleAdmin
	adminToken, _, err := s.Issue(&admin, false)
	require.NoError(t, err)

	app := fiber.New()
	api := app.Group("/api", RequireAuth(s))
	api.Get("/me", func(c *fiber.Ctx) error { return c.SendString(CurrentUser(c).Username) })
	api.Get("/admin", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/dashboard", RequirePage(s, "/login"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name   string
		path   string
		cookie string
		bearer string
		want   int
	}{
		{"no token", "/api/me", "", "", fiber.StatusUnauthorized},
		{"cookie", "/api/me", userToken, "", fiber.StatusOK},
		{"bearer", "/api/me", "", userToken, fiber.StatusOK},
		{"user on admin route", "/api/admin", userToken, "", fiber.StatusForbidden},
		{"admin on admin route", "/api/admin", adminToken, "", fiber.StatusOK},
		{"page redirect", "/dashboard", "", "", fiber.StatusFound},
		{"page ok", "/dashboard", userToken, "", fiber.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCookie, Value: tc.cookie})
			}

			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestLocalProviderLogin(t *testing.T) {
	db := dbtest.New(t)

	s, err := NewService(config.Auth{JWTSecret: "test-secret"}, storage.NewGorm(db))
	require.NoError(t, err)

	_, err = user.Create(db, user.Registration{
		Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "secret1",
	})
	require.NoError(t, err)

	p := NewLocalProvider(db, s)

	u, token, _, err := p.Login("alice@example.com", "secret1", false)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)

	me, err := p.Me(claims)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)

	_, _, _, err = p.Login("alice@example.com", "nope", false)
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestUseAccountsReloadsIdentity(t *testing.T) {
	db := dbtest.New(t)

	s, err := NewService(config.Auth{JWTSecret: "test-secret"}, storage.NewGorm(db))
	require.NoError(t, err)

	s.UseAccounts(db)

	u, err := user.Create(db, user.Registration{
		Username: "carol", Email: "carol@example.com", Name: "Carol", Password: "secret1", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	token, _, err := s.Issue(u, true)
	require.NoError(t, err)

	app := fiber.New()
	api := app.Group("/api", RequireAuth(s))
	api.Get("/admin", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(string(CurrentUser(c).Role))
	})

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)

		defer func() { _ = resp.Body.Close() }()

		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call())

	require.NoError(t, user.UpdateRole(db, u.ID, models.RoleUser))
	assert.Equal(t, fiber.StatusForbidden, call())

	require.NoError(t, user.Delete(db, u.ID))
	assert.Equal(t, fiber.StatusUnauthorized, call())
}
