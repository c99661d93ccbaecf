package auth

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const claimsKey = "claims"

// TokenFromRequest returns the token from the session cookie or the
// Authorization bearer header.
func (s *Service) TokenFromRequest(c *fiber.Ctx) string {
	if t := c.Cookies(s.cookie); t != "" {
		return t
	}

	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") { //nolint:mnd
		return strings.TrimSpace(h[7:])
	}

	return ""
}

// CurrentClaims returns the claims stored by the middleware, or nil.
func CurrentClaims(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsKey).(*Claims)

	return claims
}

// CurrentUser returns the identity of the request, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	if claims := CurrentClaims(c); claims != nil {
		return claims.User()
	}

	return nil
}

func (s *Service) resolve(c *fiber.Ctx) (*Claims, error) {
	claims, err := s.Parse(s.TokenFromRequest(c))
	if err != nil {
		return nil, err
	}

	if err := s.refresh(claims); err != nil {
		return nil, err
	}

	c.Locals(claimsKey, claims)
	c.Locals("CurrentUser", claims.User())

	return claims, nil
}

// Optional stores the claims of a valid token but never rejects.
func Optional(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _ = s.resolve(c)

		return c.Next()
	}
}

// RequireAuth rejects API requests without a valid token with 401.
func RequireAuth(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := s.resolve(c); err != nil {
			if !errors.Is(err, ErrMissingToken) {
				log.Debug().Err(err).Str("path", c.Path()).Msg("rejected token")
			}

			return response.Fail(c, fiber.StatusUnauthorized, err.Error())
		}

		return c.Next()
	}
}

// RequirePage redirects browser requests without a valid token to loginPath.
func RequirePage(s *Service, loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := s.resolve(c); err != nil {
			s.ClearCookie(c)

			return c.Redirect(loginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
		}

		return c.Next()
	}
}

// RequireRole rejects requests whose role is not listed with 403.
// It must run after RequireAuth or RequirePage.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return response.Fail(c, fiber.StatusUnauthorized, ErrMissingToken.Error())
		}

		if !slices.Contains(roles, claims.Role) {
			log.Warn().Str("user", claims.Username).Str("role", string(claims.Role)).Str("path", c.Path()).
				Msg("user lacks required role")

			return response.Fail(c, fiber.StatusForbidden, "forbidden: you don't have permission to access this resource")
		}

		return c.Next()
	}
}
