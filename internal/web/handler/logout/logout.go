// Package logout ends dashboard sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
)

// Path is the logout path.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	auth *auth.Service
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.auth = deps.Auth

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout revokes the session token and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if claims, err := s.auth.Parse(s.auth.TokenFromRequest(c)); err == nil {
		if err := s.auth.Revoke(claims); err != nil {
			log.Error().Err(err).Msg("failed to revoke session")
		}
	}

	s.auth.ClearCookie(c)

	return c.Redirect(handler.LoginPath)
}
