// Package users provides the admin endpoints of dashboard accounts.
package users

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the user endpoints path below the dashboard API.
const Path = "/users"

// RoleRequest is the body of a role change.
type RoleRequest struct {
	Role models.Role `json:"role"`
}

// Service is the user handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the user handler.
var Handler = Service{}

// Init registers the admin only routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	dashboard.Group(app, deps, Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/:id/role", s.UpdateRole)
		router.Delete("/:id", s.Delete)
	}, models.RoleAdmin)

	return nil
}

// List returns every account.
func (s *Service) List(c *fiber.Ctx) error {
	out, err := user.List(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Create adds an account with any role.
func (s *Service) Create(c *fiber.Ctx) error {
	var r user.Registration
	if err := c.BodyParser(&r); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u, err := user.Create(s.deps.DB, r)
	if err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("user", u.Username).Str("role", string(u.Role)).Str("by", auth.CurrentUser(c).Username).
		Msg("user created")

	return response.Created(c, u)
}

// UpdateRole changes the role of an account. Admins cannot demote themselves.
func (s *Service) UpdateRole(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := c.Params("id")
	if id == auth.CurrentUser(c).ID && req.Role != models.RoleAdmin {
		return response.Fail(c, fiber.StatusBadRequest, "you cannot remove your own admin role")
	}

	if err := user.UpdateRole(s.deps.DB, id, req.Role); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", id).Str("role", string(req.Role)).Msg("user role changed")

	return response.Message(c, "User role updated successfully")
}

// Delete removes an account other than the caller's.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == auth.CurrentUser(c).ID {
		return response.Fail(c, fiber.StatusBadRequest, "you cannot delete your own account")
	}

	if err := user.Delete(s.deps.DB, id); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", id).Msg("user deleted")

	return response.Message(c, "User deleted successfully")
}
