// Package inquiries provides the dashboard endpoints of contact inquiries.
package inquiries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/inquiry"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the inquiry endpoints path below the dashboard API.
const Path = "/inquiries"

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status models.InquiryStatus `json:"status"`
}

// Service is the inquiry handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the inquiry handler.
var Handler = Service{}

// Init registers the routes.
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
		router.Get("/counts", s.Counts)
		router.Get("/:id", s.Get)
		router.Put("/:id/status", s.UpdateStatus)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns a page of inquiries filtered by ?status.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := inquiry.List(s.deps.DB, c.Query("status", inquiry.StatusAll),
		c.QueryInt("page", 1), c.QueryInt("limit", inquiry.DefaultLimit))
	if err != nil {
		return response.Error(c, err)
	}

	response.NoCache(c)

	return response.OK(c, page)
}

// Counts returns the number of inquiries per status.
func (s *Service) Counts(c *fiber.Ctx) error {
	counts, err := inquiry.CountByStatus(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, counts)
}

// Get returns one inquiry.
func (s *Service) Get(c *fiber.Ctx) error {
	q, err := inquiry.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, q)
}

// UpdateStatus moves an inquiry to new, contacted or closed.
func (s *Service) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := inquiry.UpdateStatus(s.deps.DB, c.Params("id"), req.Status); err != nil {
		return response.Error(c, err)
	}

	if u := auth.CurrentUser(c); u != nil {
		log.Info().Str("inquiry", c.Params("id")).Str("status", string(req.Status)).Str("user", u.Username).
			Msg("inquiry status changed")
	}

	return response.Message(c, "Inquiry status updated successfully")
}

// Delete removes an inquiry.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := inquiry.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Inquiry deleted successfully")
}
