// Package heroslider provides the dashboard endpoints of the home page carousel.
package heroslider

import (
	"github.com/gofiber/fiber/v2"

	sliders "github.com/EstateCMS/EstateCMS/internal/db/controller/heroslider"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the hero slider endpoints path below the dashboard API.
const Path = "/hero-sliders"

// Service is the hero slider handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the hero slider handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if deps.Uploader == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	dashboard.Group(app, deps, Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/reorder", s.Reorder)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns every slide by order.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := sliders.List(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, items)
}

// Get returns one slide.
func (s *Service) Get(c *fiber.Ctx) error {
	h, err := sliders.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, h)
}

// Create uploads the images and stores a slide.
func (s *Service) Create(c *fiber.Ctx) error {
	var in sliders.Input
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	h, err := sliders.Create(c.UserContext(), s.deps.DB, s.deps.Uploader, in)
	if err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(handler.RootPath)

	return response.Created(c, h)
}

// Update changes a slide. Images are uploaded again only when sent inline.
func (s *Service) Update(c *fiber.Ctx) error {
	var in sliders.Input
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	h, err := sliders.Update(c.UserContext(), s.deps.DB, s.deps.Uploader, c.Params("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(handler.RootPath)

	return response.OK(c, h)
}

// Delete removes a slide and its uploaded images.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := sliders.Delete(c.UserContext(), s.deps.DB, s.deps.Uploader, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(handler.RootPath)

	return response.Message(c, "Hero slider deleted successfully")
}

// Reorder stores the order of the posted ids.
func (s *Service) Reorder(c *fiber.Ctx) error {
	ids, err := dashboard.ParseReorder(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := sliders.Reorder(s.deps.DB, ids); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(handler.RootPath)

	return response.Message(c, "Hero sliders reordered successfully")
}
