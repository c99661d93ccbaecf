// Package websitemenu provides the dashboard endpoints of the site navigation.
package websitemenu

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the menu endpoints path below the dashboard API.
const Path = "/website-menu"

// every public page renders the menu
const allPages = "/*"

// Service is the website menu handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the website menu handler.
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
		router.Get("/tree", s.Tree)
		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/reorder", s.Reorder)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns every menu, flat and by order.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := menu.List(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, items)
}

// Tree returns every menu as a tree, inactive ones included.
func (s *Service) Tree(c *fiber.Ctx) error {
	tree, err := menu.Tree(s.deps.DB, c.QueryBool("active", false))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, tree)
}

// Get returns one menu.
func (s *Service) Get(c *fiber.Ctx) error {
	m, err := menu.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, m)
}

// Create stores a new menu.
func (s *Service) Create(c *fiber.Ctx) error {
	var m models.WebsiteMenu
	if err := c.BodyParser(&m); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	m.ID = ""

	if err := menu.Create(s.deps.DB, &m); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(allPages)

	return response.Created(c, m)
}

// Update changes a menu. Parent changes that would loop are rejected.
func (s *Service) Update(c *fiber.Ctx) error {
	var in models.WebsiteMenu
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	m, err := menu.Update(s.deps.DB, c.Params("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(allPages)

	return response.OK(c, m)
}

// Delete removes a menu without sub-menus.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := menu.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(allPages)

	return response.Message(c, "Menu deleted successfully")
}

// Reorder stores the order of the posted ids.
func (s *Service) Reorder(c *fiber.Ctx) error {
	ids, err := dashboard.ParseReorder(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := menu.Reorder(s.deps.DB, ids); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(allPages)

	return response.Message(c, "Menus reordered successfully")
}
