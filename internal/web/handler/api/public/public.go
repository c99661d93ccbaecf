// Package public serves the read-only site API and the contact form.
package public

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/heroslider"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/inquiry"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/news"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/project"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/unit"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/websitesettings"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Service is the public API handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the public API handler.
var Handler = Service{}

// Init registers the public API routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Route(handler.APIPath, func(router fiber.Router) {
		router.Post("/contact", deps.Limiter(), s.Contact)
		router.Get("/website-menu", s.Menu)
		router.Get("/website-settings", s.Settings)
		router.Get("/hero-sliders", s.HeroSliders)
		router.Get("/projects", s.Projects)
		router.Get("/projects/:slug", s.Project)
		router.Get("/projects/:slug/units", s.Units)
		router.Get("/projects/:slug/units/:unitSlug", s.Unit)
		router.Get("/news", s.News)
		router.Get("/news/:slug", s.Article)
	})

	return nil
}

// Contact stores an inquiry from a site or landing page form.
func (s *Service) Contact(c *fiber.Ctx) error {
	var in inquiry.Input
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	q, err := inquiry.Submit(s.deps.DB, in)
	if err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", q.ID).Str("project", q.ProjectName).Str("source", q.Source).Msg("contact inquiry received")

	return c.Status(fiber.StatusCreated).JSON(response.Envelope{
		Success: true,
		Message: "Thank you, our team will contact you shortly",
		Data:    fiber.Map{"id": q.ID},
	})
}

// Menu returns the active menu tree.
func (s *Service) Menu(c *fiber.Ctx) error {
	tree, err := menu.Tree(s.deps.DB, true)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, tree)
}

// Settings returns the website settings.
func (s *Service) Settings(c *fiber.Ctx) error {
	set, err := websitesettings.Load(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, set)
}

// HeroSliders returns the active slides.
func (s *Service) HeroSliders(c *fiber.Ctx) error {
	out, err := heroslider.ListActive(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Projects lists projects, optionally filtered by status.
func (s *Service) Projects(c *fiber.Ctx) error {
	out, err := project.ListPublic(s.deps.DB, models.ProjectStatus(c.Query("status")), c.QueryInt("limit", 0))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Project returns a project by slug.
func (s *Service) Project(c *fiber.Ctx) error {
	p, err := project.GetBySlug(s.deps.DB, c.Params("slug"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, p)
}

// Units pages the active units of a project. The status query is ignored.
func (s *Service) Units(c *fiber.Ctx) error {
	p, err := project.GetBySlug(s.deps.DB, c.Params("slug"))
	if err != nil {
		return response.Error(c, err)
	}

	out, err := unit.ListByProject(s.deps.DB, p.ID, models.UnitActive, c.QueryInt("page", 1), c.QueryInt("limit", unit.DefaultLimit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Unit returns a unit with its project details.
func (s *Service) Unit(c *fiber.Ctx) error {
	d, err := unit.GetBySlug(s.deps.DB, c.Params("slug"), c.Params("unitSlug"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, d)
}

// News pages the published articles.
func (s *Service) News(c *fiber.Ctx) error {
	out, err := news.ListPublished(s.deps.DB, c.QueryInt("page", 1), c.QueryInt("limit", news.DefaultLimit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Article returns a published article by slug.
func (s *Service) Article(c *fiber.Ctx) error {
	n, err := news.GetBySlug(s.deps.DB, c.Params("slug"), true)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, n)
}
