// Package news provides the dashboard endpoints of news articles.
package news

import (
	"github.com/gofiber/fiber/v2"

	newsdb "github.com/EstateCMS/EstateCMS/internal/db/controller/news"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the news endpoints path below the dashboard API.
	Path = "/news"

	// Folder stores featured images.
	Folder = "news"
)

// Service is the news handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the news handler.
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
		router.Post(handler.RouterRootPath, s.Create)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Post("/:id/toggle", s.Toggle)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

func (s *Service) revalidate() {
	s.deps.Revalidate(handler.RootPath, "/news*")
}

// List returns every article, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := newsdb.List(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, items)
}

// Get returns one article.
func (s *Service) Get(c *fiber.Ctx) error {
	n, err := newsdb.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, n)
}

func (s *Service) parse(c *fiber.Ctx) (models.News, error) {
	var n models.News
	if err := c.BodyParser(&n); err != nil {
		return n, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var err error

	n.FeaturedImage, err = dashboard.StoreImage(c.UserContext(), s.deps.Uploader,
		dashboard.Folder(s.deps, Folder), n.FeaturedImage)

	return n, err
}

// Create stores a new article.
func (s *Service) Create(c *fiber.Ctx) error {
	n, err := s.parse(c)
	if err != nil {
		return response.Error(c, err)
	}

	n.ID = ""

	if err := newsdb.Create(s.deps.DB, &n); err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.Created(c, n)
}

// Update changes an article.
func (s *Service) Update(c *fiber.Ctx) error {
	in, err := s.parse(c)
	if err != nil {
		return response.Error(c, err)
	}

	n, err := newsdb.Update(s.deps.DB, c.Params("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.OK(c, n)
}

// Toggle publishes or unpublishes an article.
func (s *Service) Toggle(c *fiber.Ctx) error {
	n, err := newsdb.Toggle(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.OK(c, n)
}

// Delete removes an article.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := newsdb.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.Message(c, "News deleted successfully")
}
