// Package components serves the component template library of the
// landing page builder.
package components

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/component"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the prefix of the component routes.
const Path = handler.APIPath + "/landing-page-components"

// Service is the component handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the component handler.
var Handler = Service{}

// Init registers the component routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireAuth(deps.Auth))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Get("/defaults/:type", s.Default)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

type templateRequest struct {
	Name         string          `json:"name"`
	Type         landing.Type    `json:"type"`
	Config       json.RawMessage `json:"config"`
	PreviewImage string          `json:"preview_image"`
}

func (r templateRequest) model() models.LandingPageComponent {
	return models.LandingPageComponent{
		Name:         r.Name,
		Type:         r.Type,
		Config:       r.Config,
		PreviewImage: r.PreviewImage,
	}
}

// List returns the templates, optionally of one type.
func (s *Service) List(c *fiber.Ctx) error {
	out, err := component.List(s.deps.DB, landing.Type(c.Query("type")))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, out)
}

// Create stores a user template.
func (s *Service) Create(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	m := req.model()
	m.CreatedBy = auth.CurrentUser(c).Username

	if err := component.Create(s.deps.DB, &m); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, m)
}

// Update replaces a user template.
func (s *Service) Update(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	m, err := component.Update(s.deps.DB, c.Params("id"), req.model())
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, m)
}

// Delete removes a user template.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := component.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "component template deleted")
}

// Default returns the starting config of a component type.
func (s *Service) Default(c *fiber.Ctx) error {
	t := landing.Type(c.Params("type"))
	if !t.Known() {
		return response.Error(c, component.ErrUnknownType)
	}

	return response.OK(c, landing.NewComponent("", t, 0))
}
