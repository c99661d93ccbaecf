// Package projects provides the dashboard endpoints of projects and their units.
package projects

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/project"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/unit"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the project endpoints path below the dashboard API.
	Path = "/projects"

	// UnitsPath is the unit endpoints path below the dashboard API.
	UnitsPath = "/units"

	// Folder stores project images.
	Folder = "projects"

	// UnitFolder stores unit images.
	UnitFolder = "units"
)

// ProjectRequest is the body of create and update. On update KeepGallery
// nil keeps the whole gallery and AddGallery is appended.
type ProjectRequest struct {
	models.Project
	KeepGallery []string `json:"keepGallery"`
	AddGallery  []string `json:"addGallery"`
}

// Service is the project handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the project handler.
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
		router.Delete("/:id", s.Delete)
		router.Get("/:id/units", s.Units)
		router.Post("/:id/units", s.CreateUnit)
	})

	dashboard.Group(app, deps, UnitsPath, func(router fiber.Router) {
		router.Get("/:id", s.GetUnit)
		router.Put("/:id", s.UpdateUnit)
		router.Delete("/:id", s.DeleteUnit)
	})

	return nil
}

func (s *Service) revalidate() {
	s.deps.Revalidate(handler.RootPath, "/projects*")
}

// List returns a page of projects.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := project.List(s.deps.DB, c.QueryInt("page", 1), c.QueryInt("limit", project.DefaultLimit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, page)
}

// Get returns one project.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := project.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, p)
}

func (s *Service) images(c *fiber.Ctx, req *ProjectRequest) error {
	ctx := c.UserContext()
	folder := dashboard.Folder(s.deps, Folder)

	var err error

	if req.MainImage, err = dashboard.StoreImage(ctx, s.deps.Uploader, folder, req.MainImage); err != nil {
		return err
	}

	if req.GalleryImages, err = dashboard.StoreImages(ctx, s.deps.Uploader, folder, req.GalleryImages); err != nil {
		return err
	}

	req.AddGallery, err = dashboard.StoreImages(ctx, s.deps.Uploader, folder, req.AddGallery)

	return err
}

// Create stores a new project. Inline images are uploaded first.
func (s *Service) Create(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.images(c, &req); err != nil {
		return response.Error(c, err)
	}

	p := req.Project
	p.ID = ""
	p.GalleryImages = append(p.GalleryImages, req.AddGallery...)

	if err := project.Create(s.deps.DB, &p); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("project", p.Slug).Msg("project created")
	s.revalidate()

	return response.Created(c, p)
}

// Update changes a project.
func (s *Service) Update(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.images(c, &req); err != nil {
		return response.Error(c, err)
	}

	p, err := project.Update(s.deps.DB, c.Params("id"), project.Changes{
		Project:     req.Project,
		KeepGallery: req.KeepGallery,
		AddGallery:  req.AddGallery,
	})
	if err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.OK(c, p)
}

// Delete removes a project and its units.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := project.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", c.Params("id")).Msg("project deleted")
	s.revalidate()

	return response.Message(c, "Project deleted successfully")
}

// Units returns a page of the units of a project, optionally by status.
func (s *Service) Units(c *fiber.Ctx) error {
	p, err := project.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	page, err := unit.ListByProject(s.deps.DB, p.ID, models.UnitStatus(c.Query("status")),
		c.QueryInt("page", 1), c.QueryInt("limit", unit.DefaultLimit))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, page)
}

func (s *Service) unitImages(c *fiber.Ctx, u *models.Unit) error {
	ctx := c.UserContext()
	folder := dashboard.Folder(s.deps, UnitFolder)

	var err error

	if u.MainImage, err = dashboard.StoreImage(ctx, s.deps.Uploader, folder, u.MainImage); err != nil {
		return err
	}

	u.GalleryImages, err = dashboard.StoreImages(ctx, s.deps.Uploader, folder, u.GalleryImages)

	return err
}

// CreateUnit adds a unit to a project.
func (s *Service) CreateUnit(c *fiber.Ctx) error {
	p, err := project.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	var u models.Unit
	if err := c.BodyParser(&u); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.unitImages(c, &u); err != nil {
		return response.Error(c, err)
	}

	u.ID = ""
	u.ProjectID = p.ID

	if err := unit.Create(s.deps.DB, &u); err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.Created(c, u)
}

// GetUnit returns one unit.
func (s *Service) GetUnit(c *fiber.Ctx) error {
	u, err := unit.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, u)
}

// UpdateUnit changes a unit. The slug follows the name.
func (s *Service) UpdateUnit(c *fiber.Ctx) error {
	var in models.Unit
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.unitImages(c, &in); err != nil {
		return response.Error(c, err)
	}

	u, err := unit.Update(s.deps.DB, c.Params("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.OK(c, u)
}

// DeleteUnit removes a unit.
func (s *Service) DeleteUnit(c *fiber.Ctx) error {
	if err := unit.Delete(s.deps.DB, c.Params("id")); err != nil {
		return response.Error(c, err)
	}

	s.revalidate()

	return response.Message(c, "Unit deleted successfully")
}
