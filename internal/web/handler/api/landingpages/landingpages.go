// Package landingpages serves the landing page builder API.
package landingpages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the prefix of the landing page routes.
	Path = handler.APIPath + "/landing-pages"

	// PublicPrefix is where published pages are served.
	PublicPrefix = "/lp/"
)

// Service is the landing page handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the landing page handler.
var Handler = Service{}

// Init registers the landing page routes. All of them require a login.
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
		router.Get("/slug/:slug", s.GetBySlug)
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
		router.Post("/:id/publish", s.Publish)
		router.Post("/:id/clone", s.Clone)
	})

	return nil
}

// owner is the value stored in created_by for the current user.
func owner(u *models.User) string {
	if u.Username != "" {
		return u.Username
	}

	return u.Email
}

// ListResult is the body of the list route.
type ListResult struct {
	Items      []models.LandingPage   `json:"items"`
	Pagination landingpage.Pagination `json:"pagination"`
}

// List returns the pages of the current user, or every page for admins.
func (s *Service) List(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)

	f := landingpage.Filter{
		Status:         models.LandingPageStatus(c.Query("status")),
		CampaignSource: c.Query("campaign_source"),
		Search:         c.Query("search"),
		Limit:          c.QueryInt("limit", landingpage.DefaultLimit),
		Offset:         c.QueryInt("offset", 0),
	}

	if !u.IsAdmin() || c.QueryBool("mine") {
		f.CreatedBy = owner(u)
	}

	if f.Status != "" && !f.Status.Valid() {
		return response.Error(c, landingpage.ErrInvalidStatus)
	}

	total, err := landingpage.Count(s.deps.DB, f)
	if err != nil {
		return response.Error(c, err)
	}

	items, err := landingpage.List(s.deps.DB, f)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, ListResult{
		Items:      items,
		Pagination: landingpage.NewPagination(total, f.Limit, f.Offset),
	})
}

type createRequest struct {
	Title           string                   `json:"title"`
	Slug            string                   `json:"slug"`
	Description     string                   `json:"description"`
	Content         landing.Content          `json:"content"`
	MetaTitle       string                   `json:"meta_title"`
	MetaDescription string                   `json:"meta_description"`
	OGImage         string                   `json:"og_image"`
	Status          models.LandingPageStatus `json:"status"`
	TemplateType    string                   `json:"template_type"`
	TargetAudience  string                   `json:"target_audience"`
	CampaignSource  string                   `json:"campaign_source"`
	TrackingCode    string                   `json:"tracking_code"`
	Settings        map[string]any           `json:"settings"`
	ExpiresAt       string                   `json:"expires_at"`
}

// Create stores a new page owned by the current user.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	exp, err := landingpage.ParseExpiry(req.ExpiresAt)
	if err != nil {
		return response.Error(c, err)
	}

	p := &models.LandingPage{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		Content:         req.Content,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		OGImage:         req.OGImage,
		Status:          req.Status,
		TemplateType:    req.TemplateType,
		TargetAudience:  req.TargetAudience,
		CampaignSource:  req.CampaignSource,
		TrackingCode:    req.TrackingCode,
		Settings:        req.Settings,
		ExpiresAt:       exp,
		CreatedBy:       owner(auth.CurrentUser(c)),
	}

	if err := landingpage.Create(s.deps.DB, p); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", p.ID).Str("slug", p.Slug).Str("by", p.CreatedBy).Msg("landing page created")

	if p.Status == models.LandingPublished {
		s.deps.Revalidate(PublicPrefix + p.Slug)
	}

	return response.Created(c, p)
}

// Get returns a page by id.
func (s *Service) Get(c *fiber.Ctx) error {
	response.NoCache(c)

	p, err := landingpage.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, p)
}

// GetBySlug returns a page by slug regardless of its status.
func (s *Service) GetBySlug(c *fiber.Ctx) error {
	response.NoCache(c)

	p, err := landingpage.GetBySlug(s.deps.DB, c.Params("slug"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, p)
}

// editable loads page id and checks that the current user may change it.
func (s *Service) editable(c *fiber.Ctx) (*models.LandingPage, error) {
	p, err := landingpage.Get(s.deps.DB, c.Params("id"))
	if err != nil {
		return nil, err
	}

	if !landingpage.CanEdit(p, auth.CurrentUser(c)) {
		return nil, response.ErrForbidden
	}

	return p, nil
}

// Update applies a partial update.
func (s *Service) Update(c *fiber.Ctx) error {
	old, err := s.editable(c)
	if err != nil {
		return response.Error(c, err)
	}

	var patch landingpage.Patch
	if err := c.BodyParser(&patch); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	p, err := landingpage.Update(s.deps.DB, old.ID, patch)
	if err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(PublicPrefix+old.Slug, PublicPrefix+p.Slug)

	return response.OK(c, p)
}

// Delete removes a page and its analytics.
func (s *Service) Delete(c *fiber.Ctx) error {
	p, err := s.editable(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := landingpage.Delete(s.deps.DB, p.ID); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("id", p.ID).Str("slug", p.Slug).Msg("landing page deleted")

	s.deps.Revalidate(PublicPrefix + p.Slug)

	return response.Message(c, "landing page deleted")
}

// Publish makes a page live.
func (s *Service) Publish(c *fiber.Ctx) error {
	p, err := s.editable(c)
	if err != nil {
		return response.Error(c, err)
	}

	if p, err = landingpage.Publish(s.deps.DB, p.ID); err != nil {
		return response.Error(c, err)
	}

	s.deps.Revalidate(PublicPrefix + p.Slug)

	return response.OK(c, p)
}

type cloneRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Clone copies a page as a draft owned by the current user.
func (s *Service) Clone(c *fiber.Ctx) error {
	var req cloneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	p, err := landingpage.Clone(s.deps.DB, c.Params("id"), req.Title, req.Slug, owner(auth.CurrentUser(c)))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, p)
}
