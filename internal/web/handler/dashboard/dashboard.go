// Package dashboard provides the admin dashboard pages and the helpers
// shared by the dashboard JSON handlers.
package dashboard

import (
	"context"
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/inquiry"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/project"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/navigation"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// APIPath is the root of the dashboard JSON endpoints.
	APIPath = handler.DashboardAPIPath

	// TemplateName is the name of the overview template.
	TemplateName = "dashboard/overview"

	// TemplatePrefix prefixes the section templates.
	TemplatePrefix = "dashboard/"

	// TemplateForbidden is rendered when a user opens an admin section.
	TemplateForbidden = "dashboard/forbidden"
)

// Stats are the counters shown on the overview.
type Stats struct {
	Projects     int64            `json:"projects"`
	News         int64            `json:"news"`
	LandingPages int64            `json:"landingPages"`
	Published    int64            `json:"publishedLandingPages"`
	Inquiries    map[string]int64 `json:"inquiries"`
	Users        int64            `json:"users,omitempty"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init registers the overview, the section pages and the stats endpoint.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	page := auth.RequirePage(deps.Auth, handler.LoginPath)

	app.Get(Path, page, s.Get)
	app.Get(Path+"/:section", page, s.Section)
	app.Get(Path+"/:section/:id", page, s.Section)

	app.Get(APIPath+"/stats", auth.RequireAuth(deps.Auth), s.Stats)

	return nil
}

// Nav returns the navigation of a dashboard section.
func Nav(title, section, page string) *navigation.Context {
	return navigation.NewContext(title, section, page).
		AddBreadcrumb("Dashboard", Path, section == "overview")
}

// Render renders a dashboard template inside the base layout with the
// sidebar of the current user.
func Render(c *fiber.Ctx, name string, nav *navigation.Context, data fiber.Map) error {
	u := auth.CurrentUser(c)
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav
	data["User"] = u
	data["Sections"] = navigation.Sections(u != nil && u.IsAdmin())

	return c.Render(name, data, handler.BaseLayout)
}

// API returns the middleware of dashboard JSON routes. roles restricts
// access further when given.
func API(deps *handler.Deps, roles ...models.Role) []fiber.Handler {
	out := []fiber.Handler{auth.RequireAuth(deps.Auth)}
	if len(roles) > 0 {
		out = append(out, auth.RequireRole(roles...))
	}

	return out
}

// Group registers routes under APIPath+path behind API(deps, roles...).
func Group(app *fiber.App, deps *handler.Deps, path string, fn func(router fiber.Router), roles ...models.Role) {
	api := API(deps, roles...)
	handlers := make([]any, 0, len(api))

	for _, h := range api {
		handlers = append(handlers, h)
	}

	app.Route(APIPath+path, func(router fiber.Router) {
		router.Use(handlers...)
		fn(router)
	})
}

// StoreImage uploads src to folder when it is an inline data URI and
// returns the stored URL. Other values are returned unchanged.
func StoreImage(ctx context.Context, up media.Uploader, folder, src string) (string, error) {
	if !media.IsDataURI(src) {
		return src, nil
	}

	asset, err := up.Upload(ctx, src, folder)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return asset.URL, nil
}

// StoreImages applies StoreImage to every entry of srcs.
func StoreImages(ctx context.Context, up media.Uploader, folder string, srcs []string) ([]string, error) {
	if srcs == nil {
		return nil, nil
	}

	out := make([]string, 0, len(srcs))

	for _, src := range srcs {
		u, err := StoreImage(ctx, up, folder, src)
		if err != nil {
			return nil, err
		}

		out = append(out, u)
	}

	return out, nil
}

// Folder is the upload folder of a dashboard entity.
func Folder(deps *handler.Deps, name string) string {
	return media.JoinFolder(deps.Cfg.Cloudinary.Folder, name)
}

// Get renders the overview with counters.
func (s *Service) Get(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)

	stats, err := Collect(s.deps.DB, u != nil && u.IsAdmin())
	if err != nil {
		log.Error().Err(err).Msg("failed to collect dashboard stats")
	}

	return Render(c, TemplateName, Nav("Dashboard", "overview", "overview"), fiber.Map{
		"Stats": stats,
	})
}

// Section renders the page shell of a sidebar section. The page loads its
// data from the JSON endpoints.
func (s *Service) Section(c *fiber.Ctx) error {
	key := c.Params("section")

	i := slices.IndexFunc(navigation.DashboardSections, func(sec navigation.Section) bool {
		return sec.Key == key && sec.Key != "overview"
	})
	if i < 0 {
		return fiber.ErrNotFound
	}

	sec := navigation.DashboardSections[i]
	nav := Nav(sec.Title, sec.Key, key).AddBreadcrumb(sec.Title, sec.URL, c.Params("id") == "")

	if id := c.Params("id"); id != "" {
		nav.AddBreadcrumb("Edit", c.Path(), true)
	}

	if u := auth.CurrentUser(c); sec.AdminOnly && (u == nil || !u.IsAdmin()) {
		c.Status(fiber.StatusForbidden)

		return Render(c, TemplateForbidden, nav, nil)
	}

	return Render(c, TemplatePrefix+sec.Key, nav, fiber.Map{
		"ID":      c.Params("id"),
		"APIPath": APIPath,
	})
}

// Stats returns the overview counters.
func (s *Service) Stats(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)

	stats, err := Collect(s.deps.DB, u != nil && u.IsAdmin())
	if err != nil {
		return response.Error(c, err)
	}

	response.NoCache(c)

	return response.OK(c, stats)
}

// Collect counts the dashboard entities. Users are only counted for admins.
func Collect(db *gorm.DB, admin bool) (Stats, error) {
	var (
		st  Stats
		err error
	)

	if st.Projects, err = project.Count(db); err != nil {
		return st, err //nolint:wrapcheck
	}

	if err = db.Model(&models.News{}).Count(&st.News).Error; err != nil {
		return st, err //nolint:wrapcheck
	}

	if st.LandingPages, err = landingpage.Count(db, landingpage.Filter{}); err != nil {
		return st, err //nolint:wrapcheck
	}

	if st.Published, err = landingpage.Count(db, landingpage.Filter{Status: models.LandingPublished}); err != nil {
		return st, err //nolint:wrapcheck
	}

	if st.Inquiries, err = inquiry.CountByStatus(db); err != nil {
		return st, err //nolint:wrapcheck
	}

	if admin {
		if st.Users, err = user.Count(db); err != nil {
			return st, err //nolint:wrapcheck
		}
	}

	return st, nil
}

// ReorderRequest is the body of reorder endpoints: ids in their new order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// ParseReorder reads a ReorderRequest with at least one id.
func ParseReorder(c *fiber.Ctx) ([]string, error) {
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ids must be a non-empty array")
	}

	return req.IDs, nil
}
