// Package site renders the public website.
package site

import (
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/websitesettings"
	"github.com/EstateCMS/EstateCMS/internal/schemaorg"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/navigation"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	settingsKey = "siteSettings"

	// TemplateNotFound is rendered for unknown pages.
	TemplateNotFound = "site/404"

	// TemplateMaintenance is rendered while maintenance mode is on.
	TemplateMaintenance = "site/maintenance"
)

// Service is the public site handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the public site handler.
var Handler = Service{}

// Init registers the public pages.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if deps.Landing == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	cached := deps.Cache.Middleware()
	maintenance := s.Maintenance()

	app.Get(handler.RootPath, maintenance, cached, s.Home)
	app.Get("/projects", maintenance, cached, s.Projects)
	app.Get("/projects/:slug", maintenance, cached, s.Project)
	app.Get("/projects/:slug/units/:unitSlug", maintenance, cached, s.Unit)
	app.Get("/news", maintenance, cached, s.News)
	app.Get("/news/:slug", maintenance, cached, s.Article)

	// visits are counted before the cache so cached pages still count
	app.Get(LandingPrefix+":slug", maintenance, s.TrackVisit, cached, s.Landing)

	return nil
}

// Maintenance renders the maintenance page to visitors while maintenance
// mode is on. Logged in users see the site.
func (s *Service) Maintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		set, err := websitesettings.Load(s.deps.DB)
		if err != nil {
			log.Error().Err(err).Msg("failed to load website settings")

			set = websitesettings.Defaults()
		}

		c.Locals(settingsKey, set)

		if !set.MaintenanceMode {
			return c.Next()
		}

		if claims, err := s.deps.Auth.Parse(s.deps.Auth.TokenFromRequest(c)); err == nil && claims != nil {
			return c.Next()
		}

		response.NoCache(c)

		return c.Status(fiber.StatusServiceUnavailable).Render(TemplateMaintenance, fiber.Map{
			"Settings": set,
			"Message":  set.MaintenanceMessage,
		}, handler.SiteLayout)
	}
}

func (s *Service) settings(c *fiber.Ctx) websitesettings.Settings {
	if set, ok := c.Locals(settingsKey).(websitesettings.Settings); ok {
		return set
	}

	set, err := websitesettings.Load(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to load website settings")

		return websitesettings.Defaults()
	}

	return set
}

// BaseURL is the public site URL without a trailing slash.
func (s *Service) BaseURL(c *fiber.Ctx) string {
	if u := strings.TrimSuffix(s.deps.Cfg.Webserver.URL, "/"); u != "" {
		return u
	}

	return c.BaseURL()
}

// organization returns the schema.org markup of the site owner.
func organization(set websitesettings.Settings, baseURL string) schemaorg.Thing {
	return schemaorg.OrganizationThing(schemaorg.Organization{
		Name:        set.SiteTitle,
		URL:         baseURL,
		Logo:        set.LogoLight,
		Telephone:   set.PhoneNumber,
		Description: set.SiteDescription,
		SameAs: []string{
			set.FacebookURL, set.InstagramURL, set.TwitterURL,
			set.LinkedinURL, set.YoutubeURL, set.TiktokURL,
		},
	})
}

// render fills the layout data shared by every page and renders name.
// things are extra JSON-LD documents of the page.
func (s *Service) render(c *fiber.Ctx, name string, nav *navigation.Context, data fiber.Map, things ...schemaorg.Thing) error {
	set := s.settings(c)
	base := s.BaseURL(c)

	tree, err := menu.Tree(s.deps.DB, true)
	if err != nil {
		log.Error().Err(err).Msg("failed to load website menu")
	}

	if data == nil {
		data = fiber.Map{}
	}

	jsonld := schemaorg.Script(append([]schemaorg.Thing{organization(set, base)}, things...)...)

	data["Settings"] = set
	data["Menu"] = tree
	data["Navigation"] = nav
	data["BaseURL"] = base
	data["CanonicalURL"] = base + c.Path()
	data["Year"] = time.Now().Year()
	data["JSONLD"] = jsonld + nav.JSONLD(base)

	if _, ok := data["Title"]; !ok {
		data["Title"] = nav.PageTitle
	}

	return c.Render(name, data, handler.SiteLayout)
}

// notFound renders the 404 page, or passes other errors to response.Error.
func (s *Service) notFound(c *fiber.Ctx, err error) error {
	if response.Status(err) != fiber.StatusNotFound {
		log.Error().Err(err).Str("path", c.Path()).Msg("failed to render page")

		return c.Status(fiber.StatusInternalServerError).Render("site/error", fiber.Map{
			"Settings": s.settings(c),
		}, handler.SiteLayout)
	}

	nav := navigation.NewContext("Page not found", "", "")

	c.Status(fiber.StatusNotFound)

	return s.render(c, TemplateNotFound, nav, nil)
}

// NotFound renders the 404 page for unmatched routes.
func (s *Service) NotFound(c *fiber.Ctx) error {
	return s.notFound(c, fiber.ErrNotFound)
}

// ogImage returns the social card URL of a page without its own image.
func ogImage(base, title, subtitle string) string {
	return base + handler.APIPath + "/og-image?title=" + template.URLQueryEscaper(title) +
		"&subtitle=" + template.URLQueryEscaper(subtitle)
}
