// Package websitesettings provides the admin endpoints of the site wide settings.
package websitesettings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	settings "github.com/EstateCMS/EstateCMS/internal/db/controller/websitesettings"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the settings endpoints path below the dashboard API.
	Path = "/website-settings"

	// Folder stores logos and the favicon.
	Folder = "website"
)

// Service is the website settings handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the website settings handler.
var Handler = Service{}

// Init registers the routes. Only admins may read or change settings here.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	dashboard.Group(app, deps, Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Put(handler.RouterRootPath, s.Update)
	}, models.RoleAdmin)

	return nil
}

// Get returns the stored settings or the defaults.
func (s *Service) Get(c *fiber.Ctx) error {
	set, err := settings.Load(s.deps.DB)
	if err != nil {
		return response.Error(c, err)
	}

	response.NoCache(c)

	return response.OK(c, set)
}

// Update replaces the settings. Inline logos are uploaded first.
func (s *Service) Update(c *fiber.Ctx) error {
	var in settings.Settings
	if err := c.BodyParser(&in); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	folder := dashboard.Folder(s.deps, Folder)

	for _, img := range []*string{&in.SiteFavicon, &in.LogoLight, &in.LogoDark, &in.LogoFooter, &in.OGImage} {
		u, err := dashboard.StoreImage(c.UserContext(), s.deps.Uploader, folder, *img)
		if err != nil {
			return response.Error(c, err)
		}

		*img = u
	}

	set, err := settings.Save(s.deps.DB, in)
	if err != nil {
		return response.Error(c, err)
	}

	if u := auth.CurrentUser(c); u != nil {
		log.Info().Str("user", u.Username).Bool("maintenance", set.MaintenanceMode).Msg("website settings updated")
	}

	s.deps.Revalidate("/*")

	return response.OK(c, set)
}
