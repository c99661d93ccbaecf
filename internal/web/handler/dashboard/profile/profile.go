// Package profile lets dashboard users edit their own account.
package profile

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/upload"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the profile endpoints path below the dashboard API.
	Path = "/profile"

	// Folder stores avatars.
	Folder = "avatars"
)

// PasswordRequest is the body of a password change.
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Service is the profile handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the profile handler.
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
		router.Get(handler.RouterRootPath, s.Get)
		router.Put(handler.RouterRootPath, s.Update)
		router.Post("/avatar", s.Avatar)
		router.Put("/password", s.Password)
	})

	return nil
}

// Get returns the stored account of the caller.
func (s *Service) Get(c *fiber.Ctx) error {
	u, err := user.Get(s.deps.DB, auth.CurrentUser(c).ID)
	if err != nil {
		return response.Error(c, err)
	}

	response.NoCache(c)

	return response.OK(c, u)
}

// Update changes name, email and avatar. A fresh token carries the new
// name and email.
func (s *Service) Update(c *fiber.Ctx) error {
	var p user.Profile
	if err := c.BodyParser(&p); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u, err := user.Update(s.deps.DB, auth.CurrentUser(c).ID, p)
	if err != nil {
		return response.Error(c, err)
	}

	token, exp, err := s.deps.Auth.Issue(u, false)
	if err != nil {
		return response.Error(c, err)
	}

	if c.Cookies(s.deps.Auth.CookieName()) != "" {
		s.deps.Auth.SetCookie(c, token, exp)
	}

	return response.OK(c, fiber.Map{"user": u, "token": token})
}

// Avatar uploads the multipart file field and stores it as the avatar.
func (s *Service) Avatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "no file provided")
	}

	contentType := strings.ToLower(fh.Header.Get(fiber.HeaderContentType))
	if !upload.Allowed(contentType) {
		return response.Error(c, media.ErrUnsupportedType)
	}

	if err := media.CheckImage(contentType, fh.Size, int64(s.deps.Cfg.Webserver.MaxUploadSize)); err != nil {
		return response.Error(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return response.Error(c, err)
	}
	defer f.Close()

	asset, err := s.deps.Uploader.Upload(c.UserContext(), f, dashboard.Folder(s.deps, Folder))
	if err != nil {
		return response.Error(c, err)
	}

	u := auth.CurrentUser(c)

	if err := user.UpdateAvatar(s.deps.DB, u.ID, asset.URL); err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("user", u.Username).Msg("avatar updated")

	return response.OK(c, fiber.Map{"avatarUrl": asset.URL})
}

// Password changes the password after checking the current one.
func (s *Service) Password(c *fiber.Ctx) error {
	var req PasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u, err := user.Get(s.deps.DB, auth.CurrentUser(c).ID)
	if err != nil {
		return response.Error(c, err)
	}

	if !u.VerifyPassword(req.CurrentPassword) {
		return response.Fail(c, fiber.StatusBadRequest, "current password is incorrect")
	}

	if err := user.UpdatePassword(s.deps.DB, u.ID, req.NewPassword); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "Password updated successfully")
}
