// Package upload stores images sent by the dashboard and the page builder.
package upload

import (
	"path"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the upload route.
	Path = handler.APIPath + "/upload"

	// DefaultMaxSize applies when the config sets no limit.
	DefaultMaxSize = 5 << 20

	// DefaultFolder is used when the form names no folder.
	DefaultFolder = "uploads"
)

// Types are the accepted content types.
var Types = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"} //nolint:gochecknoglobals

// Service is the upload handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the upload handler.
var Handler = Service{}

// Init registers the upload routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if deps.Uploader == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireAuth(deps.Auth))
		router.Get(handler.RouterRootPath, s.Info)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// MaxSize is the configured upload limit in bytes.
func (s *Service) MaxSize() int64 {
	if n := s.deps.Cfg.Webserver.MaxUploadSize; n > 0 {
		return int64(n)
	}

	return DefaultMaxSize
}

// Info describes the accepted uploads.
func (s *Service) Info(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"supportedTypes": Types,
		"maxSize":        s.MaxSize(),
	})
}

// Result is returned for a stored file.
type Result struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
}

// cleanFolder keeps folder names below the upload root.
func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+strings.TrimSpace(folder)), "/")
	if folder == "" || folder == "." {
		return DefaultFolder
	}

	return folder
}

// Post stores the multipart file field in the optional folder.
func (s *Service) Post(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "no file provided")
	}

	contentType := strings.ToLower(fh.Header.Get(fiber.HeaderContentType))
	if !Allowed(contentType) {
		return response.Error(c, media.ErrUnsupportedType)
	}

	if err := media.CheckImage(contentType, fh.Size, s.MaxSize()); err != nil {
		return response.Error(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return response.Error(c, err)
	}
	defer f.Close()

	folder := media.JoinFolder(s.deps.Cfg.Cloudinary.Folder, cleanFolder(c.FormValue("folder")))

	asset, err := s.deps.Uploader.Upload(c.UserContext(), f, folder)
	if err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("url", asset.URL).Str("folder", folder).Int64("size", fh.Size).Msg("file uploaded")

	return response.OK(c, Result{
		URL:       asset.URL,
		SecureURL: asset.URL,
		PublicID:  asset.PublicID,
		Filename:  fh.Filename,
		Size:      fh.Size,
		Type:      contentType,
	})
}

// Allowed reports whether contentType is one of Types.
func Allowed(contentType string) bool {
	return slices.Contains(Types, contentType)
}
