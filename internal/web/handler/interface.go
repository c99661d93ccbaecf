package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/pagecache"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilACDFatalLogMsg)

// Deps are the shared services handed to every handler.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Uploader media.Uploader
	Cache    *pagecache.Cache // nil when page caching is disabled
	Store    fiber.Storage
	Landing  *landing.Renderer
	Limit    fiber.Handler // rate limiter of public write routes, may be nil
}

// Check reports ErrNilDeps when the config, database or auth service is missing.
func (d *Deps) Check() error {
	if d == nil || d.Cfg == nil || d.DB == nil || d.Auth == nil {
		return ErrNilDeps
	}

	return nil
}

// Revalidate drops cached public pages after a write.
func (d *Deps) Revalidate(paths ...string) {
	if d != nil {
		d.Cache.Revalidate(paths...)
	}
}

// Limiter returns the rate limiter, or a pass-through handler when none is set.
func (d *Deps) Limiter() fiber.Handler {
	if d.Limit != nil {
		return d.Limit
	}

	return func(c *fiber.Ctx) error { return c.Next() }
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
