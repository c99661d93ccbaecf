package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	fiberlogger "github.com/EstateCMS/EstateCMS/internal/logger/adapter/fiber"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/account"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/analytics"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/components"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/landingpages"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/ogimage"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/public"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/api/upload"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/heroslider"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/inquiries"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/kanban"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/news"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/profile"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/projects"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/users"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/websitemenu"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/dashboard/websitesettings"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/login"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/logout"
	"github.com/EstateCMS/EstateCMS/internal/web/handler/site"
	"github.com/EstateCMS/EstateCMS/internal/web/pagecache"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// CheckAlivePath reports readiness to load balancers.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// StaticPath serves the embedded assets.
	StaticPath = "/static"

	readBufferSize = 8192
)

// ErrNilConfig is returned by New without config, database or storage.
var ErrNilConfig = errors.New("config, db and storage must not be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Deps returns the dependencies handed to the handlers.
func (s *Service) Deps() *handler.Deps {
	return s.deps
}

// Start listens on the configured port until ctx is done, then shuts the
// server down gracefully.
func (s *Service) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)
	done := make(chan error, 1)

	s.alive.Store(true)

	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")

		done <- s.App.Listen(addr)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return pkgerrors.Wrap(err, "fiber listen error")
		}

		return nil
	case <-ctx.Done():
	}

	s.Shutdown()

	if err := <-done; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "fiber listen error")
	}

	return nil
}

// Shutdown fails the check-alive probe for the configured shutdown time so
// load balancers drain the instance, then stops the server.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithTimeout(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

func newEngine(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(TemplatesFS()), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	for name, fn := range TemplateFuncs() {
		engine.AddFunc(name, fn)
	}

	return engine
}

// newLimiter limits public write routes per client IP.
func newLimiter(cfg config.RateLimit, store fiber.Storage) fiber.Handler {
	if cfg.Max <= 0 {
		return nil
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "limit:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}

// New creates the web service. store backs the rate limiter, the token
// denylist and the page cache.
func New(cfg *config.Config, db *gorm.DB, store fiber.Storage, uploader media.Uploader) (*Service, error) {
	if cfg == nil || db == nil || store == nil {
		return nil, ErrNilConfig
	}

	authService, err := auth.NewService(cfg.Auth, store)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create auth service")
	}

	authService.UseAccounts(db)

	renderer, err := landing.NewRenderer()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create landing page renderer")
	}

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Auth:     authService,
		Uploader: uploader,
		Store:    store,
		Landing:  renderer,
		Limit:    newLimiter(cfg.Webserver.RateLimit, store),
	}

	if cfg.Webserver.CacheEnabled {
		deps.Cache = pagecache.New(store, cfg.Webserver.CacheTTL, authService.CookieName())
	}

	service := &Service{cfg: cfg, deps: deps}

	bodyLimit := fiber.DefaultBodyLimit
	if cfg.Webserver.MaxUploadSize > 0 {
		// inline images arrive base64 encoded inside JSON
		bodyLimit = cfg.Webserver.MaxUploadSize * 2 //nolint:mnd
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: readBufferSize,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      bodyLimit,
			Views:          newEngine(cfg),
			ErrorHandler:   service.handleError,
		},
	)

	service.App = app

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		SkipPrefixes:  []string{StaticPath + "/", media.LocalURLPrefix + "/"},
	}))
	app.Use(Metrics(CheckAlivePath, MetricsPath))
	app.Use(compress.New())

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use(StaticPath,
		filesystem.New(
			filesystem.Config{
				Root:   http.FS(StaticFS()),
				Browse: cfg.Webserver.BrowseStatic,
				MaxAge: 3600, //nolint:mnd
			},
		),
	)

	if local, ok := uploader.(*media.Local); ok {
		app.Static(local.URLPrefix, local.Dir, fiber.Static{MaxAge: 86400}) //nolint:mnd
	}

	handlers := []handler.Service{
		&account.Handler,
		&analytics.Handler,
		&components.Handler,
		&landingpages.Handler,
		&ogimage.Handler,
		&public.Handler,
		&upload.Handler,
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&projects.Handler,
		&news.Handler,
		&heroslider.Handler,
		&inquiries.Handler,
		&kanban.Handler,
		&websitemenu.Handler,
		&websitesettings.Handler,
		&users.Handler,
		&profile.Handler,
		&site.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, deps); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to init %T", h)
		}
	}

	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), handler.APIPath+"/") {
			return response.Fail(c, fiber.StatusNotFound, "not found")
		}

		return site.Handler.NotFound(c)
	})

	return service, nil
}

// handleError answers errors returned by handlers: JSON envelopes below
// /api, the site 404 page for missing pages, plain text otherwise.
func (s *Service) handleError(c *fiber.Ctx, err error) error {
	if strings.HasPrefix(c.Path(), handler.APIPath+"/") {
		return response.Error(c, err)
	}

	if response.Status(err) == fiber.StatusNotFound && !strings.HasPrefix(c.Path(), handler.DashboardPath) {
		return site.Handler.NotFound(c)
	}

	return fiber.DefaultErrorHandler(c, err)
}
