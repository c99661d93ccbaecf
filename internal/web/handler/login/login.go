package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the login form template.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Remember bool   `form:"remember"`
	Next     string `form:"next"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB, deps.Auth)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, deps.Limiter(), s.Post)
	})

	return nil
}

// Get renders the login page. Signed in users go straight to next.
func (s *Service) Get(c *fiber.Ctx) error {
	next := SafeNext(c.Query("next"))

	if claims, err := s.deps.Auth.Parse(s.deps.Auth.TokenFromRequest(c)); err == nil && claims != nil {
		return c.Redirect(next)
	}

	return c.Render(TemplateName, fiber.Map{
		"Title": s.deps.Cfg.Title,
		"Next":  next,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.fail(c, form, ErrInvalidFormData)
	}

	u, token, exp, err := s.provider.Login(form.Email, form.Password, form.Remember)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			log.Info().Str("email", form.Email).Str("ip", c.IP()).Msg("failed login")

			return s.fail(c, form, ErrInvalidCredentials)
		}

		log.Error().Err(err).Msg("login failed")

		return s.fail(c, form, ErrInternalServerError)
	}

	s.deps.Auth.SetCookie(c, token, exp)

	log.Info().Str("user", u.Username).Msg("user logged in")

	return c.Redirect(SafeNext(form.Next))
}

func (s *Service) fail(c *fiber.Ctx, form *Form, err error) error {
	status := fiber.StatusUnauthorized
	if errors.Is(err, ErrInternalServerError) {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title": s.deps.Cfg.Title,
		"Email": form.Email,
		"Next":  SafeNext(form.Next),
		"error": err.Error(),
	})
}

// SafeNext returns next when it is a local path, otherwise the dashboard.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.HasPrefix(next, "/\\") || strings.HasPrefix(next, Path) {
		return handler.DashboardPath
	}

	return next
}
