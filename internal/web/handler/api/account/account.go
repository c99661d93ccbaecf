// Package account serves the /api/auth routes: login, logout, the current
// user, registration and password resets.
package account

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/passwordreset"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

const (
	// Path is the prefix of the account routes.
	Path = handler.APIPath + "/auth"

	forgotMessage = "If the email is registered, password reset instructions will be sent"
)

// Service is the account handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	provider *auth.LocalProvider
}

// Handler is the account handler.
var Handler = Service{}

// Init registers the account routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps
	s.provider = auth.NewLocalProvider(deps.DB, deps.Auth)

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", deps.Limiter(), s.Login)
		router.Post("/logout", auth.Optional(deps.Auth), s.Logout)
		router.Get("/me", auth.RequireAuth(deps.Auth), s.Me)
		router.Post("/register", deps.Limiter(), s.Register)
		router.Post("/forgot-password", deps.Limiter(), s.ForgotPassword)
		router.Post("/reset-password", deps.Limiter(), s.ResetPassword)
	})

	return nil
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
}

// Session is returned by a successful login.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
}

// Login checks the credentials and sets the session cookie.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "email and password are required")
	}

	u, token, exp, err := s.provider.Login(req.Email, req.Password, req.Remember)
	if err != nil {
		log.Info().Str("email", req.Email).Str("ip", c.IP()).Msg("failed login")

		return response.Error(c, err)
	}

	s.deps.Auth.SetCookie(c, token, exp)

	log.Info().Str("user", u.Username).Msg("user logged in")

	return response.OK(c, Session{User: u, Token: token, ExpiresAt: exp.Unix()})
}

// Logout revokes the presented token and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if claims := auth.CurrentClaims(c); claims != nil {
		if err := s.deps.Auth.Revoke(claims); err != nil {
			log.Warn().Err(err).Msg("failed to revoke token")
		}
	}

	s.deps.Auth.ClearCookie(c)

	return response.Message(c, "logged out")
}

// Me returns the current user.
func (s *Service) Me(c *fiber.Ctx) error {
	u, err := s.provider.Me(auth.CurrentClaims(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, u)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates a regular user. Roles are assigned by admins only.
func (s *Service) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u, err := user.Create(s.deps.DB, user.Registration{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     models.RoleUser,
	})
	if err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("user", u.Username).Msg("user registered")

	return response.Created(c, u)
}

type forgotRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token. The response does not reveal whether
// the email exists; in dev mode the token is returned for testing.
func (s *Service) ForgotPassword(c *fiber.Ctx) error {
	var req forgotRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return response.Fail(c, fiber.StatusBadRequest, "email is required")
	}

	u, err := user.GetByEmail(s.deps.DB, req.Email)
	if err != nil {
		log.Debug().Err(err).Str("email", req.Email).Msg("password reset for unknown email")

		return response.Message(c, forgotMessage)
	}

	reset, err := passwordreset.Create(s.deps.DB, u.ID)
	if err != nil {
		return response.Error(c, err)
	}

	log.Info().Str("user", u.Username).Time("expires", reset.ExpiresAt).Msg("password reset requested")

	if s.deps.Cfg.DevMode {
		return c.JSON(response.Envelope{
			Success: true,
			Message: forgotMessage,
			Data:    fiber.Map{"resetToken": reset.Token},
		})
	}

	return response.Message(c, forgotMessage)
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword sets a new password with a reset token from the body or
// the token query parameter.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Token == "" {
		req.Token = c.Query("token")
	}

	if req.Token == "" || req.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "token and password are required")
	}

	if err := passwordreset.Consume(s.deps.DB, req.Token, req.Password); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, "password has been reset")
}
