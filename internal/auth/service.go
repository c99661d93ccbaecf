package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

const (
	// DefaultTTL is the lifetime of a normal login.
	DefaultTTL = 24 * time.Hour
	// RememberTTL is the lifetime of a "remember me" login.
	RememberTTL = 7 * 24 * time.Hour
	// DefaultCookie carries the token for browser sessions.
	DefaultCookie = "auth_token"

	denyPrefix = "jwt:deny:"
)

// Claims of an EstateCMS token. Subject is the user id.
type Claims struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// User returns the identity stored in the claims. Only ID, Name, Email,
// Username and Role are set.
func (c *Claims) User() *models.User {
	return &models.User{
		ID:       c.Subject,
		Name:     c.Name,
		Email:    c.Email,
		Username: c.Username,
		Role:     c.Role,
	}
}

// Service signs, parses and revokes tokens.
type Service struct {
	secret   []byte
	ttl      time.Duration
	cookie   string
	secure   bool
	denylist fiber.Storage
	accounts *gorm.DB
	now      func() time.Time
}

// NewService returns a Service configured from cfg. denylist may be nil,
// in which case logout only clears the cookie.
func NewService(cfg config.Auth, denylist fiber.Storage) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrEmptySecret
	}

	s := &Service{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenTTL,
		cookie:   cfg.CookieName,
		secure:   cfg.CookieSecure,
		denylist: denylist,
		now:      time.Now,
	}

	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}

	if s.cookie == "" {
		s.cookie = DefaultCookie
	}

	return s, nil
}

// UseAccounts makes every request reload its account from db. Deleted
// accounts are rejected and role changes apply to open sessions.
func (s *Service) UseAccounts(db *gorm.DB) {
	s.accounts = db
}

// refresh replaces the identity in claims with the stored account.
func (s *Service) refresh(claims *Claims) error {
	if s.accounts == nil {
		return nil
	}

	u, err := user.Get(s.accounts, claims.Subject)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrAccountGone
	}

	if err != nil {
		return pkgerrors.Wrap(err, "failed to load account")
	}

	claims.Name = u.Name
	claims.Email = u.Email
	claims.Username = u.Username
	claims.Role = u.Role

	return nil
}

// CookieName is the name of the session cookie.
func (s *Service) CookieName() string {
	return s.cookie
}

// Issue signs a token for u. remember extends the lifetime to RememberTTL.
func (s *Service) Issue(u *models.User, remember bool) (string, time.Time, error) {
	ttl := s.ttl
	if remember {
		ttl = RememberTTL
	}

	now := s.now()
	exp := now.Add(ttl)

	claims := Claims{
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, pkgerrors.Wrap(err, "failed to sign token")
	}

	return signed, exp, nil
}

// Parse verifies token and returns its claims.
func (s *Service) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		v, err := s.denylist.Get(denyPrefix + claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to read token denylist")
		}

		if len(v) > 0 {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke denylists the token until it expires.
func (s *Service) Revoke(claims *Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	return pkgerrors.Wrap(
		s.denylist.Set(denyPrefix+claims.ID, []byte(claims.Subject), ttl),
		"failed to revoke token",
	)
}

// SetCookie stores token in the session cookie.
func (s *Service) SetCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(exp.Sub(s.now()).Seconds()),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func (s *Service) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
