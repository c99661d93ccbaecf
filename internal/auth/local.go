package auth

import (
	"time"

	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

// LocalProvider authenticates against the users table.
type LocalProvider struct {
	db  *gorm.DB
	svc *Service
}

// NewLocalProvider creates a provider that signs tokens with svc.
func NewLocalProvider(db *gorm.DB, svc *Service) *LocalProvider {
	return &LocalProvider{db: db, svc: svc}
}

// Login checks email and password and returns the user with a signed token.
func (p *LocalProvider) Login(email, password string, remember bool) (*models.User, string, time.Time, error) {
	u, err := user.Authenticate(p.db, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := p.svc.Issue(u, remember)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	return u, token, exp, nil
}

// Me reloads the user behind claims so profile changes show up without a
// new login.
func (p *LocalProvider) Me(claims *Claims) (*models.User, error) {
	return user.Get(p.db, claims.Subject)
}
