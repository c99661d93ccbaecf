package daemon

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/component"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

// Defaults of the first admin account.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
)

// Seed creates the first admin account when no user exists, and inserts
// missing system components and the default menu. It is safe to run
// repeatedly.
func Seed(cfg *config.Config, db *gorm.DB) error {
	n, err := user.Count(db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if n == 0 {
		email, password := cfg.Auth.AdminEmail, cfg.Auth.AdminPassword
		if email == "" {
			email = DefaultAdminEmail
		}

		if password == "" {
			password = DefaultAdminPassword

			log.Warn().Str("email", email).Msg("seeding admin with the default password, change it after the first login")
		}

		if _, err := user.Create(db, user.Registration{
			Username: DefaultAdminUsername,
			Email:    email,
			Name:     "Administrator",
			Password: password,
			Role:     models.RoleAdmin,
		}); err != nil {
			return pkgerrors.Wrap(err, "failed to seed admin")
		}

		log.Info().Str("email", email).Msg("admin account created")
	}

	added, err := component.SeedSystem(db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if added > 0 {
		log.Info().Int("added", added).Msg("system components seeded")
	}

	if added, err = menu.Seed(db); err != nil {
		return err //nolint:wrapcheck
	}

	if added > 0 {
		log.Info().Int("added", added).Msg("default menu seeded")
	}

	return nil
}
