// Package passwordreset issues and redeems single-use password reset tokens.
package passwordreset

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

// TTL is how long a token stays valid.
const TTL = time.Hour

const tokenBytes = 32

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvalidToken is returned for unknown or expired tokens.
	ErrInvalidToken = errors.New("reset token is invalid or has expired")
)

// Now is the clock used for expiry. Tests replace it.
var Now = time.Now //nolint:gochecknoglobals

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Create replaces every token of userID with a new one.
func Create(db *gorm.DB, userID string) (*models.PasswordReset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	token, err := newToken()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to generate token")
	}

	r := &models.PasswordReset{
		UserID:    userID,
		Token:     token,
		ExpiresAt: Now().Add(TTL),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to delete old tokens")
		}

		return pkgerrors.Wrap(tx.Create(r).Error, "failed to store token")
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Verify returns the user id the token belongs to when it has not expired.
func Verify(db *gorm.DB, token string, now time.Time) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	var r models.PasswordReset

	err := db.Where("token = ? AND expires_at > ?", token, now).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidToken
	}

	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to load token")
	}

	return r.UserID, nil
}

// Consume sets password for the owner of token and deletes the token.
func Consume(db *gorm.DB, token, password string) error {
	userID, err := Verify(db, token, Now())
	if err != nil {
		return err
	}

	if err := user.UpdatePassword(db, userID, password); err != nil {
		return err
	}

	return pkgerrors.Wrap(
		db.Where("token = ?", token).Delete(&models.PasswordReset{}).Error,
		"failed to delete token",
	)
}

// PurgeExpired deletes tokens that expired before now.
func PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("expires_at <= ?", now).Delete(&models.PasswordReset{})

	return res.RowsAffected, pkgerrors.Wrap(res.Error, "failed to purge reset tokens")
}
