// Package user manages dashboard accounts.
package user

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email is registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRole is returned for a role other than admin or user.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Registration holds the fields of a new account.
type Registration struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Email    string      `json:"email"    validate:"required,email"`
	Name     string      `json:"name"     validate:"required,min=3"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role"`
}

// Profile holds the fields a user may change on their own account.
type Profile struct {
	Name      string `json:"name"      validate:"required,min=3"`
	Email     string `json:"email"     validate:"required,email"`
	AvatarURL string `json:"avatarUrl"`
}

func first(db *gorm.DB, where string, args ...any) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	if err := db.Where(where, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, pkgerrors.Wrap(err, "failed to load user")
	}

	return &u, nil
}

// Get loads a user by id.
func Get(db *gorm.DB, id string) (*models.User, error) {
	return first(db, "id = ?", id)
}

// GetByEmail loads a user by email, case-insensitively.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	return first(db, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByUsername loads a user by username.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	return first(db, "username = ?", username)
}

// List returns every account ordered by creation.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.User

	if err := db.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list users")
	}

	return out, nil
}

// Count returns the number of accounts.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := db.Model(&models.User{}).Count(&n).Error

	return n, pkgerrors.Wrap(err, "failed to count users")
}

func emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	var n int64

	q := db.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&n).Error; err != nil {
		return false, pkgerrors.Wrap(err, "failed to check email")
	}

	return n > 0, nil
}

// Create registers a new account. The role defaults to user.
func Create(db *gorm.DB, r Registration) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)

	if err := validation.Struct(r); err != nil {
		return nil, err
	}

	if r.Role == "" {
		r.Role = models.RoleUser
	}

	if !r.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var n int64
	if err := db.Model(&models.User{}).Where("username = ?", r.Username).Count(&n).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to check username")
	}

	if n > 0 {
		return nil, ErrUsernameTaken
	}

	taken, err := emailTaken(db, r.Email, "")
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := models.HashPassword(r.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to hash password")
	}

	u := &models.User{
		Username: r.Username,
		Email:    r.Email,
		Name:     r.Name,
		Password: hash,
		Role:     r.Role,
	}

	if err := db.Create(u).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create user")
	}

	return u, nil
}

// Authenticate returns the account for email when password matches.
// Legacy bcrypt hashes are upgraded to Argon2id on success.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	u, err := GetByEmail(db, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if u.NeedsRehash() {
		if err := UpdatePassword(db, u.ID, password); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// Update changes the profile fields of id.
func Update(db *gorm.DB, id string, p Profile) (*models.User, error) {
	u, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	p.Email = strings.TrimSpace(p.Email)

	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	taken, err := emailTaken(db, p.Email, id)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, ErrEmailTaken
	}

	u.Name = p.Name
	u.Email = p.Email

	if p.AvatarURL != "" {
		u.AvatarURL = p.AvatarURL
	}

	if err := db.Save(u).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to update user")
	}

	return u, nil
}

// UpdateRole sets the role of id.
func UpdateRole(db *gorm.DB, id string, role models.Role) error {
	if db == nil {
		return ErrDBNil
	}

	if !role.Valid() {
		return ErrInvalidRole
	}

	return updateColumn(db, id, "role", role)
}

// UpdateAvatar sets the avatar url of id.
func UpdateAvatar(db *gorm.DB, id, url string) error {
	if db == nil {
		return ErrDBNil
	}

	return updateColumn(db, id, "avatar_url", url)
}

// UpdatePassword hashes and stores a new password for id.
func UpdatePassword(db *gorm.DB, id, password string) error {
	if db == nil {
		return ErrDBNil
	}

	if err := validation.Var("password", password, "required,min=6"); err != nil {
		return err
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to hash password")
	}

	return updateColumn(db, id, "password", hash)
}

func updateColumn(db *gorm.DB, id, column string, value any) error {
	res := db.Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return pkgerrors.Wrapf(res.Error, "failed to update %s", column)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes the account and its reset tokens.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.PasswordReset{}).Error; err != nil {
			return pkgerrors.Wrap(err, "failed to delete reset tokens")
		}

		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return pkgerrors.Wrap(res.Error, "failed to delete user")
		}

		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}
