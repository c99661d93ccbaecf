package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role of a dashboard user.
type Role string

const (
	// RoleAdmin may manage users and website settings.
	RoleAdmin Role = "admin"
	// RoleUser may manage content.
	RoleUser Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a dashboard account.
type User struct {
	// ID is a UUID.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Username is unique and used in landing page ownership.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is unique and used to log in.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is an argon2id hash, or a bcrypt hash for imported accounts.
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	AvatarURL string    `gorm:"size:1024" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)

	if u.Role == "" {
		u.Role = RoleUser
	}

	return nil
}

// IsAdmin reports whether u has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HashPassword hashes a plaintext password with Argon2id default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// VerifyPassword compares password with the stored hash. Bcrypt hashes
// carried over from older installations are still accepted.
func (u *User) VerifyPassword(password string) bool {
	if strings.HasPrefix(u.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user", u.Username).Msg("failed to verify password")

		return false
	}

	return match
}

// NeedsRehash reports whether the stored hash predates Argon2id.
func (u *User) NeedsRehash() bool {
	return strings.HasPrefix(u.Password, "$2")
}

// PasswordReset is a single-use token to set a new password.
type PasswordReset struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36;not null"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// BeforeCreate assigns an ID.
func (p *PasswordReset) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	return nil
}
