package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

func alice() Registration {
	return Registration{Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "secret1"}
}

func TestCreate(t *testing.T) {
	db := dbtest.New(t)

	u, err := Create(db, alice())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, u.VerifyPassword("secret1"))

	tests := []struct {
		name    string
		in      func(r *Registration)
		wantErr error
	}{
		{name: "duplicate username", in: func(r *Registration) { r.Email = "other@example.com" }, wantErr: ErrUsernameTaken},
		{name: "duplicate email", in: func(r *Registration) { r.Username = "alice2"; r.Email = "ALICE@example.com" }, wantErr: ErrEmailTaken},
		{name: "bad role", in: func(r *Registration) { r.Username = "bob"; r.Email = "bob@example.com"; r.Role = "root" }, wantErr: ErrInvalidRole},
		{name: "short password", in: func(r *Registration) { r.Username = "bob"; r.Email = "bob@example.com"; r.Password = "123" }, wantErr: validation.ErrInvalid},
		{name: "bad email", in: func(r *Registration) { r.Username = "bob"; r.Email = "nope" }, wantErr: validation.ErrInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := alice()
			tc.in(&r)

			_, err := Create(db, r)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := dbtest.New(t)

	_, err := Create(db, alice())
	require.NoError(t, err)

	u, err := Authenticate(db, "Alice@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = Authenticate(db, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(db, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUpgradesBcrypt(t *testing.T) {
	db := dbtest.New(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy1"), bcrypt.MinCost)
	require.NoError(t, err)

	legacy := &models.User{Username: "old", Email: "old@example.com", Password: string(hash)}
	require.NoError(t, db.Create(legacy).Error)

	_, err = Authenticate(db, "old@example.com", "legacy1")
	require.NoError(t, err)

	stored, err := Get(db, legacy.ID)
	require.NoError(t, err)
	assert.False(t, stored.NeedsRehash())
	assert.True(t, stored.VerifyPassword("legacy1"))
}

func TestUpdate(t *testing.T) {
	db := dbtest.New(t)

	a, err := Create(db, alice())
	require.NoError(t, err)

	_, err = Create(db, Registration{Username: "bob", Email: "bob@example.com", Name: "Bobby", Password: "secret2"})
	require.NoError(t, err)

	_, err = Update(db, a.ID, Profile{Name: "Alice A", Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	u, err := Update(db, a.ID, Profile{Name: "Alice A", Email: "alice@new.example.com", AvatarURL: "https://cdn/x.png"})
	require.NoError(t, err)
	assert.Equal(t, "Alice A", u.Name)
	assert.Equal(t, "https://cdn/x.png", u.AvatarURL)

	require.NoError(t, UpdateRole(db, a.ID, models.RoleAdmin))
	require.ErrorIs(t, UpdateRole(db, a.ID, "root"), ErrInvalidRole)
	require.ErrorIs(t, UpdateRole(db, "missing", models.RoleAdmin), ErrUserNotFound)

	require.NoError(t, UpdatePassword(db, a.ID, "newpass"))

	stored, err := GetByUsername(db, "alice")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin())
	assert.True(t, stored.VerifyPassword("newpass"))
}

func TestDelete(t *testing.T) {
	db := dbtest.New(t)

	u, err := Create(db, alice())
	require.NoError(t, err)

	require.NoError(t, Delete(db, u.ID))
	require.ErrorIs(t, Delete(db, u.ID), ErrUserNotFound)

	n, err := Count(db)
	require.NoError(t, err)
	assert.Zero(t, n)
}
