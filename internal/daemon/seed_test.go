package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/component"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

func TestSeed(t *testing.T) {
	db := dbtest.New(t)
	cfg := &config.Config{Auth: config.Auth{AdminEmail: "owner@example.com", AdminPassword: "s3cret!"}}

	require.NoError(t, Seed(cfg, db))

	admin, err := user.Authenticate(db, "owner@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, DefaultAdminUsername, admin.Username)

	comps, err := component.List(db, "")
	require.NoError(t, err)
	assert.NotEmpty(t, comps)

	items, err := menu.List(db)
	require.NoError(t, err)
	assert.NotEmpty(t, items)

	// a second run adds nothing
	require.NoError(t, Seed(cfg, db))

	n, err := user.Count(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	again, err := component.List(db, "")
	require.NoError(t, err)
	assert.Len(t, again, len(comps))

	menus, err := menu.List(db)
	require.NoError(t, err)
	assert.Len(t, menus, len(items))
}

func TestSeedDefaultAdmin(t *testing.T) {
	db := dbtest.New(t)

	require.NoError(t, Seed(&config.Config{}, db))

	_, err := user.Authenticate(db, DefaultAdminEmail, DefaultAdminPassword)
	require.NoError(t, err)
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}
