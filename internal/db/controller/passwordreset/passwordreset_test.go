package passwordreset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

func TestCreateReplacesTokens(t *testing.T) {
	db := dbtest.New(t)

	first, err := Create(db, "u1")
	require.NoError(t, err)
	assert.Len(t, first.Token, 64)

	second, err := Create(db, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	var n int64
	require.NoError(t, db.Model(&models.PasswordReset{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = Verify(db, first.Token, time.Now())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiry(t *testing.T) {
	db := dbtest.New(t)

	r, err := Create(db, "u1")
	require.NoError(t, err)

	id, err := Verify(db, r.Token, r.ExpiresAt.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = Verify(db, r.Token, r.ExpiresAt.Add(time.Minute))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsume(t *testing.T) {
	db := dbtest.New(t)

	u, err := user.Create(db, user.Registration{
		Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "secret1",
	})
	require.NoError(t, err)

	r, err := Create(db, u.ID)
	require.NoError(t, err)

	require.NoError(t, Consume(db, r.Token, "brandnew"))
	require.ErrorIs(t, Consume(db, r.Token, "again!"), ErrInvalidToken)

	stored, err := user.Get(db, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword("brandnew"))
}

func TestPurgeExpired(t *testing.T) {
	db := dbtest.New(t)

	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	prev := Now
	Now = func() time.Time { return at }

	t.Cleanup(func() { Now = prev })

	_, err := Create(db, "u1")
	require.NoError(t, err)

	Now = func() time.Time { return at.Add(2 * time.Hour) }
	_, err = Create(db, "u2")
	require.NoError(t, err)

	n, err := PurgeExpired(db, at.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
