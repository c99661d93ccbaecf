package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EstateCMS/EstateCMS/internal/db/dbtest"
	"github.com/EstateCMS/EstateCMS/internal/db/query"
)

func TestCRUDHelpers(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	n, err := query.Insert(ctx, db, "settings", map[string]any{"name": "greeting", "value": []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	row, err := query.GetOne(ctx, db, "SELECT name, value FROM settings WHERE name = ?", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "greeting", row["name"])

	n, err = query.Update(ctx, db, "settings", map[string]any{"value": []byte("hello")}, "name = ?", "greeting")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := query.GetMany(ctx, db, "SELECT name FROM settings")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	n, err = query.Remove(ctx, db, "settings", "name = ?", "greeting")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = query.GetOne(ctx, db, "SELECT name FROM settings WHERE name = ?", "greeting")
	require.ErrorIs(t, err, query.ErrNoRows)
}

func TestGuards(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "nil db",
			run: func() error {
				_, err := query.Query(ctx, nil, "SELECT 1")

				return err
			},
			wantErr: query.ErrDBNil,
		},
		{
			name: "insert without values",
			run: func() error {
				_, err := query.Insert(ctx, db, "settings", nil)

				return err
			},
			wantErr: query.ErrNoValues,
		},
		{
			name: "update without where",
			run: func() error {
				_, err := query.Update(ctx, db, "settings", map[string]any{"name": "x"}, " ")

				return err
			},
			wantErr: query.ErrNoWhere,
		},
		{
			name: "remove without where",
			run: func() error {
				_, err := query.Remove(ctx, db, "settings", "")

				return err
			},
			wantErr: query.ErrNoWhere,
		},
		{
			name: "injected table name",
			run: func() error {
				_, err := query.Remove(ctx, db, "settings; DROP TABLE users", "1 = 1")

				return err
			},
			wantErr: query.ErrBadIdentifier,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.run(), tc.wantErr)
		})
	}
}

func TestQueryDriverError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id FROM projects").WillReturnError(errors.New("connection reset"))

	_, err = query.GetMany(context.Background(), db, "SELECT id FROM projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}
