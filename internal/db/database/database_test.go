package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/database"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cms.db")

	db, err := database.Open(config.DB{Engine: config.EngineSQLite, Path: path, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestDialectorUnknownEngine(t *testing.T) {
	_, err := database.Dialector(config.DB{Engine: "oracle"})
	require.ErrorIs(t, err, config.ErrUnknownEngine)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, database.LogLevel("silent"))
	assert.Equal(t, gormlogger.Error, database.LogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, database.LogLevel("info"))
	assert.Equal(t, gormlogger.Warn, database.LogLevel(""))
}
