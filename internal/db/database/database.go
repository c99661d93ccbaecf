// Package database opens and migrates the GORM connection.
package database

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/dsn"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	gormadapter "github.com/EstateCMS/EstateCMS/internal/logger/adapter/gorm"
)

const slowQuery = 200 * time.Millisecond

// Dialector returns the GORM dialector for cfg.Engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	source := dsn.Create(cfg)

	switch cfg.Engine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	case config.EngineSQLite, "":
		if source != ":memory:" && !strings.HasPrefix(source, "file::memory:") {
			if err := os.MkdirAll(filepath.Dir(source), 0o750); err != nil { //nolint:mnd
				return nil, errors.Wrap(err, "can't create database directory")
			}
		}

		return sqlite.Open(source), nil
	default:
		return nil, config.ErrUnknownEngine
	}
}

// LogLevel maps the config value to a GORM log level.
func LogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Open connects to the configured database.
func Open(cfg config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormadapter.New(LogLevel(cfg.LogLevel), slowQuery),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.Engine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	log.Info().Str("engine", cfg.Engine).Msg("database connected")

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
