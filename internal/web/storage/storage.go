// Package storage provides the fiber.Storage used by the rate limiter,
// the token denylist and the page cache.
//
// MySQL and PostgreSQL use the gofiber storage drivers. SQLite, which has
// no driver of its own there, stores entries in the storage_entries table
// through GORM.
package storage

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/dsn"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

// Table is the table name used by the MySQL and PostgreSQL drivers.
const Table = "fiber_storage"

const gcInterval = 10 * time.Minute

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// New returns the storage for the configured engine.
func New(cfg config.DB, db *gorm.DB) (fiber.Storage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	switch cfg.Engine {
	case config.EngineMySQL:
		sqlDB, err := db.DB()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to get sql handle")
		}

		return mysqlstorage.New(mysqlstorage.Config{
			Db:         sqlDB,
			Table:      Table,
			GCInterval: gcInterval,
		}), nil
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         Table,
			GCInterval:    gcInterval,
		}), nil
	default:
		return NewGorm(db), nil
	}
}

// Gorm is a fiber.Storage over the storage_entries table.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ fiber.Storage = (*Gorm)(nil)

// NewGorm returns a storage over db.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db, now: time.Now}
}

// Get returns the value of key, or nil when it is missing or expired.
func (g *Gorm) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var e models.StorageEntry

	err := g.db.Where("`key` = ? AND (expires_at = 0 OR expires_at > ?)", key, g.now().Unix()).
		Limit(1).Find(&e).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read storage entry")
	}

	if e.Key == "" {
		return nil, nil
	}

	return e.Value, nil
}

// Set stores val under key. A zero exp never expires.
func (g *Gorm) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	e := models.StorageEntry{Key: key, Value: val}
	if exp > 0 {
		e.ExpiresAt = g.now().Add(exp).Unix()
	}

	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&e).Error

	return pkgerrors.Wrap(err, "failed to write storage entry")
}

// Delete removes key.
func (g *Gorm) Delete(key string) error {
	if key == "" {
		return nil
	}

	return pkgerrors.Wrap(g.db.Where("`key` = ?", key).Delete(&models.StorageEntry{}).Error, "failed to delete storage entry")
}

// DeletePrefix removes every key starting with prefix.
func (g *Gorm) DeletePrefix(prefix string) (int64, error) {
	res := g.db.Where("`key` LIKE ?", prefix+"%").Delete(&models.StorageEntry{})

	return res.RowsAffected, pkgerrors.Wrap(res.Error, "failed to delete storage entries")
}

// Reset removes every entry.
func (g *Gorm) Reset() error {
	return pkgerrors.Wrap(
		g.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.StorageEntry{}).Error,
		"failed to reset storage",
	)
}

// Close is a no-op. The connection belongs to the caller.
func (g *Gorm) Close() error {
	return nil
}

// Purge deletes entries that expired before now.
func (g *Gorm) Purge(now time.Time) (int64, error) {
	res := g.db.Where("expires_at > 0 AND expires_at <= ?", now.Unix()).Delete(&models.StorageEntry{})

	return res.RowsAffected, pkgerrors.Wrap(res.Error, "failed to purge storage")
}
