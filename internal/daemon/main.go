// Package daemon wires the database, storage, web server and scheduler
// together and runs them until a shutdown signal arrives.
package daemon

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/database"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/scheduler"
	"github.com/EstateCMS/EstateCMS/internal/web"
	"github.com/EstateCMS/EstateCMS/internal/web/storage"
)

// ErrNilConfig is returned by New without config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	store      fiber.Storage
	webService *web.Service
	scheduler  *scheduler.Scheduler
}

// New opens and migrates the database, seeds it and builds the services.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = database.Migrate(db); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = Seed(cfg, db); err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.DB, db)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create storage")
	}

	uploader, err := media.New(cfg.Cloudinary, cfg.Webserver.UploadDir)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create uploader")
	}

	webService, err := web.New(cfg, db, store, uploader)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	d := &Daemon{
		cfg:        cfg,
		db:         db,
		store:      store,
		webService: webService,
	}

	if cfg.Scheduler.Enabled {
		// the gofiber mysql and postgres storages collect their own garbage
		var purger scheduler.Purger
		if p, ok := store.(scheduler.Purger); ok {
			purger = p
		}

		var cache scheduler.Revalidator
		if c := webService.Deps().Cache; c != nil {
			cache = c
		}

		if d.scheduler, err = scheduler.New(cfg.Scheduler, db, purger, cache); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	return d, nil
}

// Run serves HTTP and runs the scheduler until ctx is done or SIGINT or
// SIGTERM arrives. The first failing service stops the others.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.webService.Start(ctx)
	})

	if d.scheduler != nil {
		g.Go(func() error {
			return d.scheduler.Run(ctx)
		})
	}

	err := g.Wait()

	d.Close()

	return err //nolint:wrapcheck
}

// Close releases the storage and the database connection.
func (d *Daemon) Close() {
	if err := d.store.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}
