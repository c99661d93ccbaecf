// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/passwordreset"
)

// Purger deletes expired entries from a storage.
type Purger interface {
	Purge(now time.Time) (int64, error)
}

// Revalidator drops cached pages.
type Revalidator interface {
	Revalidate(paths ...string)
}

// Scheduler wraps a cron runner with the CMS jobs.
type Scheduler struct {
	cron  *cron.Cron
	db    *gorm.DB
	store Purger
	cache Revalidator
	now   func() time.Time
}

// New registers the jobs of cfg. store and cache may be nil.
func New(cfg config.Scheduler, db *gorm.DB, store Purger, cache Revalidator) (*Scheduler, error) {
	s := &Scheduler{
		cron:  cron.New(cron.WithChain(cron.Recover(cronLogger{}))),
		db:    db,
		store: store,
		cache: cache,
		now:   time.Now,
	}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"purge password resets", cfg.PurgeResetsSpec, s.PurgeResets},
		{"archive landing pages", cfg.ArchiveLandingPages, s.ArchiveLandingPages},
		{"purge storage", cfg.PurgeStorageSpec, s.PurgeStorage},
	}

	for _, j := range jobs {
		if j.spec == "" {
			continue
		}

		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return nil, errors.Wrapf(err, "invalid schedule %q for %s", j.spec, j.name)
		}

		log.Debug().Str("job", j.name).Str("spec", j.spec).Msg("scheduled job")
	}

	return s, nil
}

// Run starts the jobs and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")

	return nil
}

// PurgeResets deletes expired password reset tokens.
func (s *Scheduler) PurgeResets() {
	n, err := passwordreset.PurgeExpired(s.db, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to purge password resets")

		return
	}

	if n > 0 {
		log.Info().Int64("deleted", n).Msg("purged expired password resets")
	}
}

// ArchiveLandingPages archives expired landing pages and drops their
// cached copies.
func (s *Scheduler) ArchiveLandingPages() {
	n, err := landingpage.ArchiveExpired(s.db, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to archive landing pages")

		return
	}

	if n > 0 {
		log.Info().Int64("archived", n).Msg("archived expired landing pages")

		if s.cache != nil {
			s.cache.Revalidate("/lp/*")
		}
	}
}

// PurgeStorage deletes expired storage entries.
func (s *Scheduler) PurgeStorage() {
	if s.store == nil {
		return
	}

	n, err := s.store.Purge(s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to purge storage")

		return
	}

	log.Debug().Int64("deleted", n).Msg("purged expired storage entries")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
