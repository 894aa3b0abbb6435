package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/config"
	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/journal"
	"github.com/kingrea/grademaster/internal/logging"
	"github.com/kingrea/grademaster/internal/session"
	"github.com/kingrea/grademaster/internal/subscription"
)

// runtimeEnv is everything a command needs: config, loggers and the open
// subscription store.
type runtimeEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	journal *journal.Journal
	store   subscription.Store
	closers []func() error
}

func openRuntime(ctx context.Context, dir string, verbose bool) (*runtimeEnv, error) {
	if dir == "" {
		var err error
		if dir, err = config.DefaultDataDir(); err != nil {
			return nil, err
		}
	}
	if err := config.InitDataDir(dir); err != nil {
		return nil, fmt.Errorf("initializing %s: %w", dir, err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogPath(), verbose)
	if err != nil {
		return nil, err
	}
	j, err := journal.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	env := &runtimeEnv{cfg: cfg, logger: logger, journal: j}
	store, closeStore, err := openStore(ctx, cfg, cfg.File.Storage.Backend)
	if err != nil {
		logger.Error("open subscription store", zap.String("backend", cfg.File.Storage.Backend), zap.Error(err))
		return nil, err
	}
	env.store = store
	env.closers = append(env.closers, closeStore)
	logger.Debug("runtime ready",
		zap.String("data_dir", dir),
		zap.String("backend", cfg.File.Storage.Backend),
		zap.String("provider", cfg.File.Grading.Provider))
	return env, nil
}

// openStore opens the subscription store for backend. The returned close
// func is never nil.
func openStore(ctx context.Context, cfg *config.Config, backend string) (subscription.Store, func() error, error) {
	switch backend {
	case config.BackendSQLite:
		db, err := subscription.OpenSQLite(ctx, cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendFile, "":
		return subscription.NewFileStore(cfg.SubscriptionPath()), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// controller opens the subscription counter and builds the grader. A grader
// that cannot be built (missing API key, bad endpoint) still yields a
// working controller whose gradings fail with the generic message.
func (e *runtimeEnv) controller(ctx context.Context) (*session.Controller, error) {
	counter, err := subscription.Open(ctx, e.store)
	if err != nil {
		return nil, err
	}
	settings := grading.SettingsFromConfig(e.cfg)
	grader, err := grading.New(settings, e.logger)
	if err != nil {
		e.logger.Warn("grader unavailable", zap.String("provider", settings.Provider), zap.Error(err))
		e.journal.Warn("Grader unavailable: %v", err)
		buildErr := err
		grader = grading.GraderFunc(func(context.Context, grading.Image) (*grading.Result, error) {
			return nil, buildErr
		})
	}
	return session.NewController(counter, grader,
		session.WithLogger(e.logger),
		session.WithJournal(e.journal),
		session.WithTimeout(settings.Timeout),
	)
}

// Close releases the store and flushes the logger.
func (e *runtimeEnv) Close() {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		e.logger.Warn("closing runtime", zap.Error(err))
	}
	_ = e.logger.Sync()
}
