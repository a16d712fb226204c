package records

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewRecordStore opens the configured backend, wrapping it with the
// resolved-record cache when enabled. The returned cleanup closes everything opened.
func NewRecordStore(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (usecase.RecordStore, func(), error) {
	var (
		store   usecase.RecordStore
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case config.StoreBackendFile:
		repo, err := NewFileRepository(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		store = repo
	case config.StoreBackendBadger:
		repo, err := NewBadgerRepository(cfg.Store.Path, log)
		if err != nil {
			return nil, nil, err
		}
		store = repo
		cleanup = func() {
			if err := repo.Close(); err != nil {
				log.Warn("failed to close badger store", "error", err)
			}
		}
	case config.StoreBackendRedis:
		repo, err := NewRedisRepository(ctx, RedisOptions{
			Addr:      cfg.Store.RedisAddr,
			Password:  cfg.Store.RedisPassword,
			DB:        cfg.Store.RedisDB,
			KeyPrefix: cfg.Store.KeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		store = repo
		cleanup = func() { _ = repo.Close() }
	case config.StoreBackendPostgres:
		repo, err := NewPostgresRepository(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store = repo
		cleanup = repo.Close
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	if !cfg.Cache.Enabled {
		return store, cleanup, nil
	}

	cached, err := NewCachedRepository(store, cfg.Cache.LifeWindow, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closeBackend := cleanup
	return cached, func() {
		_ = cached.Close()
		closeBackend()
	}, nil
}
