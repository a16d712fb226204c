package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// CachedRepository serves resolved records from an in-process cache.
// Resolved records never change, so a cached copy can't go stale. Submitted
// records, existence checks and inserts always go to the backing store.
type CachedRepository struct {
	inner usecase.RecordStore
	cache *bigcache.BigCache
	log   *slog.Logger
}

// NewCachedRepository wraps inner with a bigcache holding entries for lifeWindow
func NewCachedRepository(inner usecase.RecordStore, lifeWindow time.Duration, log *slog.Logger) (*CachedRepository, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = 4096
	cfg.HardMaxCacheSize = 64
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create record cache: %w", err)
	}

	return &CachedRepository{
		inner: inner,
		cache: cache,
		log:   log.With("component", "CachedRepository"),
	}, nil
}

// Get returns a cached resolved record or loads from the backing store
func (r *CachedRepository) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	if data, err := r.cache.Get(name); err == nil {
		if record, err := decodeRecord(name, data); err == nil {
			return record, nil
		}
		r.evict(name)
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		r.log.Debug("record cache read failed", "name", name, "error", err)
	}

	record, err := r.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	r.remember(record)
	return record, nil
}

// Exists always asks the backing store
func (r *CachedRepository) Exists(ctx context.Context, name string) (bool, error) {
	return r.inner.Exists(ctx, name)
}

// Insert always goes to the backing store
func (r *CachedRepository) Insert(ctx context.Context, record *models.ContractRecord) error {
	r.evict(record.Name)
	if err := r.inner.Insert(ctx, record); err != nil {
		return err
	}
	r.remember(record)
	return nil
}

// Put writes through to the backing store
func (r *CachedRepository) Put(ctx context.Context, record *models.ContractRecord) error {
	r.evict(record.Name)
	if err := r.inner.Put(ctx, record); err != nil {
		return err
	}
	r.remember(record)
	return nil
}

// List always reads the backing store
func (r *CachedRepository) List(ctx context.Context) ([]*models.ContractRecord, error) {
	return r.inner.List(ctx)
}

func (r *CachedRepository) Close() error {
	return r.cache.Close()
}

func (r *CachedRepository) remember(record *models.ContractRecord) {
	if !record.IsResolved() {
		return
	}
	data, err := encodeRecord(record)
	if err != nil {
		return
	}
	if err := r.cache.Set(record.Name, data); err != nil {
		r.log.Debug("record cache write failed", "name", record.Name, "error", err)
	}
}

func (r *CachedRepository) evict(name string) {
	if err := r.cache.Delete(name); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		r.log.Debug("record cache delete failed", "name", name, "error", err)
	}
}
