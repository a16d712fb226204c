package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

const redisScanCount = 100

// RedisOptions holds connection settings for RedisRepository
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisRepository stores each record as a JSON string under prefix+name
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository connects to redis and verifies the connection
func NewRedisRepository(ctx context.Context, opts RedisOptions) (*RedisRepository, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if opts.KeyPrefix == "" {
		return nil, fmt.Errorf("redis key prefix cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepository{client: client, prefix: opts.KeyPrefix}, nil
}

func (r *RedisRepository) key(name string) string {
	return r.prefix + name
}

// Get loads the record stored under name
func (r *RedisRepository) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		if strings.HasPrefix(err.Error(), "WRONGTYPE") {
			return nil, fmt.Errorf("%w: key %s does not hold a record", domain.ErrInvalidRecord, r.key(name))
		}
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return decodeRecord(name, data)
}

// Exists reports whether a record is stored under name
func (r *RedisRepository) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check record %s: %w", name, err)
	}
	return n > 0, nil
}

// Insert writes the record with SETNX so only the first writer of a name succeeds
func (r *RedisRepository) Insert(ctx context.Context, record *models.ContractRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.key(record.Name), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.Name, err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Put creates or replaces the record
func (r *RedisRepository) Put(ctx context.Context, record *models.ContractRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(record.Name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.Name, err)
	}
	return nil
}

// List scans every key under the prefix
func (r *RedisRepository) List(ctx context.Context) ([]*models.ContractRecord, error) {
	var (
		out    []*models.ContractRecord
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", redisScanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan records: %w", err)
		}
		for _, key := range keys {
			name := strings.TrimPrefix(key, r.prefix)
			record, err := r.Get(ctx, name)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				if errors.Is(err, domain.ErrInvalidRecord) {
					// foreign value sharing the prefix
					continue
				}
				return nil, err
			}
			out = append(out, record)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
