package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

var badgerKeyPrefix = []byte("contract/")

// BadgerRepository stores records in an embedded badger database
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens (or creates) a badger database at dir.
// An empty dir opens an in-memory database.
func NewBadgerRepository(dir string, log *slog.Logger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(&badgerLogger{log: log.With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerRepository{db: db}, nil
}

func badgerKey(name string) []byte {
	return append(append([]byte{}, badgerKeyPrefix...), name...)
}

// Get loads the record stored under name
func (r *BadgerRepository) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return decodeRecord(name, data)
}

// Exists reports whether a record is stored under name
func (r *BadgerRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check record %s: %w", name, err)
	}
	return exists, nil
}

// Insert writes the record in a transaction that fails if the key exists.
// Two concurrent inserts of the same key conflict at commit.
func (r *BadgerRepository) Insert(ctx context.Context, record *models.ContractRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := badgerKey(record.Name)
		_, err := txn.Get(key)
		if err == nil {
			return domain.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, badger.ErrConflict):
		return domain.ErrAlreadyExists
	default:
		return fmt.Errorf("failed to insert record %s: %w", record.Name, err)
	}
}

// Put creates or replaces the record
func (r *BadgerRepository) Put(ctx context.Context, record *models.ContractRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(record.Name), data)
	}); err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.Name, err)
	}
	return nil
}

// List scans every record key
func (r *BadgerRepository) List(ctx context.Context) ([]*models.ContractRecord, error) {
	var out []*models.ContractRecord
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(badgerKeyPrefix); it.ValidForPrefix(badgerKeyPrefix); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), string(badgerKeyPrefix))
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := decodeRecord(name, data)
			if err != nil {
				return err
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return out, nil
}

func (r *BadgerRepository) Close() error {
	return r.db.Close()
}

// badgerLogger forwards badger's internal logging to slog
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
