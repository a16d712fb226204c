package records

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

const recordExt = ".json"

// fileNameEncoding maps names onto a single-case alphabet so that names
// differing only in case get distinct files on case-insensitive filesystems
var fileNameEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

func fileName(name string) string {
	return strings.ToLower(fileNameEncoding.EncodeToString([]byte(name))) + recordExt
}

func nameFromFile(file string) (string, bool) {
	encoded := strings.ToUpper(strings.TrimSuffix(file, recordExt))
	b, err := fileNameEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// FileRepository stores one JSON file per contract record. Nothing is held
// in memory, so concurrent processes sharing the directory see each other's writes.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a file repository rooted at dir
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create record directory: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) path(name string) string {
	return filepath.Join(r.dir, fileName(name))
}

// Get loads the record stored under name
func (r *FileRepository) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return decodeRecord(name, data)
}

// Exists reports whether a record file is present for name
func (r *FileRepository) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(r.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat record %s: %w", name, err)
}

// Insert writes the record only if no file exists for its name. The content is
// written to a temp file first and then hard-linked into place, which fails
// atomically when the target already exists.
func (r *FileRepository) Insert(ctx context.Context, record *models.ContractRecord) error {
	tmpPath, err := r.writeTemp(record)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	if err := os.Link(tmpPath, r.path(record.Name)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert record %s: %w", record.Name, err)
	}
	return nil
}

// Put creates or replaces the record file
func (r *FileRepository) Put(ctx context.Context, record *models.ContractRecord) error {
	tmpPath, err := r.writeTemp(record)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, r.path(record.Name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save record %s: %w", record.Name, err)
	}
	return nil
}

// List loads every record in the directory
func (r *FileRepository) List(ctx context.Context) ([]*models.ContractRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read record directory: %w", err)
	}

	var out []*models.ContractRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		name, ok := nameFromFile(entry.Name())
		if !ok {
			continue
		}
		record, err := r.Get(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// removed between ReadDir and Get
				continue
			}
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// writeTemp writes the encoded record to a temp file in the record directory
func (r *FileRepository) writeTemp(record *models.ContractRecord) (string, error) {
	data, err := encodeRecord(record)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(r.dir, ".record-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmp.Name(), nil
}
