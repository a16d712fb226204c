package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS contract_records (
		name             TEXT PRIMARY KEY,
		abi              TEXT NOT NULL,
		bytecode         TEXT NOT NULL,
		transaction_hash TEXT NOT NULL DEFAULT '',
		contract_address TEXT NOT NULL DEFAULT ''
	)
`

// PostgresRepository stores records in a contract_records table
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and creates the table if needed
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create contract_records table: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Get loads the record stored under name
func (r *PostgresRepository) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	query := `
		SELECT name, abi, bytecode, transaction_hash, contract_address
		FROM contract_records
		WHERE name = $1
	`

	var record models.ContractRecord
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&record.Name,
		&record.ABI,
		&record.Bytecode,
		&record.TransactionHash,
		&record.ContractAddress,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return &record, nil
}

// Exists reports whether a row exists for name
func (r *PostgresRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contract_records WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check record %s: %w", name, err)
	}
	return exists, nil
}

// Insert adds the row unless the name is taken
func (r *PostgresRepository) Insert(ctx context.Context, record *models.ContractRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO contract_records (name, abi, bytecode, transaction_hash, contract_address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		record.Name,
		record.ABI,
		record.Bytecode,
		record.TransactionHash,
		record.ContractAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Put upserts the row. An existing address is never replaced by a different one;
// abi and bytecode keep their original values.
func (r *PostgresRepository) Put(ctx context.Context, record *models.ContractRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO contract_records (name, abi, bytecode, transaction_hash, contract_address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			transaction_hash = EXCLUDED.transaction_hash,
			contract_address = EXCLUDED.contract_address
		WHERE contract_records.contract_address = ''
		   OR lower(contract_records.contract_address) = lower(EXCLUDED.contract_address)
	`

	tag, err := r.pool.Exec(ctx, query,
		record.Name,
		record.ABI,
		record.Bytecode,
		record.TransactionHash,
		record.ContractAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s is already resolved to a different address", domain.ErrInvalidTransition, record.Name)
	}
	return nil
}

// List returns every row ordered by name
func (r *PostgresRepository) List(ctx context.Context) ([]*models.ContractRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, abi, bytecode, transaction_hash, contract_address
		FROM contract_records
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []*models.ContractRecord
	for rows.Next() {
		var record models.ContractRecord
		if err := rows.Scan(
			&record.Name,
			&record.ABI,
			&record.Bytecode,
			&record.TransactionHash,
			&record.ContractAddress,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}
