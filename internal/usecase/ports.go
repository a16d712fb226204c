package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/trebuchet-org/creg/internal/domain/models"
)

// RecordStore persists contract records keyed by name.
// Implementations read the backing store on every call.
type RecordStore interface {
	// Get returns domain.ErrNotFound when no record exists for name
	Get(ctx context.Context, name string) (*models.ContractRecord, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Insert writes a new record and fails with domain.ErrAlreadyExists if the name is taken
	Insert(ctx context.Context, record *models.ContractRecord) error
	// Put creates or replaces the record stored under record.Name
	Put(ctx context.Context, record *models.ContractRecord) error
	List(ctx context.Context) ([]*models.ContractRecord, error)
}

// LedgerClient is the blockchain node the registry deploys to
type LedgerClient interface {
	// UnlockAccount grants signing authority for duration
	UnlockAccount(ctx context.Context, account, secret string, duration time.Duration) (*models.Session, error)
	// DeployContract submits a contract creation transaction and returns its hash
	DeployContract(ctx context.Context, session *models.Session, req models.DeployRequest) (string, error)
	// GetReceipt returns nil without error while the transaction is unconfirmed
	GetReceipt(ctx context.Context, txHash string) (*models.Receipt, error)
	// GetBalance returns the balance in the smallest denomination
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	BindContract(ctx context.Context, session *models.Session, abi, address string) (ContractHandle, error)
}

// ContractHandle is a deployed contract bound to its ABI
type ContractHandle interface {
	Address() string
	GetFunction(name string) (ContractFunction, error)
	Functions() []string
}

// ContractFunction is one ABI method of a bound contract
type ContractFunction interface {
	Name() string
	Signature() string
	ReadOnly() bool
	// Send submits a state-changing transaction and returns its hash
	Send(ctx context.Context, from string, args ...any) (string, error)
	// Call executes the method without a transaction
	Call(ctx context.Context, from string, args ...any) ([]models.DecodedValue, error)
}

// MetricsRecorder receives the outcome of every registry operation
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) ObserveOperation(string, string, time.Duration) {}

// ContractSelector picks a record interactively
type ContractSelector interface {
	SelectContract(ctx context.Context, records []*models.ContractRecord, prompt string) (*models.ContractRecord, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
