package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// GetContractResult contains the record and its bound contract handle
type GetContractResult struct {
	Record   *models.ContractRecord
	Contract ContractHandle
}

// GetContract is the use case for obtaining an invocable handle to a resolved contract
type GetContract struct {
	cfg     *config.RuntimeConfig
	store   RecordStore
	ledger  LedgerClient
	metrics MetricsRecorder
	log     *slog.Logger
}

// NewGetContract creates a new GetContract use case
func NewGetContract(
	cfg *config.RuntimeConfig,
	store RecordStore,
	ledger LedgerClient,
	metrics MetricsRecorder,
	log *slog.Logger,
) *GetContract {
	return &GetContract{
		cfg:     cfg,
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		log:     log.With("component", "GetContract"),
	}
}

// Run binds the recorded ABI to the recorded address. Unresolved contracts
// are rejected before any ledger call.
func (uc *GetContract) Run(ctx context.Context, name string) (result *GetContractResult, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation(OpContract, outcomeOf(err), time.Since(start)) }()

	record, err := uc.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewRegistryError(OpContract, name, domain.ErrUnknownContract, nil)
		}
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if !record.IsResolved() {
		return nil, domain.NewRegistryError(OpContract, name, domain.ErrAddressNotResolved, nil)
	}

	session, err := unlockSigner(ctx, uc.ledger, uc.cfg.Signer)
	if err != nil {
		return nil, domain.NewRegistryError(OpContract, name, domain.ErrUnlockFailed, err)
	}

	handle, err := uc.ledger.BindContract(ctx, session, record.ABI, record.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s at %s: %w", name, record.ContractAddress, err)
	}

	uc.log.Debug("contract bound", "name", name, "address", record.ContractAddress)
	return &GetContractResult{Record: record, Contract: handle}, nil
}
