package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/config"
)

// ResolveOutcome tags how ResolveAddress completed
type ResolveOutcome string

const (
	// ResolveOutcomeCached means the address was already recorded
	ResolveOutcomeCached ResolveOutcome = "cached"
	// ResolveOutcomeResolved means the address was just read from the receipt and recorded
	ResolveOutcomeResolved ResolveOutcome = "resolved"
	// ResolveOutcomeNotYetConfirmed means the ledger has no receipt yet; retry later
	ResolveOutcomeNotYetConfirmed ResolveOutcome = "not_yet_confirmed"
)

// ResolveAddressParams contains parameters for resolving a contract address
type ResolveAddressParams struct {
	Name string
}

// ResolveAddressResult contains the address, if known, and how it was obtained
type ResolveAddressResult struct {
	Name            string         `json:"name" yaml:"name"`
	TransactionHash string         `json:"transactionHash" yaml:"transactionHash"`
	Address         string         `json:"address,omitempty" yaml:"address,omitempty"`
	Outcome         ResolveOutcome `json:"outcome" yaml:"outcome"`
}

// Confirmed reports whether an address was obtained
func (r *ResolveAddressResult) Confirmed() bool {
	return r.Outcome != ResolveOutcomeNotYetConfirmed && r.Address != ""
}

// ResolveAddress is the use case for upgrading a submitted deployment to resolved
type ResolveAddress struct {
	cfg     *config.RuntimeConfig
	store   RecordStore
	ledger  LedgerClient
	metrics MetricsRecorder
	log     *slog.Logger
}

// NewResolveAddress creates a new ResolveAddress use case
func NewResolveAddress(
	cfg *config.RuntimeConfig,
	store RecordStore,
	ledger LedgerClient,
	metrics MetricsRecorder,
	log *slog.Logger,
) *ResolveAddress {
	return &ResolveAddress{
		cfg:     cfg,
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		log:     log.With("component", "ResolveAddress"),
	}
}

// Run returns the recorded address, or looks up the deployment receipt and
// records the address it carries. A missing receipt is a normal outcome.
func (uc *ResolveAddress) Run(ctx context.Context, params ResolveAddressParams) (result *ResolveAddressResult, err error) {
	start := time.Now()
	defer func() {
		outcome := outcomeOf(err)
		if err == nil {
			outcome = string(result.Outcome)
		}
		uc.metrics.ObserveOperation(OpResolve, outcome, time.Since(start))
	}()

	record, err := uc.store.Get(ctx, params.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewRegistryError(OpResolve, params.Name, domain.ErrUnknownContract, nil)
		}
		return nil, fmt.Errorf("failed to load %s: %w", params.Name, err)
	}

	result = &ResolveAddressResult{
		Name:            record.Name,
		TransactionHash: record.TransactionHash,
	}

	if record.IsResolved() {
		result.Address = record.ContractAddress
		result.Outcome = ResolveOutcomeCached
		return result, nil
	}

	if _, err := unlockSigner(ctx, uc.ledger, uc.cfg.Signer); err != nil {
		return nil, domain.NewRegistryError(OpResolve, params.Name, domain.ErrUnlockFailed, err)
	}

	receipt, err := uc.ledger.GetReceipt(ctx, record.TransactionHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt for %s (tx %s): %w", params.Name, record.TransactionHash, err)
	}
	if receipt == nil {
		uc.log.Debug("deployment not yet confirmed", "name", params.Name, "tx", record.TransactionHash)
		result.Outcome = ResolveOutcomeNotYetConfirmed
		return result, nil
	}

	if !receipt.Succeeded() {
		return nil, domain.NewRegistryError(OpResolve, params.Name, domain.ErrDeploymentFailed,
			fmt.Errorf("transaction %s reverted in block %d", record.TransactionHash, receipt.BlockNumber))
	}
	if receipt.ContractAddress == "" {
		return nil, domain.NewRegistryError(OpResolve, params.Name, domain.ErrDeploymentFailed,
			fmt.Errorf("receipt for %s carries no contract address", record.TransactionHash))
	}

	if err := record.MarkResolved(receipt.ContractAddress); err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", params.Name, err)
	}
	if err := uc.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record address of %s: %w", params.Name, err)
	}

	uc.log.Info("contract address resolved", "name", params.Name, "address", record.ContractAddress)
	result.Address = record.ContractAddress
	result.Outcome = ResolveOutcomeResolved
	return result, nil
}
