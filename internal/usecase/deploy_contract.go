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

// recordWriteTimeout bounds the final store write, which runs detached from
// caller cancellation once the transaction has been submitted
const recordWriteTimeout = 30 * time.Second

// DeployContractParams contains parameters for deploying a named contract
type DeployContractParams struct {
	Name            string
	ABI             string
	Bytecode        string
	GasLimit        uint64
	ConstructorArgs []string
}

// DeployContractResult contains the record written for the submitted deployment
type DeployContractResult struct {
	Record *models.ContractRecord `json:"record" yaml:"record"`
}

// DeployContract is the use case for submitting a new named deployment
type DeployContract struct {
	cfg     *config.RuntimeConfig
	store   RecordStore
	ledger  LedgerClient
	metrics MetricsRecorder
	log     *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	store RecordStore,
	ledger LedgerClient,
	metrics MetricsRecorder,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:     cfg,
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		log:     log.With("component", "DeployContract"),
	}
}

// Run submits the deployment and records its transaction hash.
// A record is written only after the ledger accepted the transaction.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (result *DeployContractResult, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation(OpDeploy, outcomeOf(err), time.Since(start)) }()

	record := models.NewContractRecord(params.Name, params.ABI, params.Bytecode)
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if params.GasLimit == 0 {
		return nil, fmt.Errorf("%w: gas limit must be positive", domain.ErrInvalidRecord)
	}

	exists, err := uc.store.Exists(ctx, params.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check registry for %s: %w", params.Name, err)
	}
	if exists {
		return nil, domain.NewRegistryError(OpDeploy, params.Name, domain.ErrAlreadyExists, nil)
	}

	session, err := unlockSigner(ctx, uc.ledger, uc.cfg.Signer)
	if err != nil {
		return nil, domain.NewRegistryError(OpDeploy, params.Name, domain.ErrUnlockFailed, err)
	}

	txHash, err := uc.ledger.DeployContract(ctx, session, models.DeployRequest{
		ABI:             params.ABI,
		Bytecode:        params.Bytecode,
		From:            session.Account,
		GasLimit:        params.GasLimit,
		ConstructorArgs: params.ConstructorArgs,
	})
	if err != nil {
		return nil, domain.NewRegistryError(OpDeploy, params.Name, domain.ErrDeploymentFailed, err)
	}
	if err := record.MarkSubmitted(txHash); err != nil {
		return nil, domain.NewRegistryError(OpDeploy, params.Name, domain.ErrDeploymentFailed, err)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordWriteTimeout)
	defer cancel()

	if err := uc.store.Insert(writeCtx, record); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			uc.log.Warn("contract was registered concurrently, submitted transaction is not tracked",
				"name", params.Name, "tx", txHash)
			return nil, domain.NewRegistryError(OpDeploy, params.Name, domain.ErrAlreadyExists, err)
		}
		return nil, fmt.Errorf("failed to record deployment of %s (tx %s): %w", params.Name, txHash, err)
	}

	uc.log.Info("contract deployment submitted", "name", params.Name, "tx", txHash)
	return &DeployContractResult{Record: record}, nil
}
