package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// ShowContractParams contains parameters for showing a record
type ShowContractParams struct {
	// Name selects the record; when empty the user is asked to pick one
	Name string
}

// ShowContract is the use case for showing one contract record
type ShowContract struct {
	cfg      *config.RuntimeConfig
	store    RecordStore
	selector ContractSelector
	metrics  MetricsRecorder
}

// NewShowContract creates a new ShowContract use case
func NewShowContract(cfg *config.RuntimeConfig, store RecordStore, selector ContractSelector, metrics MetricsRecorder) *ShowContract {
	return &ShowContract{
		cfg:      cfg,
		store:    store,
		selector: selector,
		metrics:  metrics,
	}
}

// Run executes the show contract use case
func (uc *ShowContract) Run(ctx context.Context, params ShowContractParams) (record *models.ContractRecord, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation(OpShow, outcomeOf(err), time.Since(start)) }()

	if params.Name == "" {
		return uc.pick(ctx)
	}

	record, err = uc.store.Get(ctx, params.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewRegistryError(OpShow, params.Name, domain.ErrUnknownContract, nil)
		}
		return nil, fmt.Errorf("failed to load %s: %w", params.Name, err)
	}
	return record, nil
}

func (uc *ShowContract) pick(ctx context.Context) (*models.ContractRecord, error) {
	if uc.cfg.NonInteractive {
		return nil, errors.New("a contract name is required in non-interactive mode")
	}

	records, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no contracts registered")
	}
	if len(records) == 1 {
		return records[0], nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return uc.selector.SelectContract(ctx, records, "Select a contract")
}
