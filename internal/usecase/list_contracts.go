package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// ListContractsParams contains parameters for listing records
type ListContractsParams struct {
	// State filters by derived state when set
	State models.ContractState
	// Prefix filters by name prefix when set
	Prefix string
}

// ContractSummary provides summary statistics
type ContractSummary struct {
	Total     int `json:"total" yaml:"total"`
	Submitted int `json:"submitted" yaml:"submitted"`
	Resolved  int `json:"resolved" yaml:"resolved"`
}

// ContractListResult contains the matching records sorted by name
type ContractListResult struct {
	Records []*models.ContractRecord `json:"records" yaml:"records"`
	Summary ContractSummary          `json:"summary" yaml:"summary"`
}

// ListContracts is the use case for listing registered contracts
type ListContracts struct {
	store   RecordStore
	metrics MetricsRecorder
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(store RecordStore, metrics MetricsRecorder) *ListContracts {
	return &ListContracts{
		store:   store,
		metrics: metrics,
	}
}

// Run executes the list contracts use case
func (uc *ListContracts) Run(ctx context.Context, params ListContractsParams) (result *ContractListResult, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation(OpList, outcomeOf(err), time.Since(start)) }()

	records, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	records = lo.Filter(records, func(r *models.ContractRecord, _ int) bool {
		if params.State != "" && r.State() != params.State {
			return false
		}
		return strings.HasPrefix(r.Name, params.Prefix)
	})

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	counts := lo.CountValuesBy(records, func(r *models.ContractRecord) models.ContractState {
		return r.State()
	})

	return &ContractListResult{
		Records: records,
		Summary: ContractSummary{
			Total:     len(records),
			Submitted: counts[models.StateSubmitted],
			Resolved:  counts[models.StateResolved],
		},
	}, nil
}
