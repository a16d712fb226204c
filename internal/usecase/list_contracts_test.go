package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

func registryFixture() *memoryStore {
	vault := submittedRecord()
	vault.Name = "vault"
	tokenV2 := resolvedRecord()
	tokenV2.Name = "token-v2"
	return newMemoryStore(resolvedRecord(), vault, tokenV2)
}

func TestListContracts(t *testing.T) {
	ctx := context.Background()

	t.Run("all records sorted by name", func(t *testing.T) {
		uc := usecase.NewListContracts(registryFixture(), usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.ListContractsParams{})
		require.NoError(t, err)

		names := make([]string, len(result.Records))
		for i, r := range result.Records {
			names[i] = r.Name
		}
		assert.Equal(t, []string{"token", "token-v2", "vault"}, names)
		assert.Equal(t, usecase.ContractSummary{Total: 3, Submitted: 1, Resolved: 2}, result.Summary)
	})

	t.Run("filter by state", func(t *testing.T) {
		uc := usecase.NewListContracts(registryFixture(), usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.ListContractsParams{State: models.StateSubmitted})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		assert.Equal(t, "vault", result.Records[0].Name)
		assert.Equal(t, 1, result.Summary.Total)
	})

	t.Run("filter by prefix", func(t *testing.T) {
		uc := usecase.NewListContracts(registryFixture(), usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.ListContractsParams{Prefix: "token"})
		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
	})

	t.Run("empty registry", func(t *testing.T) {
		uc := usecase.NewListContracts(newMemoryStore(), usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.ListContractsParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Equal(t, 0, result.Summary.Total)
	})
}

func TestShowContract(t *testing.T) {
	ctx := context.Background()

	t.Run("by name", func(t *testing.T) {
		uc := usecase.NewShowContract(testConfig(), registryFixture(), &MockContractSelector{}, usecase.NopMetrics{})
		record, err := uc.Run(ctx, usecase.ShowContractParams{Name: "vault"})
		require.NoError(t, err)
		assert.Equal(t, models.StateSubmitted, record.State())
	})

	t.Run("unknown name", func(t *testing.T) {
		uc := usecase.NewShowContract(testConfig(), registryFixture(), &MockContractSelector{}, usecase.NopMetrics{})
		_, err := uc.Run(ctx, usecase.ShowContractParams{Name: "vaults"})
		assert.ErrorIs(t, err, domain.ErrUnknownContract)
	})

	t.Run("interactive selection", func(t *testing.T) {
		selector := &MockContractSelector{}
		selector.On("SelectContract", mock.Anything, mock.MatchedBy(func(records []*models.ContractRecord) bool {
			return len(records) == 3 && records[0].Name == "token"
		}), "Select a contract").Return(resolvedRecord(), nil)

		uc := usecase.NewShowContract(testConfig(), registryFixture(), selector, usecase.NopMetrics{})
		record, err := uc.Run(ctx, usecase.ShowContractParams{})
		require.NoError(t, err)
		assert.Equal(t, "token", record.Name)
		selector.AssertExpectations(t)
	})

	t.Run("selection cancelled", func(t *testing.T) {
		selector := &MockContractSelector{}
		selector.On("SelectContract", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("^C"))

		uc := usecase.NewShowContract(testConfig(), registryFixture(), selector, usecase.NopMetrics{})
		_, err := uc.Run(ctx, usecase.ShowContractParams{})
		assert.Error(t, err)
	})

	t.Run("single record needs no prompt", func(t *testing.T) {
		selector := &MockContractSelector{}
		uc := usecase.NewShowContract(testConfig(), newMemoryStore(resolvedRecord()), selector, usecase.NopMetrics{})
		record, err := uc.Run(ctx, usecase.ShowContractParams{})
		require.NoError(t, err)
		assert.Equal(t, "token", record.Name)
		assert.Empty(t, selector.Calls)
	})

	t.Run("non-interactive requires a name", func(t *testing.T) {
		cfg := testConfig()
		cfg.NonInteractive = true
		uc := usecase.NewShowContract(cfg, registryFixture(), &MockContractSelector{}, usecase.NopMetrics{})
		_, err := uc.Run(ctx, usecase.ShowContractParams{})
		assert.ErrorContains(t, err, "non-interactive")
	})
}
