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

func TestResolveAddressLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(submittedRecord())
	ledger := &MockLedgerClient{}
	metrics := &recordingMetrics{}
	ledger.expectUnlock()

	uc := usecase.NewResolveAddress(testConfig(), store, ledger, metrics, testLogger())

	// not mined yet
	ledger.On("GetReceipt", mock.Anything, tokenTx).Return(nil, nil).Once()
	result, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})
	require.NoError(t, err)
	assert.Equal(t, usecase.ResolveOutcomeNotYetConfirmed, result.Outcome)
	assert.False(t, result.Confirmed())
	assert.Empty(t, result.Address)
	assert.Equal(t, models.StateSubmitted, store.record("token").State())
	assert.Equal(t, 0, store.writeCount())

	// mined
	ledger.On("GetReceipt", mock.Anything, tokenTx).Return(&models.Receipt{
		TransactionHash: tokenTx,
		ContractAddress: tokenAddr,
		BlockNumber:     7,
		Status:          models.ReceiptStatusSuccessful,
	}, nil).Once()
	result, err = uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})
	require.NoError(t, err)
	assert.Equal(t, usecase.ResolveOutcomeResolved, result.Outcome)
	assert.Equal(t, tokenAddr, result.Address)
	assert.Equal(t, tokenAddr, store.record("token").ContractAddress)
	assert.Equal(t, 1, store.writeCount())

	// already resolved, no ledger traffic
	result, err = uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})
	require.NoError(t, err)
	assert.Equal(t, usecase.ResolveOutcomeCached, result.Outcome)
	assert.Equal(t, tokenAddr, result.Address)
	assert.Equal(t, 1, store.writeCount())

	ledger.AssertNumberOfCalls(t, "GetReceipt", 2)
	ledger.AssertNumberOfCalls(t, "UnlockAccount", 2)
	assert.Equal(t, []string{
		"resolve:not_yet_confirmed",
		"resolve:resolved",
		"resolve:cached",
	}, metrics.outcomes())
}

func TestResolveAddressIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(resolvedRecord())
	ledger := &MockLedgerClient{}

	uc := usecase.NewResolveAddress(testConfig(), store, ledger, usecase.NopMetrics{}, testLogger())
	for i := 0; i < 3; i++ {
		result, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})
		require.NoError(t, err)
		assert.Equal(t, tokenAddr, result.Address)
	}

	assert.Empty(t, ledger.Calls)
	assert.Equal(t, 0, store.writeCount())
}

func TestResolveAddressErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown contract", func(t *testing.T) {
		ledger := &MockLedgerClient{}
		uc := usecase.NewResolveAddress(testConfig(), newMemoryStore(), ledger, usecase.NopMetrics{}, testLogger())

		_, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnknownContract)
		assert.Empty(t, ledger.Calls)
	})

	t.Run("unlock failure leaves the record untouched", func(t *testing.T) {
		store := newMemoryStore(submittedRecord())
		ledger := &MockLedgerClient{}
		ledger.On("UnlockAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrUnlockRejected)

		uc := usecase.NewResolveAddress(testConfig(), store, ledger, usecase.NopMetrics{}, testLogger())
		_, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})

		assert.ErrorIs(t, err, domain.ErrUnlockFailed)
		assert.Equal(t, models.StateSubmitted, store.record("token").State())
		ledger.AssertNotCalled(t, "GetReceipt", mock.Anything, mock.Anything)
	})

	t.Run("reverted deployment", func(t *testing.T) {
		store := newMemoryStore(submittedRecord())
		ledger := &MockLedgerClient{}
		ledger.expectUnlock()
		ledger.On("GetReceipt", mock.Anything, tokenTx).Return(&models.Receipt{
			TransactionHash: tokenTx,
			ContractAddress: tokenAddr,
			Status:          models.ReceiptStatusFailed,
		}, nil)

		uc := usecase.NewResolveAddress(testConfig(), store, ledger, usecase.NopMetrics{}, testLogger())
		_, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})

		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.Empty(t, store.record("token").ContractAddress)
	})

	t.Run("receipt lookup failure is retryable", func(t *testing.T) {
		store := newMemoryStore(submittedRecord())
		ledger := &MockLedgerClient{}
		ledger.expectUnlock()
		ledger.On("GetReceipt", mock.Anything, tokenTx).Return(nil, errors.New("connection refused"))

		uc := usecase.NewResolveAddress(testConfig(), store, ledger, usecase.NopMetrics{}, testLogger())
		_, err := uc.Run(ctx, usecase.ResolveAddressParams{Name: "token"})

		require.Error(t, err)
		assert.Nil(t, domain.KindOf(err))
		assert.True(t, domain.IsRetryable(err))
		assert.Equal(t, 0, store.writeCount())
	})
}
