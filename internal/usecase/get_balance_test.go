package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/creg/internal/usecase"
)

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)

	t.Run("converts to major units", func(t *testing.T) {
		ledger := &MockLedgerClient{}
		ledger.On("GetBalance", mock.Anything, "0x00000000000000000000000000000000000000aa").Return(oneEther, nil)

		uc := usecase.NewGetBalance(testConfig(), ledger, usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.GetBalanceParams{Address: "0x00000000000000000000000000000000000000aa"})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Wei.Cmp(oneEther))
		assert.Equal(t, "1/1", result.Ether().String())
		assert.Equal(t, "1.0", usecase.FormatEther(result.Wei))
	})

	t.Run("defaults to the signer account", func(t *testing.T) {
		ledger := &MockLedgerClient{}
		ledger.On("GetBalance", mock.Anything, deployer).Return(big.NewInt(0), nil)

		uc := usecase.NewGetBalance(testConfig(), ledger, usecase.NopMetrics{})
		result, err := uc.Run(ctx, usecase.GetBalanceParams{})

		require.NoError(t, err)
		assert.Equal(t, deployer, result.Address)
	})

	t.Run("ledger error", func(t *testing.T) {
		ledger := &MockLedgerClient{}
		ledger.On("GetBalance", mock.Anything, deployer).Return(nil, errors.New("timeout"))
		metrics := &recordingMetrics{}

		uc := usecase.NewGetBalance(testConfig(), ledger, metrics)
		_, err := uc.Run(ctx, usecase.GetBalanceParams{})

		assert.ErrorContains(t, err, "timeout")
		assert.Equal(t, []string{"balance:error"}, metrics.outcomes())
	})
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"0", "0.0"},
		{"1", "0.000000000000000001"},
		{"1000000000000000000", "1.0"},
		{"1500000000000000000", "1.5"},
		{"123456789000000000000", "123.456789"},
	}
	for _, tt := range tests {
		t.Run(tt.wei, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tt.wei, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, usecase.FormatEther(wei))
		})
	}
}
