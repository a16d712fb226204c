package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/creg/internal/domain/config"
)

var weiPerEther = big.NewInt(params.Ether)

// GetBalanceParams contains parameters for querying an account balance
type GetBalanceParams struct {
	// Address defaults to the signer account when empty
	Address string
}

// GetBalanceResult contains the raw balance and its major-unit conversion
type GetBalanceResult struct {
	Address string
	Wei     *big.Int
}

// Ether returns the balance divided by 10^18 without rounding
func (r *GetBalanceResult) Ether() *big.Rat {
	return new(big.Rat).SetFrac(r.Wei, weiPerEther)
}

// FormatEther renders the exact major-unit value with at least one decimal place
func FormatEther(wei *big.Int) string {
	s := new(big.Rat).SetFrac(wei, weiPerEther).FloatString(18)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// GetBalance is the use case for reading an account balance
type GetBalance struct {
	cfg     *config.RuntimeConfig
	ledger  LedgerClient
	metrics MetricsRecorder
}

// NewGetBalance creates a new GetBalance use case
func NewGetBalance(cfg *config.RuntimeConfig, ledger LedgerClient, metrics MetricsRecorder) *GetBalance {
	return &GetBalance{
		cfg:     cfg,
		ledger:  ledger,
		metrics: metrics,
	}
}

// Run reads the balance straight from the ledger
func (uc *GetBalance) Run(ctx context.Context, params GetBalanceParams) (result *GetBalanceResult, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation(OpBalance, outcomeOf(err), time.Since(start)) }()

	address := params.Address
	if address == "" {
		address = uc.cfg.Signer.Account
	}
	if address == "" {
		return nil, errors.New("no address given and no signer account configured")
	}

	wei, err := uc.ledger.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", address, err)
	}

	return &GetBalanceResult{Address: address, Wei: wei}, nil
}
