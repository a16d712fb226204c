package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// chainBackend is the subset of ethclient used by the ledgers.
// Both *ethclient.Client and the simulated backend client satisfy it.
type chainBackend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// chainReader implements the read-only half of the ledger
type chainReader struct {
	backend chainBackend
}

// GetReceipt returns nil while the transaction is not yet included
func (c *chainReader) GetReceipt(ctx context.Context, txHash string) (*models.Receipt, error) {
	hash, err := parseHash(txHash)
	if err != nil {
		return nil, err
	}

	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	result := &models.Receipt{
		TransactionHash: receipt.TxHash.Hex(),
		Status:          receipt.Status,
	}
	if receipt.ContractAddress != (common.Address{}) {
		result.ContractAddress = receipt.ContractAddress.Hex()
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

// GetBalance returns the latest balance of address in wei
func (c *chainReader) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	balance, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// resolveChainID returns the node's chain id, checking it against expected when set
func resolveChainID(ctx context.Context, backend chainBackend, expected uint64) (*big.Int, error) {
	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if expected != 0 && networkChainID.Uint64() != expected {
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", expected, networkChainID.Uint64())
	}
	return networkChainID, nil
}

func parseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}

func parseHash(txHash string) (common.Hash, error) {
	b, err := hexDecode(txHash)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: invalid transaction hash %q", domain.ErrInvalidRecord, txHash)
	}
	return common.BytesToHash(b), nil
}
