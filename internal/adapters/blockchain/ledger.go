package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewLedgerClient connects to the configured node and returns the ledger
// for the configured signer mode. The cleanup closes the RPC connection.
func NewLedgerClient(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (usecase.LedgerClient, func(), error) {
	client, err := rpc.DialContext(ctx, cfg.Network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC %s: %w", cfg.Network.RPCURL, err)
	}

	switch cfg.Signer.Mode {
	case config.SignerModeNode:
		return NewNodeLedger(client, log), client.Close, nil
	case config.SignerModeKeystore:
		ks := OpenKeystore(cfg.Signer.KeystoreDir)
		return NewKeystoreLedger(ethclient.NewClient(client), ks, cfg.Network.ChainID, log), client.Close, nil
	default:
		client.Close()
		return nil, nil, fmt.Errorf("unsupported signer mode %q", cfg.Signer.Mode)
	}
}
