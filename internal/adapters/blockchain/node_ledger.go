package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NodeLedger signs with accounts managed by the node itself, through the
// personal_unlockAccount and eth_sendTransaction RPC methods.
type NodeLedger struct {
	chainReader
	rpc *rpc.Client
	eth *ethclient.Client
	log *slog.Logger
}

// sendTxArgs is the eth_sendTransaction request object
type sendTxArgs struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to,omitempty"`
	Gas  *hexutil.Uint64 `json:"gas,omitempty"`
	Data hexutil.Bytes   `json:"data,omitempty"`
}

func NewNodeLedger(client *rpc.Client, log *slog.Logger) *NodeLedger {
	eth := ethclient.NewClient(client)
	return &NodeLedger{
		chainReader: chainReader{backend: eth},
		rpc:         client,
		eth:         eth,
		log:         log.With("component", "NodeLedger"),
	}
}

// DialNodeLedger connects to the node at rpcURL
func DialNodeLedger(ctx context.Context, rpcURL string, log *slog.Logger) (*NodeLedger, error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewNodeLedger(client, log), nil
}

// UnlockAccount asks the node to unlock account for duration
func (l *NodeLedger) UnlockAccount(ctx context.Context, account, secret string, duration time.Duration) (*models.Session, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return nil, err
	}

	unlockedAt := time.Now()
	var ok bool
	if err := l.rpc.CallContext(ctx, &ok, "personal_unlockAccount", addr, secret, uint64(duration/time.Second)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnlockRejected, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: node refused to unlock %s", domain.ErrUnlockRejected, addr.Hex())
	}

	l.log.Debug("account unlocked", "account", addr.Hex(), "duration", duration)
	return models.NewSession(addr.Hex(), unlockedAt, duration), nil
}

// DeployContract submits a contract creation signed by the node
func (l *NodeLedger) DeployContract(ctx context.Context, session *models.Session, req models.DeployRequest) (string, error) {
	if err := session.Check(time.Now()); err != nil {
		return "", err
	}
	parsed, code, values, err := creationData(req)
	if err != nil {
		return "", err
	}
	ctorArgs, err := parsed.Pack("", values...)
	if err != nil {
		return "", fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	from := req.From
	if from == "" {
		from = session.Account
	}
	fromAddr, err := parseAddress(from)
	if err != nil {
		return "", err
	}

	args := sendTxArgs{
		From: fromAddr,
		Data: append(code, ctorArgs...),
	}
	if req.GasLimit > 0 {
		gas := hexutil.Uint64(req.GasLimit)
		args.Gas = &gas
	}

	hash, err := l.send(ctx, args)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}

func (l *NodeLedger) BindContract(ctx context.Context, session *models.Session, abiJSON, address string) (usecase.ContractHandle, error) {
	return newBoundContract(abiJSON, address, l.eth, session, l)
}

func (l *NodeLedger) Close() {
	l.rpc.Close()
}

func (l *NodeLedger) sendTransaction(ctx context.Context, session *models.Session, from, to common.Address, data []byte) (common.Hash, error) {
	return l.send(ctx, sendTxArgs{From: from, To: &to, Data: data})
}

func (l *NodeLedger) send(ctx context.Context, args sendTxArgs) (common.Hash, error) {
	var hash common.Hash
	if err := l.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction failed: %w", err)
	}
	return hash, nil
}

var _ usecase.LedgerClient = (*NodeLedger)(nil)
