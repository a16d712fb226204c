package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// KeystoreLedger signs locally with keys from an encrypted keystore
// directory and submits raw transactions to the node.
type KeystoreLedger struct {
	chainReader
	backend chainBackend
	ks      *keystore.KeyStore
	log     *slog.Logger

	expectedChainID uint64
	mu              sync.Mutex
	chainID         *big.Int
}

func NewKeystoreLedger(backend chainBackend, ks *keystore.KeyStore, chainID uint64, log *slog.Logger) *KeystoreLedger {
	return &KeystoreLedger{
		chainReader:     chainReader{backend: backend},
		backend:         backend,
		ks:              ks,
		log:             log.With("component", "KeystoreLedger"),
		expectedChainID: chainID,
	}
}

// OpenKeystore opens the keystore at dir with the standard scrypt parameters
func OpenKeystore(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// UnlockAccount decrypts the account key and keeps it in memory for duration
func (l *KeystoreLedger) UnlockAccount(ctx context.Context, account, secret string, duration time.Duration) (*models.Session, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return nil, err
	}

	acct, err := l.ks.Find(accounts.Account{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnlockRejected, err)
	}

	unlockedAt := time.Now()
	if err := l.ks.TimedUnlock(acct, secret, duration); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnlockRejected, err)
	}

	l.log.Debug("account unlocked", "account", addr.Hex(), "duration", duration)
	return models.NewSession(addr.Hex(), unlockedAt, duration), nil
}

// DeployContract signs and submits a contract creation transaction
func (l *KeystoreLedger) DeployContract(ctx context.Context, session *models.Session, req models.DeployRequest) (string, error) {
	parsed, code, values, err := creationData(req)
	if err != nil {
		return "", err
	}

	from := req.From
	if from == "" {
		from = session.Account
	}
	opts, err := l.transactOpts(ctx, session, from)
	if err != nil {
		return "", err
	}
	opts.GasLimit = req.GasLimit

	_, tx, _, err := bind.DeployContract(opts, parsed, code, l.backend, values...)
	if err != nil {
		return "", fmt.Errorf("failed to submit deployment: %w", err)
	}
	return tx.Hash().Hex(), nil
}

func (l *KeystoreLedger) BindContract(ctx context.Context, session *models.Session, abiJSON, address string) (usecase.ContractHandle, error) {
	return newBoundContract(abiJSON, address, l.backend, session, l)
}

func (l *KeystoreLedger) sendTransaction(ctx context.Context, session *models.Session, from, to common.Address, data []byte) (common.Hash, error) {
	opts, err := l.transactOpts(ctx, session, from.Hex())
	if err != nil {
		return common.Hash{}, err
	}
	contract := bind.NewBoundContract(to, abi.ABI{}, l.backend, l.backend, l.backend)
	tx, err := contract.RawTransact(opts, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return tx.Hash(), nil
}

func (l *KeystoreLedger) transactOpts(ctx context.Context, session *models.Session, from string) (*bind.TransactOpts, error) {
	if err := session.Check(time.Now()); err != nil {
		return nil, err
	}
	addr, err := parseAddress(from)
	if err != nil {
		return nil, err
	}
	chainID, err := l.networkChainID(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyStoreTransactorWithChainID(l.ks, accounts.Account{Address: addr}, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// networkChainID is needed for EIP-155 signing and asked of the node until it answers
func (l *KeystoreLedger) networkChainID(ctx context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.chainID != nil {
		return l.chainID, nil
	}
	chainID, err := resolveChainID(ctx, l.backend, l.expectedChainID)
	if err != nil {
		return nil, err
	}
	l.chainID = chainID
	return chainID, nil
}

var _ usecase.LedgerClient = (*KeystoreLedger)(nil)
