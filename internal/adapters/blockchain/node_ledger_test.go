package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

const (
	answerABI  = `[{"inputs":[],"name":"answer","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`
	answerCode = "0x600a600c600039600a6000f3602a60005260206000f3"
	tokenABI   = `[{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"},{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}],"stateMutability":"nonpayable"},{"type":"function","name":"answer","inputs":[],"outputs":[{"name":"value","type":"uint256"}],"stateMutability":"view"}]`

	nodeAccount = "0x00000000000000000000000000000000000000d1"
	nodeSecret  = "hunter2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePersonal serves the personal_ namespace
type fakePersonal struct {
	mu        sync.Mutex
	durations []uint64
}

func (p *fakePersonal) UnlockAccount(addr common.Address, password string, duration uint64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.durations = append(p.durations, duration)
	return addr == common.HexToAddress(nodeAccount) && password == nodeSecret, nil
}

// fakeEth serves the subset of the eth_ namespace the ledger uses
type fakeEth struct {
	mu       sync.Mutex
	sent     []sendTxArgs
	receipts map[common.Hash]*types.Receipt
	balance  *big.Int
	output   hexutil.Bytes
}

func (e *fakeEth) SendTransaction(args sendTxArgs) (common.Hash, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, args)
	return crypto.Keccak256Hash(args.Data), nil
}

func (e *fakeEth) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.receipts[hash], nil
}

func (e *fakeEth) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	return (*hexutil.Big)(e.balance), nil
}

func (e *fakeEth) Call(args map[string]any, block string) (hexutil.Bytes, error) {
	return e.output, nil
}

func (e *fakeEth) ChainId() (hexutil.Uint64, error) {
	return hexutil.Uint64(1337), nil
}

func (e *fakeEth) lastSent(t *testing.T) sendTxArgs {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(t, e.sent)
	return e.sent[len(e.sent)-1]
}

func newFakeNode(t *testing.T) (*NodeLedger, *fakeEth, *fakePersonal) {
	t.Helper()
	eth := &fakeEth{receipts: map[common.Hash]*types.Receipt{}, balance: big.NewInt(0)}
	personal := &fakePersonal{}

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", eth))
	require.NoError(t, server.RegisterName("personal", personal))
	t.Cleanup(server.Stop)

	ledger := NewNodeLedger(rpc.DialInProc(server), discardLogger())
	t.Cleanup(ledger.Close)
	return ledger, eth, personal
}

func TestNodeLedgerUnlock(t *testing.T) {
	ctx := context.Background()
	ledger, _, personal := newFakeNode(t)

	t.Run("grants a session for the requested duration", func(t *testing.T) {
		before := time.Now()
		session, err := ledger.UnlockAccount(ctx, nodeAccount, nodeSecret, time.Minute)
		require.NoError(t, err)

		assert.Equal(t, common.HexToAddress(nodeAccount).Hex(), session.Account)
		assert.False(t, session.UnlockedAt.Before(before))
		assert.Equal(t, time.Minute, session.ExpiresAt.Sub(session.UnlockedAt))
		assert.Equal(t, uint64(60), personal.durations[len(personal.durations)-1])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := ledger.UnlockAccount(ctx, nodeAccount, "wrong", time.Minute)
		assert.ErrorIs(t, err, domain.ErrUnlockRejected)
	})

	t.Run("invalid account", func(t *testing.T) {
		_, err := ledger.UnlockAccount(ctx, "deployer", nodeSecret, time.Minute)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}

func TestNodeLedgerDeploy(t *testing.T) {
	ctx := context.Background()
	ledger, eth, _ := newFakeNode(t)
	session, err := ledger.UnlockAccount(ctx, nodeAccount, nodeSecret, time.Minute)
	require.NoError(t, err)

	t.Run("sends creation data from the session account", func(t *testing.T) {
		hash, err := ledger.DeployContract(ctx, session, models.DeployRequest{
			ABI:      answerABI,
			Bytecode: answerCode,
			GasLimit: 300000,
		})
		require.NoError(t, err)

		sent := eth.lastSent(t)
		assert.Equal(t, common.HexToAddress(nodeAccount), sent.From)
		assert.Nil(t, sent.To)
		require.NotNil(t, sent.Gas)
		assert.Equal(t, uint64(300000), uint64(*sent.Gas))
		assert.Equal(t, hexutil.MustDecode(answerCode), []byte(sent.Data))
		assert.Equal(t, crypto.Keccak256Hash(sent.Data).Hex(), hash)
	})

	t.Run("constructor arguments follow the init code", func(t *testing.T) {
		_, err := ledger.DeployContract(ctx, session, models.DeployRequest{
			ABI:             tokenABI,
			Bytecode:        answerCode,
			GasLimit:        300000,
			ConstructorArgs: []string{"1000"},
		})
		require.NoError(t, err)

		code := hexutil.MustDecode(answerCode)
		sent := eth.lastSent(t)
		require.Len(t, sent.Data, len(code)+32)
		assert.Equal(t, int64(1000), new(big.Int).SetBytes(sent.Data[len(code):]).Int64())
	})

	t.Run("expired session", func(t *testing.T) {
		expired := models.NewSession(nodeAccount, time.Now().Add(-2*time.Minute), time.Minute)
		_, err := ledger.DeployContract(ctx, expired, models.DeployRequest{ABI: answerABI, Bytecode: answerCode})
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("bad bytecode", func(t *testing.T) {
		_, err := ledger.DeployContract(ctx, session, models.DeployRequest{ABI: answerABI, Bytecode: "0xzz"})
		assert.ErrorContains(t, err, "invalid bytecode")
	})
}

func TestNodeLedgerReceipts(t *testing.T) {
	ctx := context.Background()
	ledger, eth, _ := newFakeNode(t)

	pending := common.HexToHash("0x01")
	mined := common.HexToHash("0x02")
	reverted := common.HexToHash("0x03")
	contract := common.HexToAddress("0x00000000000000000000000000000000000000c1")

	eth.receipts[mined] = &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		TxHash:          mined,
		ContractAddress: contract,
		BlockNumber:     big.NewInt(7),
		Logs:            []*types.Log{},
	}
	eth.receipts[reverted] = &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		TxHash:      reverted,
		BlockNumber: big.NewInt(8),
		Logs:        []*types.Log{},
	}

	t.Run("pending", func(t *testing.T) {
		receipt, err := ledger.GetReceipt(ctx, pending.Hex())
		require.NoError(t, err)
		assert.Nil(t, receipt)
	})

	t.Run("mined", func(t *testing.T) {
		receipt, err := ledger.GetReceipt(ctx, mined.Hex())
		require.NoError(t, err)
		require.NotNil(t, receipt)
		assert.True(t, receipt.Succeeded())
		assert.Equal(t, contract.Hex(), receipt.ContractAddress)
		assert.Equal(t, uint64(7), receipt.BlockNumber)
	})

	t.Run("reverted has no address", func(t *testing.T) {
		receipt, err := ledger.GetReceipt(ctx, reverted.Hex())
		require.NoError(t, err)
		require.NotNil(t, receipt)
		assert.False(t, receipt.Succeeded())
		assert.Empty(t, receipt.ContractAddress)
	})

	t.Run("malformed hash", func(t *testing.T) {
		_, err := ledger.GetReceipt(ctx, "0x1234")
		assert.ErrorContains(t, err, "invalid transaction hash")
		assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	})
}

func TestNodeLedgerBalance(t *testing.T) {
	ctx := context.Background()
	ledger, eth, _ := newFakeNode(t)
	eth.balance = new(big.Int).Mul(big.NewInt(3), big.NewInt(1e18))

	balance, err := ledger.GetBalance(ctx, nodeAccount)
	require.NoError(t, err)
	assert.Equal(t, eth.balance, balance)

	_, err = ledger.GetBalance(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestNodeLedgerBoundContract(t *testing.T) {
	ctx := context.Background()
	ledger, eth, _ := newFakeNode(t)
	eth.output = common.LeftPadBytes(big.NewInt(42).Bytes(), 32)

	session, err := ledger.UnlockAccount(ctx, nodeAccount, nodeSecret, time.Minute)
	require.NoError(t, err)
	contract := "0x00000000000000000000000000000000000000c1"

	handle, err := ledger.BindContract(ctx, session, tokenABI, contract)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(contract).Hex(), handle.Address())
	assert.Equal(t, []string{"answer", "transfer"}, handle.Functions())

	t.Run("call decodes outputs", func(t *testing.T) {
		fn, err := handle.GetFunction("answer")
		require.NoError(t, err)
		assert.True(t, fn.ReadOnly())

		out, err := fn.Call(ctx, "")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "value", out[0].Name)
		assert.Equal(t, "uint256", out[0].Type)
		assert.Equal(t, big.NewInt(42), out[0].Value)
	})

	t.Run("send submits encoded calldata", func(t *testing.T) {
		fn, err := handle.GetFunction("transfer(address,uint256)")
		require.NoError(t, err)
		assert.False(t, fn.ReadOnly())
		assert.Equal(t, "transfer", fn.Name())

		hash, err := fn.Send(ctx, "", "0x00000000000000000000000000000000000000aa", "100")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)

		sent := eth.lastSent(t)
		require.NotNil(t, sent.To)
		assert.Equal(t, common.HexToAddress(contract), *sent.To)
		assert.Equal(t, common.HexToAddress(nodeAccount), sent.From)
		assert.Len(t, sent.Data, 4+64)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := handle.GetFunction("mint")
		assert.ErrorIs(t, err, domain.ErrUnknownFunction)
	})

	t.Run("binding needs a live session", func(t *testing.T) {
		expired := models.NewSession(nodeAccount, time.Now().Add(-time.Hour), time.Minute)
		_, err := ledger.BindContract(ctx, expired, tokenABI, contract)
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("bad address", func(t *testing.T) {
		_, err := ledger.BindContract(ctx, session, tokenABI, "")
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}
