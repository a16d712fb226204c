package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

const (
	deployer  = "0x00000000000000000000000000000000000000d1"
	tokenABI  = `[{"inputs":[],"name":"totalSupply","outputs":[{"type":"uint256"}],"stateMutability":"view","type":"function"}]`
	tokenCode = "0x6080604052"
	tokenTx   = "0x1111111111111111111111111111111111111111111111111111111111111111"
	tokenAddr = "0xABC0000000000000000000000000000000000001"
)

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Signer: config.Signer{
			Mode:           config.SignerModeNode,
			Account:        deployer,
			Password:       "secret",
			UnlockDuration: 60 * time.Second,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession() *models.Session {
	return models.NewSession(deployer, time.Now(), 60*time.Second)
}

func submittedRecord() *models.ContractRecord {
	return &models.ContractRecord{
		Name:            "token",
		ABI:             tokenABI,
		Bytecode:        tokenCode,
		TransactionHash: tokenTx,
	}
}

func resolvedRecord() *models.ContractRecord {
	r := submittedRecord()
	r.ContractAddress = tokenAddr
	return r
}

// memoryStore is an in-memory RecordStore that counts writes
type memoryStore struct {
	mu           sync.Mutex
	records      map[string]*models.ContractRecord
	writes       int
	beforeInsert func()
}

func newMemoryStore(records ...*models.ContractRecord) *memoryStore {
	s := &memoryStore{records: make(map[string]*models.ContractRecord)}
	for _, r := range records {
		s.records[r.Name] = r.Clone()
	}
	return s
}

func (s *memoryStore) Get(ctx context.Context, name string) (*models.ContractRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *memoryStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[name]
	return ok, nil
}

func (s *memoryStore) Insert(ctx context.Context, record *models.ContractRecord) error {
	if s.beforeInsert != nil {
		s.beforeInsert()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Name]; ok {
		return domain.ErrAlreadyExists
	}
	s.records[record.Name] = record.Clone()
	s.writes++
	return nil
}

func (s *memoryStore) Put(ctx context.Context, record *models.ContractRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Name] = record.Clone()
	s.writes++
	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]*models.ContractRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ContractRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *memoryStore) record(name string) *models.ContractRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[name].Clone()
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// MockLedgerClient is a mock implementation of LedgerClient
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) UnlockAccount(ctx context.Context, account, secret string, duration time.Duration) (*models.Session, error) {
	args := m.Called(ctx, account, secret, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockLedgerClient) DeployContract(ctx context.Context, session *models.Session, req models.DeployRequest) (string, error) {
	args := m.Called(ctx, session, req)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerClient) GetReceipt(ctx context.Context, txHash string) (*models.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockLedgerClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockLedgerClient) BindContract(ctx context.Context, session *models.Session, abi, address string) (usecase.ContractHandle, error) {
	args := m.Called(ctx, session, abi, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ContractHandle), args.Error(1)
}

func (m *MockLedgerClient) expectUnlock() *mock.Call {
	return m.On("UnlockAccount", mock.Anything, deployer, "secret", 60*time.Second).Return(testSession(), nil)
}

// MockContractHandle is a mock implementation of ContractHandle
type MockContractHandle struct {
	mock.Mock
}

func (m *MockContractHandle) Address() string {
	return m.Called().String(0)
}

func (m *MockContractHandle) GetFunction(name string) (usecase.ContractFunction, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.ContractFunction), args.Error(1)
}

func (m *MockContractHandle) Functions() []string {
	return m.Called().Get(0).([]string)
}

// stubFunction is a ContractFunction with canned responses
type stubFunction struct {
	name     string
	readOnly bool
	txHash   string
	outputs  []models.DecodedValue
	sent     [][]any
	called   [][]any
}

func (f *stubFunction) Name() string      { return f.name }
func (f *stubFunction) Signature() string { return f.name + "()" }
func (f *stubFunction) ReadOnly() bool    { return f.readOnly }

func (f *stubFunction) Send(ctx context.Context, from string, args ...any) (string, error) {
	f.sent = append(f.sent, args)
	return f.txHash, nil
}

func (f *stubFunction) Call(ctx context.Context, from string, args ...any) ([]models.DecodedValue, error) {
	f.called = append(f.called, args)
	return f.outputs, nil
}

// MockContractSelector is a mock implementation of ContractSelector
type MockContractSelector struct {
	mock.Mock
}

func (m *MockContractSelector) SelectContract(ctx context.Context, records []*models.ContractRecord, prompt string) (*models.ContractRecord, error) {
	args := m.Called(ctx, records, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractRecord), args.Error(1)
}

type observation struct {
	operation string
	outcome   string
}

// recordingMetrics captures observations in order
type recordingMetrics struct {
	mu           sync.Mutex
	observations []observation
}

func (m *recordingMetrics) ObserveOperation(operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, observation{operation, outcome})
}

func (m *recordingMetrics) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.observations))
	for i, o := range m.observations {
		out[i] = o.operation + ":" + o.outcome
	}
	return out
}

var (
	_ usecase.RecordStore      = (*memoryStore)(nil)
	_ usecase.LedgerClient     = (*MockLedgerClient)(nil)
	_ usecase.ContractHandle   = (*MockContractHandle)(nil)
	_ usecase.ContractFunction = (*stubFunction)(nil)
	_ usecase.MetricsRecorder  = (*recordingMetrics)(nil)
	_ usecase.ContractSelector = (*MockContractSelector)(nil)
)
