package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/creg/internal/adapters/blockchain"
	"github.com/trebuchet-org/creg/internal/adapters/interactive"
	"github.com/trebuchet-org/creg/internal/adapters/metrics"
	"github.com/trebuchet-org/creg/internal/adapters/repository/records"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// StoreSet provides the configured record store backend
var StoreSet = wire.NewSet(
	records.NewRecordStore,
)

// BlockchainSet provides the ledger for the configured signer mode
var BlockchainSet = wire.NewSet(
	blockchain.NewLedgerClient,
)

// MetricsSet provides the prometheus operation recorder
var MetricsSet = wire.NewSet(
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StoreSet,
	BlockchainSet,
	MetricsSet,
	InteractiveSet,
)
