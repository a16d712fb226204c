package app

import (
	"log/slog"

	"github.com/trebuchet-org/creg/internal/adapters/metrics"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Log      *slog.Logger
	Metrics  *metrics.Recorder
	Progress usecase.ProgressSink

	// Use cases
	DeployContract *usecase.DeployContract
	ResolveAddress *usecase.ResolveAddress
	WaitForAddress *usecase.WaitForAddress
	GetContract    *usecase.GetContract
	InvokeContract *usecase.InvokeContract
	GetBalance     *usecase.GetBalance
	ListContracts  *usecase.ListContracts
	ShowContract   *usecase.ShowContract
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	recorder *metrics.Recorder,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	resolveAddress *usecase.ResolveAddress,
	waitForAddress *usecase.WaitForAddress,
	getContract *usecase.GetContract,
	invokeContract *usecase.InvokeContract,
	getBalance *usecase.GetBalance,
	listContracts *usecase.ListContracts,
	showContract *usecase.ShowContract,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Metrics:        recorder,
		Progress:       progress,
		DeployContract: deployContract,
		ResolveAddress: resolveAddress,
		WaitForAddress: waitForAddress,
		GetContract:    getContract,
		InvokeContract: invokeContract,
		GetBalance:     getBalance,
		ListContracts:  listContracts,
		ShowContract:   showContract,
	}, nil
}
