//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/creg/internal/adapters"
	"github.com/trebuchet-org/creg/internal/config"
	"github.com/trebuchet-org/creg/internal/logging"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(ctx context.Context, v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewResolveAddress,
		usecase.NewWaitForAddress,
		usecase.NewGetContract,
		usecase.NewInvokeContract,
		usecase.NewGetBalance,
		usecase.NewListContracts,
		usecase.NewShowContract,

		// App
		NewApp,
	)
	return nil, nil, nil
}
