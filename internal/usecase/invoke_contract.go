package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// InvokeMode selects between a transaction and a read-only call
type InvokeMode string

const (
	// InvokeModeAuto calls view and pure methods and sends everything else
	InvokeModeAuto InvokeMode = "auto"
	InvokeModeSend InvokeMode = "send"
	InvokeModeCall InvokeMode = "call"
)

// InvokeContractParams contains parameters for invoking a contract method
type InvokeContractParams struct {
	Name   string
	Method string
	Args   []string
	Mode   InvokeMode
}

// InvokeContractResult contains the transaction hash or the decoded outputs
type InvokeContractResult struct {
	Name            string                `json:"name" yaml:"name"`
	Address         string                `json:"address" yaml:"address"`
	Method          string                `json:"method" yaml:"method"`
	Signature       string                `json:"signature" yaml:"signature"`
	Sent            bool                  `json:"sent" yaml:"sent"`
	TransactionHash string                `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	Outputs         []models.DecodedValue `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// InvokeContract is the use case for calling a method on a resolved contract
type InvokeContract struct {
	cfg         *config.RuntimeConfig
	getContract *GetContract
	log         *slog.Logger
}

// NewInvokeContract creates a new InvokeContract use case
func NewInvokeContract(cfg *config.RuntimeConfig, getContract *GetContract, log *slog.Logger) *InvokeContract {
	return &InvokeContract{
		cfg:         cfg,
		getContract: getContract,
		log:         log.With("component", "InvokeContract"),
	}
}

// Run binds the named contract and executes the method
func (uc *InvokeContract) Run(ctx context.Context, params InvokeContractParams) (*InvokeContractResult, error) {
	bound, err := uc.getContract.Run(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	fn, err := bound.Contract.GetFunction(params.Method)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Name, err)
	}

	args := make([]any, len(params.Args))
	for i, a := range params.Args {
		args[i] = a
	}

	result := &InvokeContractResult{
		Name:      params.Name,
		Address:   bound.Contract.Address(),
		Method:    fn.Name(),
		Signature: fn.Signature(),
	}

	mode := params.Mode
	if mode == "" {
		mode = InvokeModeAuto
	}

	switch {
	case mode == InvokeModeCall || (mode == InvokeModeAuto && fn.ReadOnly()):
		outputs, err := fn.Call(ctx, uc.cfg.Signer.Account, args...)
		if err != nil {
			return nil, fmt.Errorf("call %s.%s failed: %w", params.Name, fn.Name(), err)
		}
		result.Outputs = outputs
	case mode == InvokeModeSend || mode == InvokeModeAuto:
		txHash, err := fn.Send(ctx, uc.cfg.Signer.Account, args...)
		if err != nil {
			return nil, fmt.Errorf("send %s.%s failed: %w", params.Name, fn.Name(), err)
		}
		result.Sent = true
		result.TransactionHash = txHash
		uc.log.Info("transaction sent", "name", params.Name, "method", fn.Name(), "tx", txHash)
	default:
		return nil, fmt.Errorf("unsupported invoke mode %q", mode)
	}

	return result, nil
}
