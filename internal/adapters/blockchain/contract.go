package blockchain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// txSender submits a signed call to an existing contract
type txSender interface {
	sendTransaction(ctx context.Context, session *models.Session, from, to common.Address, data []byte) (common.Hash, error)
}

// boundContract is a deployed contract bound to its parsed ABI
type boundContract struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	session *models.Session
	sender  txSender
}

func newBoundContract(abiJSON, address string, backend chainBackend, session *models.Session, sender txSender) (*boundContract, error) {
	if err := session.Check(time.Now()); err != nil {
		return nil, err
	}
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	parsed, err := parseABI(abiJSON)
	if err != nil {
		return nil, err
	}

	return &boundContract{
		address: addr,
		abi:     parsed,
		bound:   bind.NewBoundContract(addr, parsed, backend, backend, backend),
		session: session,
		sender:  sender,
	}, nil
}

func (c *boundContract) Address() string {
	return c.address.Hex()
}

// GetFunction looks a method up by name or by its full signature, e.g. "transfer(address,uint256)"
func (c *boundContract) GetFunction(name string) (usecase.ContractFunction, error) {
	if method, ok := c.abi.Methods[name]; ok {
		return &boundFunction{contract: c, method: method}, nil
	}
	for _, method := range c.abi.Methods {
		if method.Sig == name {
			return &boundFunction{contract: c, method: method}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, name)
}

func (c *boundContract) Functions() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type boundFunction struct {
	contract *boundContract
	method   abi.Method
}

func (f *boundFunction) Name() string {
	return f.method.Name
}

func (f *boundFunction) Signature() string {
	return f.method.Sig
}

func (f *boundFunction) ReadOnly() bool {
	return f.method.IsConstant()
}

func (f *boundFunction) Send(ctx context.Context, from string, args ...any) (string, error) {
	c := f.contract
	if err := c.session.Check(time.Now()); err != nil {
		return "", err
	}
	sender, err := f.caller(from)
	if err != nil {
		return "", err
	}
	values, err := coerceArgs(f.method.Inputs, args)
	if err != nil {
		return "", err
	}
	data, err := c.abi.Pack(f.method.Name, values...)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", f.method.Sig, err)
	}

	hash, err := c.sender.sendTransaction(ctx, c.session, sender, c.address, data)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}

func (f *boundFunction) Call(ctx context.Context, from string, args ...any) ([]models.DecodedValue, error) {
	c := f.contract
	caller, err := f.caller(from)
	if err != nil {
		return nil, err
	}
	values, err := coerceArgs(f.method.Inputs, args)
	if err != nil {
		return nil, err
	}

	var out []any
	opts := &bind.CallOpts{Context: ctx, From: caller}
	if err := c.bound.Call(opts, &out, f.method.Name, values...); err != nil {
		return nil, fmt.Errorf("call %s failed: %w", f.method.Sig, err)
	}

	decoded := make([]models.DecodedValue, 0, len(out))
	for i, value := range out {
		dv := models.DecodedValue{Value: value}
		if i < len(f.method.Outputs) {
			dv.Name = f.method.Outputs[i].Name
			dv.Type = f.method.Outputs[i].Type.String()
		}
		decoded = append(decoded, dv)
	}
	return decoded, nil
}

// caller defaults to the unlocked account
func (f *boundFunction) caller(from string) (common.Address, error) {
	if from == "" {
		from = f.contract.session.Account
	}
	return parseAddress(from)
}

func parseABI(abiJSON string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("invalid ABI: %w", err)
	}
	return parsed, nil
}

// creationData is the init code followed by the encoded constructor arguments
func creationData(req models.DeployRequest) (abi.ABI, []byte, []any, error) {
	parsed, err := parseABI(req.ABI)
	if err != nil {
		return abi.ABI{}, nil, nil, err
	}
	code, err := hexDecode(req.Bytecode)
	if err != nil {
		return abi.ABI{}, nil, nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	if len(code) == 0 {
		return abi.ABI{}, nil, nil, errors.New("invalid bytecode: empty")
	}

	args := make([]any, len(req.ConstructorArgs))
	for i, a := range req.ConstructorArgs {
		args[i] = a
	}
	values, err := coerceArgs(parsed.Constructor.Inputs, args)
	if err != nil {
		return abi.ABI{}, nil, nil, fmt.Errorf("constructor: %w", err)
	}
	return parsed, code, values, nil
}

func hexDecode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}
