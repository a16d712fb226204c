package models

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/creg/internal/domain"
)

// ContractState is the lifecycle stage of a named contract. It is derived
// from which record fields are populated and is never persisted.
type ContractState string

const (
	StateAbsent    ContractState = "ABSENT"
	StateSubmitted ContractState = "SUBMITTED"
	StateResolved  ContractState = "RESOLVED"
)

// ContractRecord is the persisted entry for one named deployment
type ContractRecord struct {
	Name            string `json:"name" yaml:"name"`
	ABI             string `json:"abi" yaml:"abi"`
	Bytecode        string `json:"bytecode" yaml:"bytecode"`
	TransactionHash string `json:"transactionHash" yaml:"transactionHash"`
	ContractAddress string `json:"contractAddress" yaml:"contractAddress"`
}

// NewContractRecord creates a record for a contract that has not been submitted yet
func NewContractRecord(name, abi, bytecode string) *ContractRecord {
	return &ContractRecord{
		Name:     name,
		ABI:      abi,
		Bytecode: bytecode,
	}
}

// State derives the lifecycle stage from the populated fields
func (r *ContractRecord) State() ContractState {
	switch {
	case r == nil:
		return StateAbsent
	case r.ContractAddress != "":
		return StateResolved
	case r.TransactionHash != "":
		return StateSubmitted
	default:
		return StateAbsent
	}
}

func (r *ContractRecord) IsResolved() bool {
	return r.State() == StateResolved
}

// MarkSubmitted records the deployment transaction hash. The hash can only be set once.
func (r *ContractRecord) MarkSubmitted(txHash string) error {
	if txHash == "" {
		return fmt.Errorf("%w: empty transaction hash", domain.ErrInvalidRecord)
	}
	if r.TransactionHash != "" && r.TransactionHash != txHash {
		return fmt.Errorf("%w: %s already submitted as %s", domain.ErrInvalidTransition, r.Name, r.TransactionHash)
	}
	r.TransactionHash = txHash
	return nil
}

// MarkResolved records the confirmed contract address. Setting the same
// address again is a no-op; changing it is rejected.
func (r *ContractRecord) MarkResolved(address string) error {
	if address == "" {
		return fmt.Errorf("%w: empty contract address", domain.ErrInvalidRecord)
	}
	if r.TransactionHash == "" {
		return fmt.Errorf("%w: %s has no transaction hash", domain.ErrInvalidTransition, r.Name)
	}
	if r.ContractAddress != "" {
		if strings.EqualFold(r.ContractAddress, address) {
			return nil
		}
		return fmt.Errorf("%w: %s already resolved to %s", domain.ErrInvalidTransition, r.Name, r.ContractAddress)
	}
	r.ContractAddress = address
	return nil
}

// Validate checks the fields every persisted record must carry
func (r *ContractRecord) Validate() error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil record", domain.ErrInvalidRecord)
	case r.Name == "":
		return fmt.Errorf("%w: empty name", domain.ErrInvalidRecord)
	case r.ABI == "":
		return fmt.Errorf("%w: %s has empty abi", domain.ErrInvalidRecord, r.Name)
	case r.Bytecode == "":
		return fmt.Errorf("%w: %s has empty bytecode", domain.ErrInvalidRecord, r.Name)
	case r.ContractAddress != "" && r.TransactionHash == "":
		return fmt.Errorf("%w: %s has an address but no transaction hash", domain.ErrInvalidRecord, r.Name)
	}
	return nil
}

func (r *ContractRecord) Clone() *ContractRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
