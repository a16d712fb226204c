package domain

import (
	"errors"
	"fmt"
)

// Registry error kinds. Every error returned by a registry operation
// matches exactly one of these with errors.Is.
var (
	// ErrAlreadyExists is returned when a record with the same name is already present
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnknownContract is returned when no record exists for a name
	ErrUnknownContract = errors.New("unknown contract")

	// ErrUnlockFailed is returned when the configured account could not be unlocked
	ErrUnlockFailed = errors.New("unlock failed")

	// ErrDeploymentFailed is returned when the ledger rejected or reverted a deployment
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrNotYetConfirmed is returned when a deployment has no receipt yet.
	// ResolveAddress reports this as a result outcome; it only surfaces as an
	// error from callers that stop waiting.
	ErrNotYetConfirmed = errors.New("not yet confirmed")

	// ErrAddressNotResolved is returned when a contract is used before its address is known
	ErrAddressNotResolved = errors.New("address not resolved")
)

// Store and adapter errors.
var (
	// ErrNotFound is returned by record stores when a key doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidRecord is returned when record data fails validation
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidTransition is returned when a record would move backwards
	// or change an immutable field
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnlockRejected is returned by ledgers when the node or keystore refused the secret
	ErrUnlockRejected = errors.New("account unlock rejected")

	// ErrSessionExpired is returned when a signing session is used after its expiry
	ErrSessionExpired = errors.New("session expired")

	// ErrUnknownFunction is returned when a contract ABI has no such method
	ErrUnknownFunction = errors.New("unknown function")
)

var registryKinds = []error{
	ErrAlreadyExists,
	ErrUnknownContract,
	ErrUnlockFailed,
	ErrDeploymentFailed,
	ErrNotYetConfirmed,
	ErrAddressNotResolved,
}

// RegistryError carries the failing operation, the contract name and the
// error kind alongside the underlying cause.
type RegistryError struct {
	Op   string
	Name string
	Kind error
	Err  error
}

// NewRegistryError builds a RegistryError. cause may be nil.
func NewRegistryError(op, name string, kind, cause error) *RegistryError {
	return &RegistryError{Op: op, Name: name, Kind: kind, Err: cause}
}

func (e *RegistryError) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Kind)
	if e.Name == "" {
		msg = fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RegistryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the registry error kind err matches, or nil.
func KindOf(err error) error {
	for _, kind := range registryKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsRetryable reports whether retrying the same operation later can succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case ErrNotYetConfirmed:
		return true
	case nil:
		// transport errors from the ledger without a kind
		return !errors.Is(err, ErrInvalidRecord) && !errors.Is(err, ErrInvalidAddress)
	default:
		return false
	}
}
