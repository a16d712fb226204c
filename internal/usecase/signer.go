package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

// Operation names used in errors and metrics
const (
	OpDeploy   = "deploy"
	OpResolve  = "resolve"
	OpContract = "contract"
	OpInvoke   = "invoke"
	OpBalance  = "balance"
	OpList     = "list"
	OpShow     = "show"
	OpWait     = "wait"
)

// unlockSigner performs a fresh unlock of the configured account.
// Sessions are never reused across operations.
func unlockSigner(ctx context.Context, ledger LedgerClient, signer config.Signer) (*models.Session, error) {
	if signer.Account == "" {
		return nil, errors.New("no signer account configured")
	}
	session, err := ledger.UnlockAccount(ctx, signer.Account, signer.Password, signer.UnlockDuration)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("ledger returned no session for %s", signer.Account)
	}
	return session, nil
}

// outcomeOf maps an operation error to a metrics label
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded) && domain.KindOf(err) == nil:
		return "timeout"
	}
	if kind := domain.KindOf(err); kind != nil {
		return strings.ReplaceAll(kind.Error(), " ", "_")
	}
	return "error"
}
