package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trebuchet-org/creg/internal/domain"
)

const (
	defaultWaitTimeout     = 2 * time.Minute
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 10 * time.Second
)

// WaitForAddressParams contains parameters for polling until a contract resolves
type WaitForAddressParams struct {
	Name            string
	Timeout         time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// WaitForAddress repeatedly resolves a contract until its address is known.
// It is a caller of ResolveAddress, which itself never retries.
type WaitForAddress struct {
	resolver *ResolveAddress
	progress ProgressSink
	log      *slog.Logger
}

// NewWaitForAddress creates a new WaitForAddress use case
func NewWaitForAddress(resolver *ResolveAddress, progress ProgressSink, log *slog.Logger) *WaitForAddress {
	return &WaitForAddress{
		resolver: resolver,
		progress: progress,
		log:      log.With("component", "WaitForAddress"),
	}
}

// Run polls with exponential backoff. Unknown contracts, unlock failures and
// failed deployments stop the loop immediately; running out of time yields
// ErrNotYetConfirmed.
func (uc *WaitForAddress) Run(ctx context.Context, params WaitForAddressParams) (*ResolveAddressResult, error) {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	if params.InitialInterval > 0 {
		b.InitialInterval = params.InitialInterval
	}
	b.MaxInterval = defaultMaxInterval
	if params.MaxInterval > 0 {
		b.MaxInterval = params.MaxInterval
	}
	b.MaxElapsedTime = 0
	b.Reset()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		result  *ResolveAddressResult
		lastErr error
		attempt int
	)

	operation := func() error {
		attempt++
		uc.progress.OnProgress(waitCtx, ProgressEvent{
			Stage:   "waiting",
			Current: attempt,
			Message: fmt.Sprintf("Waiting for %s to be confirmed (attempt %d)", params.Name, attempt),
			Spinner: true,
		})

		res, err := uc.resolver.Run(waitCtx, ResolveAddressParams{Name: params.Name})
		if err != nil {
			lastErr = err
			if !domain.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		if !res.Confirmed() {
			lastErr = domain.ErrNotYetConfirmed
			return domain.ErrNotYetConfirmed
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		if !errors.Is(err, domain.ErrNotYetConfirmed) {
			uc.log.Warn("resolve attempt failed, retrying", "name", params.Name, "error", err, "next", next)
		}
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(b, waitCtx), notify)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "done", Current: attempt})

	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if waitCtx.Err() != nil {
		if lastErr == nil {
			lastErr = waitCtx.Err()
		}
		return nil, domain.NewRegistryError(OpWait, params.Name, domain.ErrNotYetConfirmed,
			fmt.Errorf("gave up after %d attempts in %s: %w", attempt, timeout, lastErr))
	}
	return nil, err
}
