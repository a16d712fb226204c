package models

import (
	"fmt"
	"time"

	"github.com/trebuchet-org/creg/internal/domain"
)

// Session is the signing authority granted by a single account unlock.
// It is handed to the one ledger call that needs it and then dropped.
type Session struct {
	Account    string
	UnlockedAt time.Time
	ExpiresAt  time.Time
}

func NewSession(account string, unlockedAt time.Time, duration time.Duration) *Session {
	return &Session{
		Account:    account,
		UnlockedAt: unlockedAt,
		ExpiresAt:  unlockedAt.Add(duration),
	}
}

// Check returns ErrSessionExpired once now is past the expiry
func (s *Session) Check(now time.Time) error {
	if s == nil {
		return fmt.Errorf("%w: no session", domain.ErrSessionExpired)
	}
	if !now.Before(s.ExpiresAt) {
		return fmt.Errorf("%w: %s unlocked until %s", domain.ErrSessionExpired, s.Account, s.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
