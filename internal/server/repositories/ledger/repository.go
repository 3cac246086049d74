// Package ledger persists per-account token balances. Debits are conditional
// updates so a balance can never be driven below zero, even under concurrent
// requests.
package ledger

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	// GetBalance returns the balance row for a client. A client without a
	// row is reported as a zero balance, not as an error.
	GetBalance(ctx context.Context, clientID string) (*models.TokenBalance, error)

	// EnsureRow creates the zero balance row if it does not exist yet.
	EnsureRow(ctx context.Context, clientID string) error

	// ApplyDelta atomically adds deltaAvailable to available and deltaUsed
	// to used, refusing the whole change when it would make available
	// negative. In that case it returns common.ErrInsufficientTokens and
	// the row is untouched.
	ApplyDelta(ctx context.Context, clientID string, deltaAvailable, deltaUsed int64) error
}
