// Package common defines shared constants and sentinel errors used across
// the correction core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrOracleUnavailable means the external correction call failed or
	// returned unusable output. No ledger state is mutated before this
	// point, so there is nothing to roll back.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrInsufficientTokens means a balance check failed ahead of a
	// destructive action. The pending action stays cancellable.
	ErrInsufficientTokens = errors.New("insufficient tokens")

	// ErrLockedOut means a free-tier quota violation is in effect.
	ErrLockedOut = errors.New("locked out")

	// ErrDuplicate marks idempotent no-op submissions (existing blacklist
	// word, repeated upgrade request, taken username). Informational, not
	// a failure.
	ErrDuplicate = errors.New("duplicate submission")

	// ErrInvariantViolation means a ledger debit would drive the available
	// balance negative. It blocks the triggering action entirely.
	ErrInvariantViolation = errors.New("ledger invariant violation")

	// ErrInstructionLike marks input rejected by the instruction guard
	// before any oracle call or debit.
	ErrInstructionLike = errors.New("input looks like an instruction")
)
