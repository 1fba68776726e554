package account

import "errors"

var (
	// ErrInvalidInput indicates a malformed request; never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientFunds occurs when applying a debit would drop the
	// account balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateTransaction indicates the provided idempotency key was
	// already committed and therefore the operation should be treated as
	// an idempotent no-op.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrStorageUnavailable wraps infrastructure faults from the store. The
	// whole attempt is safe to retry: commits are all-or-nothing, so no
	// partial effect can have occurred.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
