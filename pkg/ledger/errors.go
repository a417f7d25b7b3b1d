package ledger

import "errors"

// Common ledger operation errors.
var (
	// ErrInsufficientBalance is returned when a debit plus the network fee
	// exceeds the current balance. The debit is rejected, never clamped.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrInvalidAmount is returned when an operation amount is not a positive
	// finite number.
	ErrInvalidAmount = errors.New("ledger: invalid amount")
)

// IsInsufficientBalance checks if the given error indicates an overdraft rejection.
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}
