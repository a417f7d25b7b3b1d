package store

import "errors"

// Common store operation errors.
var (
	// ErrPackageNotFound is returned when purchasing an unknown package id.
	ErrPackageNotFound = errors.New("store: package not found")

	// ErrItemNotFound is returned when no purchased item matches the id or code.
	ErrItemNotFound = errors.New("store: item not found")

	// ErrAlreadyRedeemed is returned when redeeming an item a second time.
	ErrAlreadyRedeemed = errors.New("store: item already redeemed")

	// ErrItemExpired is returned when redeeming an item past its expiry.
	ErrItemExpired = errors.New("store: item expired")
)

// IsNotFound checks if the given error indicates a missing package or item.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrPackageNotFound)
}

// IsInvalidState checks if the given error indicates a redeem attempt on an
// item that is not active.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrAlreadyRedeemed) || errors.Is(err, ErrItemExpired)
}
