package metrics

import (
	"time"
)

// Collector defines the interface for collecting wallet metrics.
// Implementations can export metrics to various backends (Prometheus, StatsD, etc.).
type Collector interface {
	// Ledger operations
	RecordCredit(amount float64)
	RecordDebit(amount, fee float64)
	RecordDebitRejected()

	// Water store operations
	RecordPurchase(packageID string)
	RecordRedeem(outcome RedeemOutcome)

	// Rate provider
	RecordRateRefresh(success bool, duration time.Duration)
	RecordCircuitState(state CircuitState)
}

// RedeemOutcome classifies the result of a redeem attempt.
type RedeemOutcome int

const (
	// RedeemOK means the item transitioned from active to redeemed.
	RedeemOK RedeemOutcome = iota
	// RedeemNotFound means no item matched the id or code.
	RedeemNotFound
	// RedeemAlreadyRedeemed means the item was redeemed before.
	RedeemAlreadyRedeemed
	// RedeemExpired means the item was past its expiry at redeem time.
	RedeemExpired
)

// String returns the string representation of the redeem outcome.
func (o RedeemOutcome) String() string {
	switch o {
	case RedeemOK:
		return "ok"
	case RedeemNotFound:
		return "not_found"
	case RedeemAlreadyRedeemed:
		return "already_redeemed"
	case RedeemExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// CircuitState represents the state of the rate fetcher's circuit breaker.
type CircuitState int

const (
	// CircuitClosed means the circuit breaker is allowing requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit breaker is blocking requests.
	CircuitOpen
	// CircuitHalfOpen means the circuit breaker is testing if the endpoint has recovered.
	CircuitHalfOpen
)

// String returns the string representation of the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector is a no-op implementation of Collector.
// It's used as the default collector when metrics are not needed.
type NoOpCollector struct{}

// RecordCredit does nothing.
func (NoOpCollector) RecordCredit(amount float64) {}

// RecordDebit does nothing.
func (NoOpCollector) RecordDebit(amount, fee float64) {}

// RecordDebitRejected does nothing.
func (NoOpCollector) RecordDebitRejected() {}

// RecordPurchase does nothing.
func (NoOpCollector) RecordPurchase(packageID string) {}

// RecordRedeem does nothing.
func (NoOpCollector) RecordRedeem(outcome RedeemOutcome) {}

// RecordRateRefresh does nothing.
func (NoOpCollector) RecordRateRefresh(success bool, duration time.Duration) {}

// RecordCircuitState does nothing.
func (NoOpCollector) RecordCircuitState(state CircuitState) {}
