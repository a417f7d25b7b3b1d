// Package memory provides an in-memory metrics collector for tests and
// inspection.
package memory

import (
	"sync"
	"time"

	"sui-pocket/pkg/metrics"
)

// MemoryCollector implements Collector with plain counters.
type MemoryCollector struct {
	mu sync.RWMutex

	// Ledger
	credits        int64
	debits         int64
	debitsRejected int64
	creditVolume   float64
	debitVolume    float64
	feeVolume      float64

	// Water store
	purchases        map[string]int64
	redeemsByOutcome map[string]int64

	// Rate provider
	refreshSuccesses int64
	refreshFailures  int64
	refreshLatencies []time.Duration
	circuitState     metrics.CircuitState
}

// NewMemoryCollector creates a new in-memory metrics collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		purchases:        make(map[string]int64),
		redeemsByOutcome: make(map[string]int64),
	}
}

// RecordCredit records a ledger credit.
func (mc *MemoryCollector) RecordCredit(amount float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.credits++
	mc.creditVolume += amount
}

// RecordDebit records a successful ledger debit.
func (mc *MemoryCollector) RecordDebit(amount, fee float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.debits++
	mc.debitVolume += amount
	mc.feeVolume += fee
}

// RecordDebitRejected records a debit rejected for insufficient balance.
func (mc *MemoryCollector) RecordDebitRejected() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.debitsRejected++
}

// RecordPurchase records a water package purchase.
func (mc *MemoryCollector) RecordPurchase(packageID string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.purchases[packageID]++
}

// RecordRedeem records the outcome of a redeem attempt.
func (mc *MemoryCollector) RecordRedeem(outcome metrics.RedeemOutcome) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.redeemsByOutcome[outcome.String()]++
}

// RecordRateRefresh records an exchange-rate refresh attempt.
func (mc *MemoryCollector) RecordRateRefresh(success bool, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if success {
		mc.refreshSuccesses++
	} else {
		mc.refreshFailures++
	}
	mc.refreshLatencies = append(mc.refreshLatencies, duration)
}

// RecordCircuitState records the rate fetcher circuit breaker state.
func (mc *MemoryCollector) RecordCircuitState(state metrics.CircuitState) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.circuitState = state
}

// Snapshot is a copy of the collector's counters at one point in time.
type Snapshot struct {
	Credits        int64
	Debits         int64
	DebitsRejected int64
	CreditVolume   float64
	DebitVolume    float64
	FeeVolume      float64

	Purchases        map[string]int64
	RedeemsByOutcome map[string]int64

	RefreshSuccesses int64
	RefreshFailures  int64
	RefreshLatencies []time.Duration
	CircuitState     metrics.CircuitState
}

// Snapshot returns a copy of the current counters for assertions.
func (mc *MemoryCollector) Snapshot() Snapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snap := Snapshot{
		Credits:          mc.credits,
		Debits:           mc.debits,
		DebitsRejected:   mc.debitsRejected,
		CreditVolume:     mc.creditVolume,
		DebitVolume:      mc.debitVolume,
		FeeVolume:        mc.feeVolume,
		Purchases:        make(map[string]int64, len(mc.purchases)),
		RedeemsByOutcome: make(map[string]int64, len(mc.redeemsByOutcome)),
		RefreshSuccesses: mc.refreshSuccesses,
		RefreshFailures:  mc.refreshFailures,
		RefreshLatencies: append([]time.Duration(nil), mc.refreshLatencies...),
		CircuitState:     mc.circuitState,
	}
	for k, v := range mc.purchases {
		snap.Purchases[k] = v
	}
	for k, v := range mc.redeemsByOutcome {
		snap.RedeemsByOutcome[k] = v
	}
	return snap
}
