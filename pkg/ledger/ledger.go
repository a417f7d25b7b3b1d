package ledger

import (
	"math"
	"sync"
	"time"

	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/metrics"

	"go.uber.org/zap"
)

// NetworkFee is the fixed fee in SUI charged on every debiting operation.
// Send, convert and water purchases all debit through this ledger so the fee
// is applied in exactly one place.
const NetworkFee = 0.001

// Ledger is an in-memory ordered collection of transactions plus a balance.
// The invariant it maintains is
//
//	balance == initial + Σ(credits) − Σ(debit amount + NetworkFee)
//
// and the balance can never go negative: a debit that would violate this is
// rejected before any mutation.
//
// All operations are safe for concurrent use. Debit performs its balance check
// and mutation under one lock, so check-then-act races cannot overdraw.
type Ledger struct {
	mu sync.RWMutex

	balance float64
	txs     []Transaction
	nextID  int64

	metrics metrics.Collector
	logger  *logging.Logger
	now     func() time.Time
}

// Config holds ledger configuration.
type Config struct {
	// InitialBalance seeds the balance, typically from a wallet balance query.
	InitialBalance float64

	// Metrics receives ledger operation counts. Defaults to a no-op collector.
	Metrics metrics.Collector

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// New creates a new ledger with the given configuration.
func New(config Config) *Ledger {
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.InitialBalance < 0 {
		config.InitialBalance = 0
	}

	return &Ledger{
		balance: config.InitialBalance,
		nextID:  1,
		metrics: config.Metrics,
		logger:  logging.Global().Named("ledger"),
		now:     config.Now,
	}
}

// Balance returns the current balance in SUI.
func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// SetBalance replaces the balance, typically after a fresh chain query on
// wallet attach. Negative values are clamped to zero. Recorded transactions
// are kept; the invariant is re-anchored at the new value.
func (l *Ledger) SetBalance(balance float64) {
	if balance < 0 || math.IsNaN(balance) {
		balance = 0
	}

	l.mu.Lock()
	l.balance = balance
	l.mu.Unlock()

	l.logger.Debug("balance set", zap.Float64("balance", balance))
}

// Credit appends a received transaction and increases the balance by amount.
// No fee is charged on credits.
func (l *Ledger) Credit(amount float64, description string) (Transaction, error) {
	if !validAmount(amount) {
		return Transaction{}, ErrInvalidAmount
	}

	l.mu.Lock()
	tx := l.append(DirectionReceived, amount, description)
	l.balance += amount
	l.mu.Unlock()

	l.metrics.RecordCredit(amount)
	l.logger.Info("credit",
		zap.Int64("tx_id", tx.ID),
		zap.Float64("amount", amount),
		zap.String("description", description),
	)
	return tx, nil
}

// Debit appends a sent transaction and decreases the balance by
// amount + NetworkFee. It fails with ErrInsufficientBalance when
// amount + NetworkFee exceeds the balance; nothing is recorded in that case.
func (l *Ledger) Debit(amount float64, description string) (Transaction, error) {
	if !validAmount(amount) {
		return Transaction{}, ErrInvalidAmount
	}

	l.mu.Lock()
	if amount+NetworkFee > l.balance {
		balance := l.balance
		l.mu.Unlock()

		l.metrics.RecordDebitRejected()
		l.logger.Warn("debit rejected",
			zap.Float64("amount", amount),
			zap.Float64("fee", NetworkFee),
			zap.Float64("balance", balance),
		)
		return Transaction{}, ErrInsufficientBalance
	}

	tx := l.append(DirectionSent, amount, description)
	l.balance -= amount + NetworkFee
	l.mu.Unlock()

	l.metrics.RecordDebit(amount, NetworkFee)
	l.logger.Info("debit",
		zap.Int64("tx_id", tx.ID),
		zap.Float64("amount", amount),
		zap.Float64("fee", NetworkFee),
		zap.String("description", description),
	)
	return tx, nil
}

// Transactions returns a snapshot of transactions matching the filter,
// newest first. The returned slice is a copy; mutating it does not affect
// the ledger.
func (l *Ledger) Transactions(filter Filter) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Transaction, 0, len(l.txs))
	for i := len(l.txs) - 1; i >= 0; i-- {
		tx := l.txs[i]
		switch filter {
		case FilterSent:
			if tx.Direction != DirectionSent {
				continue
			}
		case FilterReceived:
			if tx.Direction != DirectionReceived {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// append records a transaction. Caller must hold l.mu.
func (l *Ledger) append(direction Direction, amount float64, description string) Transaction {
	tx := Transaction{
		ID:          l.nextID,
		Direction:   direction,
		Amount:      amount,
		Display:     formatDisplay(direction, amount),
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   l.now(),
	}
	l.nextID++
	l.txs = append(l.txs, tx)
	return tx
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}
