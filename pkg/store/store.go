package store

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sui-pocket/pkg/ledger"
	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/metrics"
)

// ItemStatus is the lifecycle status of a purchased item.
type ItemStatus string

const (
	StatusActive   ItemStatus = "active"
	StatusRedeemed ItemStatus = "redeemed"
	StatusExpired  ItemStatus = "expired"
)

// ExpiryWindow is how long a purchased package stays redeemable.
const ExpiryWindow = 30 * 24 * time.Hour

// redeemCodeLen is the length of generated redeem codes.
const redeemCodeLen = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PurchasedItem is a water package bought through the store.
//
// Status is partly derived: "expired" is never stored, it is computed from
// the expiry date at read time so no background scheduler is needed.
type PurchasedItem struct {
	ID          string     `json:"id"`
	PackageID   string     `json:"package_id"`
	PackageName string     `json:"package_name"`
	Size        string     `json:"size"`
	PurchasedAt time.Time  `json:"purchased_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RedeemCode  string     `json:"redeem_code"`
	Status      ItemStatus `json:"status"`
}

// StatusAt returns the item's effective status at the given time.
func (i PurchasedItem) StatusAt(now time.Time) ItemStatus {
	if i.Status == StatusRedeemed {
		return StatusRedeemed
	}
	if now.After(i.ExpiresAt) {
		return StatusExpired
	}
	return StatusActive
}

// Store holds purchased water packages. Purchases debit the wallet ledger
// first; an item is only created when the debit succeeds.
//
// A bloom filter of issued redeem codes fronts code lookups so unknown codes
// are rejected without scanning.
type Store struct {
	mu    sync.RWMutex
	items []PurchasedItem
	codes *bloom.BloomFilter

	ledger  *ledger.Ledger
	metrics metrics.Collector
	logger  *logging.Logger
	now     func() time.Time
}

// Config holds store configuration.
type Config struct {
	// Ledger is debited on every purchase. Required.
	Ledger *ledger.Ledger

	// Metrics receives purchase/redeem counts. Defaults to a no-op collector.
	Metrics metrics.Collector

	// ExpectedItems sizes the redeem-code bloom filter. Defaults to 10000.
	ExpectedItems uint

	// FalsePositiveRate for the bloom filter. Defaults to 0.01.
	FalsePositiveRate float64

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// New creates a new purchase store backed by the given ledger.
func New(config Config) (*Store, error) {
	if config.Ledger == nil {
		return nil, fmt.Errorf("store: ledger is required")
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}
	if config.ExpectedItems == 0 {
		config.ExpectedItems = 10000
	}
	if config.FalsePositiveRate <= 0 || config.FalsePositiveRate >= 1 {
		config.FalsePositiveRate = 0.01
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Store{
		codes:   bloom.NewWithEstimates(config.ExpectedItems, config.FalsePositiveRate),
		ledger:  config.Ledger,
		metrics: config.Metrics,
		logger:  logging.Global().Named("store"),
		now:     config.Now,
	}, nil
}

// Purchase debits the ledger for the package price plus the network fee and,
// only on success, records a new active item with a fresh redeem code and a
// 30-day expiry. ErrInsufficientBalance from the ledger propagates unchanged.
func (s *Store) Purchase(packageID string) (PurchasedItem, error) {
	pkg, ok := PackageByID(packageID)
	if !ok {
		return PurchasedItem{}, ErrPackageNotFound
	}

	description := fmt.Sprintf("Purchased %s (%s)", pkg.Name, pkg.Size)
	if _, err := s.ledger.Debit(pkg.Price, description); err != nil {
		return PurchasedItem{}, err
	}

	now := s.now()
	item := PurchasedItem{
		ID:          uuid.New().String(),
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		Size:        pkg.Size,
		PurchasedAt: now,
		ExpiresAt:   now.Add(ExpiryWindow),
		RedeemCode:  generateRedeemCode(),
		Status:      StatusActive,
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.codes.Add([]byte(item.RedeemCode))
	s.mu.Unlock()

	s.metrics.RecordPurchase(pkg.ID)
	s.logger.Info("package purchased",
		zap.String("item_id", item.ID),
		zap.String("package", pkg.ID),
		zap.Float64("price", pkg.Price),
	)
	return item, nil
}

// Redeem transitions the item from active to redeemed. Redeeming an
// already-redeemed item fails with ErrAlreadyRedeemed, an expired one with
// ErrItemExpired; the ledger is untouched either way.
func (s *Store) Redeem(itemID string) (PurchasedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := range s.items {
		if s.items[idx].ID != itemID {
			continue
		}
		return s.redeemLocked(idx)
	}

	s.metrics.RecordRedeem(metrics.RedeemNotFound)
	return PurchasedItem{}, ErrItemNotFound
}

// RedeemByCode redeems the item carrying the given redeem code, the lookup a
// scanned QR resolves to. The bloom filter rejects never-issued codes cheaply;
// a filter false positive falls through to a scan miss.
func (s *Store) RedeemByCode(code string) (PurchasedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.codes.Test([]byte(code)) {
		s.metrics.RecordRedeem(metrics.RedeemNotFound)
		return PurchasedItem{}, ErrItemNotFound
	}

	for idx := range s.items {
		if s.items[idx].RedeemCode != code {
			continue
		}
		return s.redeemLocked(idx)
	}

	s.metrics.RecordRedeem(metrics.RedeemNotFound)
	return PurchasedItem{}, ErrItemNotFound
}

// redeemLocked applies the active→redeemed transition. Caller must hold s.mu.
func (s *Store) redeemLocked(idx int) (PurchasedItem, error) {
	item := s.items[idx]
	switch item.StatusAt(s.now()) {
	case StatusRedeemed:
		s.metrics.RecordRedeem(metrics.RedeemAlreadyRedeemed)
		return PurchasedItem{}, ErrAlreadyRedeemed
	case StatusExpired:
		s.metrics.RecordRedeem(metrics.RedeemExpired)
		return PurchasedItem{}, ErrItemExpired
	}

	s.items[idx].Status = StatusRedeemed
	item = s.items[idx]

	s.metrics.RecordRedeem(metrics.RedeemOK)
	s.logger.Info("package redeemed",
		zap.String("item_id", item.ID),
		zap.String("package", item.PackageID),
	)
	return item, nil
}

// List returns all purchased items newest first, with the derived status
// materialized at the current time.
func (s *Store) List() []PurchasedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]PurchasedItem, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		item.Status = item.StatusAt(now)
		out = append(out, item)
	}
	return out
}

// ListActive returns the items that are still redeemable, newest first.
func (s *Store) ListActive() []PurchasedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var out []PurchasedItem
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		if item.StatusAt(now) != StatusActive {
			continue
		}
		item.Status = StatusActive
		out = append(out, item)
	}
	return out
}

// ActiveCount returns the number of redeemable items, used to badge the
// "My Water" navigation entry.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for _, item := range s.items {
		if item.StatusAt(now) == StatusActive {
			count++
		}
	}
	return count
}

// Clear drops all purchased items, as happens on wallet disconnect.
// The bloom filter keeps its entries; stale codes then miss on scan.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// generateRedeemCode returns 8 random uppercase alphanumeric characters.
// Uniqueness across the process lifetime is not guaranteed; collisions are
// acceptable low-probability noise.
func generateRedeemCode() string {
	buf := make([]byte, redeemCodeLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail; if it somehow
		// does, a zeroed buffer still maps into the alphabet below.
		logging.Global().Named("store").Warn("redeem code entropy unavailable", zap.Error(err))
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
