package sui

import (
	"context"
	"sync"
)

// Fake is an in-memory Connector for tests and the demo.
type Fake struct {
	mu        sync.RWMutex
	connected bool
	address   string
	balance   float64
	err       error
}

// NewFake creates a connected fake with the given address and balance.
func NewFake(address string, balance float64) *Fake {
	return &Fake{
		connected: address != "",
		address:   address,
		balance:   balance,
	}
}

// Connected reports the simulated connection state.
func (f *Fake) Connected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.connected
}

// Address returns the simulated wallet address.
func (f *Fake) Address() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.address
}

// Balance returns the simulated balance or the configured error.
func (f *Fake) Balance(ctx context.Context) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.balance, nil
}

// SetConnected flips the simulated connection state.
func (f *Fake) SetConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = connected
}

// SetBalance changes the simulated balance.
func (f *Fake) SetBalance(balance float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance = balance
}

// FailWith makes subsequent Balance calls return err.
func (f *Fake) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}
