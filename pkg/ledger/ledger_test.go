package ledger

import (
	"math"
	"sync"
	"testing"
	"time"

	memorycollector "sui-pocket/pkg/metrics/memory"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestLedger_CreditIncreasesBalance(t *testing.T) {
	l := New(Config{InitialBalance: 1.0})

	tx, err := l.Credit(0.5, "Test payment received")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	if !almostEqual(l.Balance(), 1.5) {
		t.Errorf("Expected balance 1.5, got %v", l.Balance())
	}
	if tx.Direction != DirectionReceived {
		t.Errorf("Expected direction received, got %v", tx.Direction)
	}
	if tx.Display != "+0.5 SUI" {
		t.Errorf("Expected display '+0.5 SUI', got %q", tx.Display)
	}
	if tx.Status != StatusCompleted {
		t.Errorf("Expected status completed, got %v", tx.Status)
	}
}

func TestLedger_DebitChargesFee(t *testing.T) {
	// Scenario from the contract: balance 0.01, send 0.005 is allowed
	// (0.005 + 0.001 <= 0.01) and leaves 0.004.
	l := New(Config{InitialBalance: 0.01})

	tx, err := l.Debit(0.005, "Sent to 0x1234...abcd")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}

	if !almostEqual(l.Balance(), 0.004) {
		t.Errorf("Expected balance 0.004, got %v", l.Balance())
	}
	if tx.Display != "-0.005 SUI" {
		t.Errorf("Expected display '-0.005 SUI', got %q", tx.Display)
	}
}

func TestLedger_DebitInsufficientBalance(t *testing.T) {
	// Scenario from the contract: balance 0.01, send 0.02 is rejected and
	// nothing changes.
	l := New(Config{InitialBalance: 0.01})

	_, err := l.Debit(0.02, "too much")
	if !IsInsufficientBalance(err) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	if !almostEqual(l.Balance(), 0.01) {
		t.Errorf("Balance changed on rejected debit: %v", l.Balance())
	}
	if l.Len() != 0 {
		t.Errorf("Rejected debit recorded a transaction")
	}
}

func TestLedger_DebitExactlyFundedIsAllowed(t *testing.T) {
	l := New(Config{InitialBalance: 0.006})

	_, err := l.Debit(0.005, "exact")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if l.Balance() < 0 {
		t.Errorf("Balance went negative: %v", l.Balance())
	}
}

func TestLedger_InvalidAmounts(t *testing.T) {
	l := New(Config{InitialBalance: 1})

	for _, amount := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
		if _, err := l.Credit(amount, "bad"); err == nil {
			t.Errorf("Credit(%v) succeeded, want error", amount)
		}
		if _, err := l.Debit(amount, "bad"); err == nil {
			t.Errorf("Debit(%v) succeeded, want error", amount)
		}
	}
	if l.Len() != 0 {
		t.Errorf("Invalid amounts recorded transactions")
	}
}

func TestLedger_BalanceInvariant(t *testing.T) {
	// For any sequence of credits/debits the balance must equal
	// initial + sum(credits) - sum(debit + fee), checked after every step.
	const initial = 10.0
	l := New(Config{InitialBalance: initial})

	steps := []struct {
		debit  bool
		amount float64
	}{
		{false, 1.5},
		{true, 0.25},
		{true, 3.0},
		{false, 0.001},
		{true, 7.0},
		{false, 2.75},
		{true, 0.0001},
	}

	expected := initial
	for i, step := range steps {
		if step.debit {
			_, err := l.Debit(step.amount, "debit")
			if err == nil {
				expected -= step.amount + NetworkFee
			} else if !IsInsufficientBalance(err) {
				t.Fatalf("step %d: unexpected error %v", i, err)
			}
		} else {
			if _, err := l.Credit(step.amount, "credit"); err != nil {
				t.Fatalf("step %d: credit failed: %v", i, err)
			}
			expected += step.amount
		}

		if !almostEqual(l.Balance(), expected) {
			t.Fatalf("step %d: balance %v, want %v", i, l.Balance(), expected)
		}
		if l.Balance() < 0 {
			t.Fatalf("step %d: balance went negative", i)
		}
	}
}

func TestLedger_TransactionsNewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}

	l := New(Config{InitialBalance: 10, Now: clock})
	l.Credit(1, "first")
	l.Debit(1, "second")
	l.Credit(2, "third")

	all := l.Transactions(FilterAll)
	if len(all) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(all))
	}
	if all[0].Description != "third" || all[2].Description != "first" {
		t.Errorf("Expected newest-first ordering, got %v, %v, %v",
			all[0].Description, all[1].Description, all[2].Description)
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID >= all[i-1].ID {
			t.Errorf("IDs not monotonic in newest-first order: %d then %d", all[i-1].ID, all[i].ID)
		}
	}

	sent := l.Transactions(FilterSent)
	if len(sent) != 1 || sent[0].Description != "second" {
		t.Errorf("Sent filter wrong: %v", sent)
	}
	received := l.Transactions(FilterReceived)
	if len(received) != 2 {
		t.Errorf("Expected 2 received transactions, got %d", len(received))
	}
}

func TestLedger_SetBalance(t *testing.T) {
	l := New(Config{})

	l.SetBalance(2.5)
	if !almostEqual(l.Balance(), 2.5) {
		t.Errorf("Expected balance 2.5, got %v", l.Balance())
	}

	l.SetBalance(-1)
	if l.Balance() != 0 {
		t.Errorf("Negative SetBalance not clamped: %v", l.Balance())
	}
}

func TestLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	// 100 goroutines racing to debit 0.1 from a 1.0 balance; only a few can
	// win and the balance must never go negative.
	l := New(Config{InitialBalance: 1.0})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Debit(0.1, "race")
		}()
	}
	wg.Wait()

	if l.Balance() < 0 {
		t.Fatalf("Balance went negative under concurrency: %v", l.Balance())
	}

	sent := l.Transactions(FilterSent)
	expected := 1.0 - float64(len(sent))*(0.1+NetworkFee)
	if !almostEqual(l.Balance(), expected) {
		t.Errorf("Balance %v inconsistent with %d recorded debits (want %v)",
			l.Balance(), len(sent), expected)
	}
}

func TestTransaction_TimeAgo(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tx := Transaction{CreatedAt: base}

	cases := []struct {
		now  time.Time
		want string
	}{
		{base.Add(30 * time.Second), "Just now"},
		{base.Add(5 * time.Minute), "5m ago"},
		{base.Add(3 * time.Hour), "3h ago"},
		{base.Add(49 * time.Hour), "2d ago"},
	}
	for _, c := range cases {
		if got := tx.TimeAgo(c.now); got != c.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", c.now, got, c.want)
		}
	}
}

func TestLedger_MetricsCounters(t *testing.T) {
	collector := memorycollector.NewMemoryCollector()
	l := New(Config{InitialBalance: 0.01, Metrics: collector})

	if _, err := l.Credit(0.5, "Received"); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if _, err := l.Debit(0.005, "Sent"); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if _, err := l.Debit(10, "Too big"); err == nil {
		t.Fatal("Expected rejected debit")
	}

	snap := collector.Snapshot()
	if snap.Credits != 1 || !almostEqual(snap.CreditVolume, 0.5) {
		t.Errorf("Unexpected credit counters: %+v", snap)
	}
	if snap.Debits != 1 || !almostEqual(snap.DebitVolume, 0.005) {
		t.Errorf("Unexpected debit counters: %+v", snap)
	}
	if !almostEqual(snap.FeeVolume, NetworkFee) {
		t.Errorf("Unexpected fee volume %v", snap.FeeVolume)
	}
	if snap.DebitsRejected != 1 {
		t.Errorf("Unexpected rejected count %d", snap.DebitsRejected)
	}
}
