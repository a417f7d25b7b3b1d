package ledger

import (
	"fmt"
	"strconv"
	"time"
)

// Direction indicates whether a transaction moved funds out of or into the wallet.
type Direction string

const (
	// DirectionSent is a balance-decreasing transaction.
	DirectionSent Direction = "sent"
	// DirectionReceived is a balance-increasing transaction.
	DirectionReceived Direction = "received"
)

// Status is the lifecycle status of a transaction.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Filter selects which transactions a listing returns.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterSent     Filter = "sent"
	FilterReceived Filter = "received"
)

// ParseFilter converts a wire name into a Filter. The empty string means all.
func ParseFilter(name string) (Filter, error) {
	switch name {
	case "", string(FilterAll):
		return FilterAll, nil
	case string(FilterSent):
		return FilterSent, nil
	case string(FilterReceived):
		return FilterReceived, nil
	default:
		return FilterAll, fmt.Errorf("ledger: unknown filter %q", name)
	}
}

// Transaction is a single ledger entry. Immutable once created except for
// Status and the display time derived from CreatedAt.
type Transaction struct {
	// ID is a unique monotonic token; insertion order is the true order of record.
	ID int64 `json:"id"`

	Direction Direction `json:"direction"`

	// Amount is the positive transferred amount, fee excluded.
	Amount float64 `json:"amount"`

	// Display is the signed display amount, e.g. "-0.005 SUI".
	Display string `json:"display"`

	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimeAgo renders the transaction age relative to now ("Just now", "5m ago", ...).
func (t Transaction) TimeAgo(now time.Time) string {
	diff := now.Sub(t.CreatedAt)

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}

// formatDisplay renders the signed display amount for a transaction.
func formatDisplay(direction Direction, amount float64) string {
	sign := "+"
	if direction == DirectionSent {
		sign = "-"
	}
	return sign + strconv.FormatFloat(amount, 'f', -1, 64) + " SUI"
}
