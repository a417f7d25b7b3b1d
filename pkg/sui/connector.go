// Package sui talks to the external wallet connector: connection status,
// the connected address, and balance queries against a Sui fullnode.
// Nothing in this repository signs or broadcasts transactions.
package sui

import "context"

// MistPerSui converts the chain's smallest unit (MIST) to display SUI.
const MistPerSui = 1_000_000_000

// Connector supplies wallet connection state and balance queries.
// The wallet core treats it as a black box.
type Connector interface {
	// Connected reports whether a wallet is attached.
	Connected() bool

	// Address returns the connected wallet address, empty when disconnected.
	Address() string

	// Balance returns the total SUI balance for the connected address,
	// summed across coins and scaled from MIST.
	Balance(ctx context.Context) (float64, error)
}
