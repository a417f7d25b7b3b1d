// Package clipboard copies wallet addresses and redeem codes to the system
// clipboard. Failures here are never fatal: the address is still on screen.
package clipboard

import (
	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"sui-pocket/pkg/logging"
)

// Copy writes text to the system clipboard.
func Copy(text string) error {
	return clipboard.WriteAll(text)
}

// CopyBestEffort writes text to the system clipboard and reports whether it
// succeeded. Failures are logged at warn level and otherwise swallowed.
func CopyBestEffort(text string) bool {
	if err := clipboard.WriteAll(text); err != nil {
		logging.Global().Named("clipboard").Warn("copy failed", zap.Error(err))
		return false
	}
	return true
}
