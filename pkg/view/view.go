// Package view implements the wallet's screen state machine: a closed set of
// views, the transition rules between them, and the guarded form submits that
// drive the ledger and water store.
package view

import (
	"errors"
	"fmt"
)

// View is a named screen of the single-page interface.
type View int

const (
	// ViewConnect is shown whenever no wallet is attached. Forced from any
	// other view on disconnect.
	ViewConnect View = iota
	ViewHome
	ViewSend
	ViewReceive
	ViewConvert
	ViewWater
	ViewRedeem
)

// String returns the view's wire name.
func (v View) String() string {
	switch v {
	case ViewConnect:
		return "connect"
	case ViewHome:
		return "home"
	case ViewSend:
		return "send"
	case ViewReceive:
		return "receive"
	case ViewConvert:
		return "convert"
	case ViewWater:
		return "water"
	case ViewRedeem:
		return "redeem"
	default:
		return "unknown"
	}
}

// Parse converts a wire name back into a View.
func Parse(name string) (View, error) {
	switch name {
	case "connect":
		return ViewConnect, nil
	case "home":
		return ViewHome, nil
	case "send":
		return ViewSend, nil
	case "receive":
		return ViewReceive, nil
	case "convert":
		return ViewConvert, nil
	case "water":
		return ViewWater, nil
	case "redeem":
		return ViewRedeem, nil
	default:
		return ViewConnect, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
}

// SendForm is the transient state of the send screen.
type SendForm struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Note      string `json:"note"`
}

// ConvertForm is the transient state of the convert-to-Naira screen.
type ConvertForm struct {
	SuiAmount     string `json:"sui_amount"`
	BankID        string `json:"bank_id"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// Common view controller errors.
var (
	// ErrNotConnected is returned for any navigation or submit while no
	// wallet is attached.
	ErrNotConnected = errors.New("view: wallet not connected")

	// ErrInvalidTransition is returned when a navigation is not allowed from
	// the current view.
	ErrInvalidTransition = errors.New("view: invalid transition")

	// ErrFormInvalid is returned when a submit guard is unmet. The submit is
	// a no-op; nothing is debited.
	ErrFormInvalid = errors.New("view: form invalid")

	// ErrUnknownView is returned when parsing an unknown view name.
	ErrUnknownView = errors.New("view: unknown view")
)
