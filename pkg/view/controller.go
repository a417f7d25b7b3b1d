package view

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"sui-pocket/pkg/banks"
	"sui-pocket/pkg/ledger"
	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/store"
)

const maxAccountNumberLen = 10

// transitions maps each view to the views reachable from it by navigation.
// Submits and cancels move between views on their own and are not listed here.
var transitions = map[View][]View{
	ViewConnect: {},
	ViewHome:    {ViewSend, ViewReceive, ViewWater},
	ViewSend:    {ViewConvert, ViewHome},
	ViewConvert: {ViewSend},
	ViewReceive: {ViewHome},
	ViewWater:   {ViewRedeem, ViewHome},
	ViewRedeem:  {ViewWater, ViewHome},
}

// Config holds the controller's collaborators.
type Config struct {
	// Ledger backs the send and convert submits. Required.
	Ledger *ledger.Ledger

	// Store backs water purchases and redemptions. Required.
	Store *store.Store

	// Connected sets the initial attachment state.
	Connected bool

	// Logger defaults to the global logger.
	Logger *logging.Logger
}

// Controller owns the current view and the two form buffers, and enforces the
// transition and submit guards. All methods are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	current   View
	connected bool
	send      SendForm
	convert   ConvertForm

	ledger *ledger.Ledger
	store  *store.Store
	logger *logging.Logger
}

// New creates a controller. The initial view is connect when no wallet is
// attached, home otherwise.
func New(cfg Config) (*Controller, error) {
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("view: ledger is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("view: store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Global()
	}
	c := &Controller{
		current:   ViewConnect,
		connected: cfg.Connected,
		ledger:    cfg.Ledger,
		store:     cfg.Store,
		logger:    logger.Named("view"),
	}
	if cfg.Connected {
		c.current = ViewHome
	}
	return c, nil
}

// Current returns the active view.
func (c *Controller) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Connected reports whether a wallet is attached.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetConnected records a wallet attach or detach. Detaching forces the
// connect view and clears both forms regardless of the current view.
// Attaching from the connect view lands on home.
func (c *Controller) SetConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected == connected {
		return
	}
	c.connected = connected
	if !connected {
		from := c.current
		c.current = ViewConnect
		c.send = SendForm{}
		c.convert = ConvertForm{}
		c.logger.Info("wallet disconnected", zap.String("from", from.String()))
		return
	}
	if c.current == ViewConnect {
		c.current = ViewHome
	}
	c.logger.Info("wallet connected", zap.String("view", c.current.String()))
}

// Navigate moves to the target view if the transition is allowed from the
// current one. Navigation requires an attached wallet.
func (c *Controller) Navigate(to View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	if to == c.current {
		return nil
	}
	for _, allowed := range transitions[c.current] {
		if allowed == to {
			c.logger.Debug("navigate",
				zap.String("from", c.current.String()),
				zap.String("to", to.String()))
			c.current = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.current, to)
}

// Back returns from a leaf view to home, except from convert, which backs
// onto the send view it was entered from. Forms are kept.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.current == ViewConnect || c.current == ViewHome {
		return
	}
	if c.current == ViewConvert {
		c.current = ViewSend
		return
	}
	c.current = ViewHome
}

// SetSendForm replaces the send form buffer.
func (c *Controller) SetSendForm(f SendForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = f
}

// SendForm returns a copy of the send form buffer.
func (c *Controller) SendForm() SendForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send
}

// SetConvertForm replaces the convert form buffer.
func (c *Controller) SetConvertForm(f ConvertForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.convert = f
}

// ConvertForm returns a copy of the convert form buffer.
func (c *Controller) ConvertForm() ConvertForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.convert
}

// CanSubmitSend reports whether the form passes the send guard against the
// current balance.
func (c *Controller) CanSubmitSend(f SendForm) bool {
	_, err := c.validateSend(f)
	return err == nil
}

// CanSubmitConvert reports whether the form passes the convert guard against
// the current balance.
func (c *Controller) CanSubmitConvert(f ConvertForm) bool {
	_, _, err := c.validateConvert(f)
	return err == nil
}

// SubmitSend validates the form, debits the ledger, clears the form and lands
// on home. The recorded description is the note, or a shortened recipient
// address when the note is empty.
func (c *Controller) SubmitSend(f SendForm) (ledger.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ledger.Transaction{}, ErrNotConnected
	}
	amount, err := c.validateSend(f)
	if err != nil {
		return ledger.Transaction{}, err
	}
	desc := f.Note
	if desc == "" {
		desc = "Sent to " + shortenAddress(f.Recipient)
	}
	tx, err := c.ledger.Debit(amount, desc)
	if err != nil {
		return ledger.Transaction{}, err
	}
	c.send = SendForm{}
	c.current = ViewHome
	return tx, nil
}

// SubmitConvert validates the form, debits the ledger, clears the form and
// lands on home.
func (c *Controller) SubmitConvert(f ConvertForm) (ledger.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ledger.Transaction{}, ErrNotConnected
	}
	amount, bank, err := c.validateConvert(f)
	if err != nil {
		return ledger.Transaction{}, err
	}
	desc := fmt.Sprintf("Converted to %s (%s)", bank.Name, f.AccountNumber)
	tx, err := c.ledger.Debit(amount, desc)
	if err != nil {
		return ledger.Transaction{}, err
	}
	c.convert = ConvertForm{}
	c.current = ViewHome
	return tx, nil
}

// CancelSend clears the send form and returns to home.
func (c *Controller) CancelSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = SendForm{}
	if c.connected && c.current == ViewSend {
		c.current = ViewHome
	}
}

// CancelConvert clears the convert form and returns to the send view.
func (c *Controller) CancelConvert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.convert = ConvertForm{}
	if c.connected && c.current == ViewConvert {
		c.current = ViewSend
	}
}

// BuyWater purchases a package and, when the debit succeeds, lands on the
// redeem view where the new item and its code are shown.
func (c *Controller) BuyWater(packageID string) (store.PurchasedItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return store.PurchasedItem{}, ErrNotConnected
	}
	item, err := c.store.Purchase(packageID)
	if err != nil {
		return store.PurchasedItem{}, err
	}
	c.current = ViewRedeem
	return item, nil
}

// RedeemItem redeems a purchased item in place. The view does not change.
func (c *Controller) RedeemItem(itemID string) (store.PurchasedItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Redeem(itemID)
}

func (c *Controller) validateSend(f SendForm) (float64, error) {
	if f.Recipient == "" {
		return 0, fmt.Errorf("%w: recipient is required", ErrFormInvalid)
	}
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return 0, err
	}
	if amount+ledger.NetworkFee > c.ledger.Balance() {
		return 0, fmt.Errorf("%w: amount plus fee exceeds balance", ErrFormInvalid)
	}
	return amount, nil
}

func (c *Controller) validateConvert(f ConvertForm) (float64, banks.Bank, error) {
	amount, err := parseAmount(f.SuiAmount)
	if err != nil {
		return 0, banks.Bank{}, err
	}
	bank, ok := banks.Lookup(f.BankID)
	if !ok {
		return 0, banks.Bank{}, fmt.Errorf("%w: unknown bank %q", ErrFormInvalid, f.BankID)
	}
	if f.AccountNumber == "" || len(f.AccountNumber) > maxAccountNumberLen {
		return 0, banks.Bank{}, fmt.Errorf("%w: account number must be 1-%d characters", ErrFormInvalid, maxAccountNumberLen)
	}
	if f.AccountName == "" {
		return 0, banks.Bank{}, fmt.Errorf("%w: account name is required", ErrFormInvalid)
	}
	if amount+ledger.NetworkFee > c.ledger.Balance() {
		return 0, banks.Bank{}, fmt.Errorf("%w: amount plus fee exceeds balance", ErrFormInvalid)
	}
	return amount, bank, nil
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrFormInvalid, raw)
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, fmt.Errorf("%w: amount must be positive", ErrFormInvalid)
	}
	return amount, nil
}

// shortenAddress renders a long hex address as its first six and last four
// characters.
func shortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
