package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sui-pocket/pkg/logging"
)

// ClientConfig holds configuration for the fullnode JSON-RPC client.
type ClientConfig struct {
	// RPCURL is the fullnode endpoint.
	RPCURL string

	// Timeout bounds each balance query.
	Timeout time.Duration
}

// DefaultClientConfig returns a configuration pointing at the Sui testnet.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RPCURL:  "https://fullnode.testnet.sui.io:443",
		Timeout: 10 * time.Second,
	}
}

// Client is a Connector backed by a Sui fullnode over JSON-RPC.
type Client struct {
	address string
	config  ClientConfig
	http    *http.Client
	logger  *logging.Logger
}

// NewClient creates a client for the given wallet address. An empty address
// means no wallet is attached.
func NewClient(address string, config ClientConfig) *Client {
	if config.RPCURL == "" {
		config.RPCURL = DefaultClientConfig().RPCURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}

	return &Client{
		address: address,
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		logger:  logging.Global().Named("sui"),
	}
}

// Connected reports whether an address is attached.
func (c *Client) Connected() bool {
	return c.address != ""
}

// Address returns the attached wallet address.
func (c *Client) Address() string {
	return c.address
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result []coinBalance `json:"result"`
	Error  *rpcError     `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type coinBalance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

// Balance queries suix_getAllBalances for the attached address, sums the coin
// balances and scales MIST to SUI.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	if !c.Connected() {
		return 0, fmt.Errorf("sui: no wallet connected")
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "suix_getAllBalances",
		Params:  []any{c.address},
	})
	if err != nil {
		return 0, fmt.Errorf("sui: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RPCURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("sui: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sui: balance query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("sui: balance query returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return 0, fmt.Errorf("sui: failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return 0, fmt.Errorf("sui: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var totalMist float64
	for _, coin := range rpcResp.Result {
		mist, err := strconv.ParseFloat(coin.TotalBalance, 64)
		if err != nil {
			return 0, fmt.Errorf("sui: malformed balance %q: %w", coin.TotalBalance, err)
		}
		totalMist += mist
	}

	balance := totalMist / MistPerSui
	c.logger.Debug("balance query",
		zap.String("address", c.address),
		zap.Int("coins", len(rpcResp.Result)),
		zap.Float64("balance", balance),
	)
	return balance, nil
}
