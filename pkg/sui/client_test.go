package sui

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRPCServer(t *testing.T, handler func(method string) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}

		resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": handler(req.Method)}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Balance_SumsAndScales(t *testing.T) {
	srv := newRPCServer(t, func(method string) any {
		if method != "suix_getAllBalances" {
			t.Errorf("Unexpected method %s", method)
		}
		return []map[string]any{
			{"coinType": "0x2::sui::SUI", "coinObjectCount": 2, "totalBalance": "1500000000"},
			{"coinType": "0x2::sui::SUI", "coinObjectCount": 1, "totalBalance": "500000000"},
		}
	})
	defer srv.Close()

	c := NewClient("0xabc", ClientConfig{RPCURL: srv.URL})

	balance, err := c.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	// (1500000000 + 500000000) MIST / 1e9 = 2 SUI
	if math.Abs(balance-2.0) > 1e-9 {
		t.Errorf("Expected balance 2.0, got %v", balance)
	}
}

func TestClient_Balance_MalformedPayload(t *testing.T) {
	srv := newRPCServer(t, func(string) any {
		return []map[string]any{{"totalBalance": "not-a-number"}}
	})
	defer srv.Close()

	c := NewClient("0xabc", ClientConfig{RPCURL: srv.URL})
	if _, err := c.Balance(context.Background()); err == nil {
		t.Error("Expected error for malformed balance")
	}
}

func TestClient_Balance_Disconnected(t *testing.T) {
	c := NewClient("", ClientConfig{})
	if c.Connected() {
		t.Error("Empty address should not be connected")
	}
	if _, err := c.Balance(context.Background()); err == nil {
		t.Error("Expected error when no wallet is connected")
	}
}

func TestFake(t *testing.T) {
	f := NewFake("0xfake", 3.5)

	if !f.Connected() || f.Address() != "0xfake" {
		t.Error("Fake not connected as configured")
	}

	balance, err := f.Balance(context.Background())
	if err != nil || balance != 3.5 {
		t.Errorf("Balance = %v, %v; want 3.5, nil", balance, err)
	}

	f.SetConnected(false)
	if f.Connected() {
		t.Error("SetConnected(false) ignored")
	}
}
