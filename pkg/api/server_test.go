package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"sui-pocket/pkg/ledger"
	"sui-pocket/pkg/rate"
	"sui-pocket/pkg/store"
	"sui-pocket/pkg/sui"
	"sui-pocket/pkg/view"
)

func setupTestServer(t *testing.T, balance float64) (*Server, *ledger.Ledger, *store.Store) {
	t.Helper()

	l := ledger.New(ledger.Config{InitialBalance: balance})
	s, err := store.New(store.Config{Ledger: l})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	c, err := view.New(view.Config{Ledger: l, Store: s, Connected: true})
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	p := rate.New(rate.Config{
		Fetcher: rate.FetcherFunc(func(ctx context.Context) (float64, error) {
			return 1234, nil
		}),
	})
	conn := sui.NewFake("0x1234567890abcdef1234567890abcdef", balance)

	server := NewServer(l, s, c, p, conn, DefaultServerConfig())
	return server, l, s
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w, response
}

func TestServer_Health(t *testing.T) {
	server, _, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", response["status"])
	}
}

func TestServer_Balance(t *testing.T) {
	server, _, _ := setupTestServer(t, 0.25)

	w, response := doJSON(t, server, http.MethodGet, "/balance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if response["balance"] != 0.25 {
		t.Errorf("Expected balance 0.25, got %v", response["balance"])
	}
	if response["currency"] != "SUI" {
		t.Errorf("Expected currency SUI, got %v", response["currency"])
	}
}

func TestServer_SendDebitsLedger(t *testing.T) {
	server, l, _ := setupTestServer(t, 0.01)

	w, response := doJSON(t, server, http.MethodPost, "/send", view.SendForm{
		Recipient: "0xabcdef0123456789",
		Amount:    "0.005",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %v", w.Code, response)
	}
	if got := l.Balance(); math.Abs(got-0.004) > 1e-9 {
		t.Errorf("Unexpected balance %v", got)
	}

	tx, ok := response["transaction"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected transaction object, got %v", response["transaction"])
	}
	if tx["display"] != "-0.005 SUI" {
		t.Errorf("Unexpected display %v", tx["display"])
	}
}

func TestServer_SendValidationAndFunds(t *testing.T) {
	server, l, _ := setupTestServer(t, 0.01)

	// Missing recipient is a validation failure.
	w, _ := doJSON(t, server, http.MethodPost, "/send", view.SendForm{Amount: "0.005"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	// Amount plus fee above balance is rejected before any debit.
	w, _ = doJSON(t, server, http.MethodPost, "/send", view.SendForm{
		Recipient: "0xabc",
		Amount:    "0.0099",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if got := l.Balance(); got != 0.01 {
		t.Errorf("Balance changed by rejected send: %v", got)
	}
}

func TestServer_Transactions(t *testing.T) {
	server, l, _ := setupTestServer(t, 1)

	if _, err := l.Credit(0.5, "Received"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := l.Debit(0.1, "Sent"); err != nil {
		t.Fatalf("debit: %v", err)
	}

	w, response := doJSON(t, server, http.MethodGet, "/transactions?filter=sent", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	txs, ok := response["transactions"].([]interface{})
	if !ok || len(txs) != 1 {
		t.Fatalf("Expected 1 sent transaction, got %v", response["transactions"])
	}

	w, _ = doJSON(t, server, http.MethodGet, "/transactions?filter=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown filter, got %d", w.Code)
	}
}

func TestServer_WaterPurchaseAndRedeem(t *testing.T) {
	server, _, _ := setupTestServer(t, 0.05)

	w, response := doJSON(t, server, http.MethodPost, "/water/purchase", map[string]string{
		"package_id": "medium",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %v", w.Code, response)
	}
	item, ok := response["item"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected item object, got %v", response["item"])
	}
	itemID, _ := item["id"].(string)
	if itemID == "" {
		t.Fatal("Expected item id")
	}

	w, response = doJSON(t, server, http.MethodPost, "/water/redeem", map[string]string{
		"item_id": itemID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %v", w.Code, response)
	}

	// Redeeming again is a conflict.
	w, _ = doJSON(t, server, http.MethodPost, "/water/redeem", map[string]string{
		"item_id": itemID,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestServer_WaterPurchaseErrors(t *testing.T) {
	server, _, _ := setupTestServer(t, 0.0001)

	w, _ := doJSON(t, server, http.MethodPost, "/water/purchase", map[string]string{
		"package_id": "oceanic",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown package, got %d", w.Code)
	}

	w, _ = doJSON(t, server, http.MethodPost, "/water/purchase", map[string]string{
		"package_id": "small",
	})
	if w.Code != http.StatusPaymentRequired {
		t.Errorf("Expected status 402 for insufficient funds, got %d", w.Code)
	}
}

func TestServer_Banks(t *testing.T) {
	server, _, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodGet, "/banks?q=kuda", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	list, ok := response["banks"].([]interface{})
	if !ok || len(list) == 0 {
		t.Fatalf("Expected search results, got %v", response["banks"])
	}
}

func TestServer_QR(t *testing.T) {
	server, _, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodGet, "/qr?data=0xabc&size=300", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	url, _ := response["url"].(string)
	if url == "" {
		t.Fatal("Expected QR url")
	}

	w, _ = doJSON(t, server, http.MethodGet, "/qr", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without data, got %d", w.Code)
	}
}

func TestServer_Rate(t *testing.T) {
	server, _, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodGet, "/rate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if response["pair"] != "SUI/NGN" {
		t.Errorf("Unexpected pair %v", response["pair"])
	}
	if _, ok := response["rate"].(float64); !ok {
		t.Errorf("Expected numeric rate, got %v", response["rate"])
	}
}

func TestServer_Navigate(t *testing.T) {
	server, _, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodPost, "/view/navigate", map[string]string{"view": "send"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if response["view"] != "send" {
		t.Errorf("Expected view send, got %v", response["view"])
	}

	// Water is not reachable from send.
	w, _ = doJSON(t, server, http.MethodPost, "/view/navigate", map[string]string{"view": "water"})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	w, response = doJSON(t, server, http.MethodPost, "/view/back", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if response["view"] != "home" {
		t.Errorf("Expected view home after back, got %v", response["view"])
	}
}

func TestServer_ReceiveCreditsLedger(t *testing.T) {
	server, l, _ := setupTestServer(t, 1)

	w, response := doJSON(t, server, http.MethodPost, "/receive", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if response["address"] != "0x1234567890abcdef1234567890abcdef" {
		t.Errorf("Unexpected address %v", response["address"])
	}
	if url, _ := response["qr_url"].(string); url == "" {
		t.Error("Expected qr_url")
	}

	// The simulated payment credits a random 0.1-5.1 SUI.
	got := l.Balance()
	if got <= 1.1-1e-9 || got > 6.1+1e-9 {
		t.Errorf("Balance %v outside the simulated credit bounds", got)
	}
	received := l.Transactions(ledger.FilterReceived)
	if len(received) != 1 {
		t.Fatalf("Expected 1 received transaction, got %d", len(received))
	}
	if received[0].Description != "Test payment received" {
		t.Errorf("Unexpected description %q", received[0].Description)
	}
	if amt := received[0].Amount; amt < 0.1 || amt > 5.1 {
		t.Errorf("Credited amount %v outside [0.1, 5.1]", amt)
	}
}
