// Package api exposes the wallet over HTTP: balance and transaction queries,
// the send/convert/purchase/redeem operations, and operational endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sui-pocket/pkg/banks"
	"sui-pocket/pkg/ledger"
	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/qr"
	"sui-pocket/pkg/rate"
	"sui-pocket/pkg/store"
	"sui-pocket/pkg/sui"
	"sui-pocket/pkg/view"
)

// Server provides the HTTP surface over the wallet's components.
type Server struct {
	ledger     *ledger.Ledger
	store      *store.Store
	controller *view.Controller
	rate       *rate.Provider
	connector  sui.Connector
	logger     *logging.Logger
	server     *http.Server
	config     ServerConfig
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration

	// Registry serves Prometheus metrics at /metrics when set.
	Registry *prometheus.Registry
}

// DefaultServerConfig returns a default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8080",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// NewServer creates the API server and wires its routes.
func NewServer(l *ledger.Ledger, s *store.Store, c *view.Controller, r *rate.Provider, conn sui.Connector, config ServerConfig) *Server {
	srv := &Server{
		ledger:     l,
		store:      s,
		controller: c,
		rate:       r,
		connector:  conn,
		logger:     logging.Global().Named("api"),
		config:     config,
	}

	router := mux.NewRouter()

	router.HandleFunc("/health", srv.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", srv.handleStatus).Methods(http.MethodGet)

	router.HandleFunc("/balance", srv.handleBalance).Methods(http.MethodGet)
	router.HandleFunc("/transactions", srv.handleTransactions).Methods(http.MethodGet)
	router.HandleFunc("/send", srv.handleSend).Methods(http.MethodPost)
	router.HandleFunc("/convert", srv.handleConvert).Methods(http.MethodPost)
	router.HandleFunc("/receive", srv.handleReceive).Methods(http.MethodPost)

	router.HandleFunc("/rate", srv.handleRate).Methods(http.MethodGet)
	router.HandleFunc("/banks", srv.handleBanks).Methods(http.MethodGet)
	router.HandleFunc("/qr", srv.handleQR).Methods(http.MethodGet)

	router.HandleFunc("/water/packages", srv.handleWaterPackages).Methods(http.MethodGet)
	router.HandleFunc("/water/items", srv.handleWaterItems).Methods(http.MethodGet)
	router.HandleFunc("/water/purchase", srv.handleWaterPurchase).Methods(http.MethodPost)
	router.HandleFunc("/water/redeem", srv.handleWaterRedeem).Methods(http.MethodPost)

	router.HandleFunc("/view", srv.handleView).Methods(http.MethodGet)
	router.HandleFunc("/view/navigate", srv.handleNavigate).Methods(http.MethodPost)
	router.HandleFunc("/view/back", srv.handleBack).Methods(http.MethodPost)

	if config.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	}

	srv.server = &http.Server{
		Addr:         config.Address,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return srv
}

// Handler returns the server's root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", zap.Error(err))
		}
	}()
	s.logger.Info("listening", zap.String("address", s.config.Address))
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(startTime).String(),
		"connected": s.controller.Connected(),
		"view":      s.controller.Current().String(),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance":  s.ledger.Balance(),
		"currency": "SUI",
		"address":  s.connector.Address(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ledger.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	txs := s.ledger.Transactions(filter)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filter":       filter,
		"transactions": txs,
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var form view.SendForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tx, err := s.controller.SubmitSend(form)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transaction": tx,
		"balance":     s.ledger.Balance(),
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var form view.ConvertForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tx, err := s.controller.SubmitConvert(form)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transaction": tx,
		"balance":     s.ledger.Balance(),
	})
}

// handleReceive simulates an incoming payment of a random testnet amount and
// returns the attached address together with a QR image URL encoding it.
func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	if !s.connector.Connected() {
		writeMappedError(w, view.ErrNotConnected)
		return
	}

	// Random amount between 0.1 and 5.1 SUI, truncated to 4 decimals.
	amount := math.Round((rand.Float64()*5+0.1)*1e4) / 1e4
	tx, err := s.ledger.Credit(amount, "Test payment received")
	if err != nil {
		writeMappedError(w, err)
		return
	}

	address := s.connector.Address()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":     address,
		"qr_url":      qr.ImageURL(address, qr.DefaultSize),
		"transaction": tx,
		"balance":     s.ledger.Balance(),
	})
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pair": "SUI/NGN",
		"rate": s.rate.Rate(),
	})
}

func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var list []banks.Bank
	if q == "" {
		list = banks.All()
	} else {
		list = banks.Search(q)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"banks": list,
	})
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if data == "" {
		writeError(w, http.StatusBadRequest, errors.New("data parameter is required"))
		return
	}
	size := qr.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("size must be a positive integer"))
			return
		}
		size = parsed
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url": qr.ImageURL(data, size),
	})
}

func (s *Server) handleWaterPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"packages": store.Catalog(),
	})
}

func (s *Server) handleWaterItems(w http.ResponseWriter, r *http.Request) {
	var items []store.PurchasedItem
	if r.URL.Query().Get("active") == "true" {
		items = s.store.ListActive()
	} else {
		items = s.store.List()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (s *Server) handleWaterPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackageID string `json:"package_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := s.controller.BuyWater(req.PackageID)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item":    item,
		"balance": s.ledger.Balance(),
	})
}

// handleWaterRedeem redeems by item id when one is given, otherwise by code.
func (s *Server) handleWaterRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var (
		item store.PurchasedItem
		err  error
	)
	switch {
	case req.ItemID != "":
		item, err = s.controller.RedeemItem(req.ItemID)
	case req.Code != "":
		item, err = s.store.RedeemByCode(req.Code)
	default:
		writeError(w, http.StatusBadRequest, errors.New("item_id or code is required"))
		return
	}
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"view":      s.controller.Current().String(),
		"connected": s.controller.Connected(),
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target, err := view.Parse(req.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.controller.Navigate(target); err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"view": s.controller.Current().String(),
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.controller.Back()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"view": s.controller.Current().String(),
	})
}

// writeMappedError maps domain errors onto HTTP statuses.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, err)
	case errors.Is(err, store.ErrPackageNotFound), errors.Is(err, store.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrAlreadyRedeemed), errors.Is(err, store.ErrItemExpired):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, view.ErrNotConnected), errors.Is(err, view.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, view.ErrFormInvalid), errors.Is(err, ledger.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

var startTime = time.Now()
