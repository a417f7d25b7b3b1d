package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sui-pocket/pkg/api"
	"sui-pocket/pkg/ledger"
	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/metrics"
	promcollector "sui-pocket/pkg/metrics/prometheus"
	"sui-pocket/pkg/rate"
	"sui-pocket/pkg/store"
	"sui-pocket/pkg/sui"
	"sui-pocket/pkg/view"
)

// App owns every component of the wallet and their shared lifecycle.
type App struct {
	cfg Config

	Logger     *logging.Logger
	Ledger     *ledger.Ledger
	Store      *store.Store
	Controller *view.Controller
	Rate       *rate.Provider
	Connector  sui.Connector
	Server     *api.Server

	cancel context.CancelFunc
}

// New builds the application from its configuration. A nil connector means a
// JSON-RPC client is built from the wallet config; tests pass a fake.
func New(cfg Config, connector sui.Connector) (*App, error) {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("app: logger: %w", err)
	}
	logging.SetGlobal(logger)

	var (
		collector metrics.Collector = metrics.NoOpCollector{}
		registry  *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		pc := promcollector.NewPrometheusCollector(cfg.Metrics.Namespace)
		registry = prometheus.NewRegistry()
		if err := pc.Register(registry); err != nil {
			return nil, fmt.Errorf("app: metrics: %w", err)
		}
		collector = pc
	}

	if connector == nil {
		connector = sui.NewClient(cfg.Wallet.Address, sui.ClientConfig{
			RPCURL:  cfg.Wallet.RPCURL,
			Timeout: cfg.Wallet.RPCTimeout,
		})
	}

	l := ledger.New(ledger.Config{
		InitialBalance: cfg.Wallet.InitialBalance,
		Metrics:        collector,
	})

	s, err := store.New(store.Config{
		Ledger:  l,
		Metrics: collector,
	})
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}

	controller, err := view.New(view.Config{
		Ledger: l,
		Store:  s,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("app: view: %w", err)
	}

	var cache rate.Cache
	if cfg.Rate.Redis.Addr != "" {
		cache, err = rate.NewRedisCache(rate.RedisCacheConfig{
			Addr:     cfg.Rate.Redis.Addr,
			Username: cfg.Rate.Redis.Username,
			Password: cfg.Rate.Redis.Password,
			Key:      cfg.Rate.Redis.Key,
			TTL:      cfg.Rate.Redis.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("app: rate cache: %w", err)
		}
	}

	provider := rate.New(rate.Config{
		Fetcher:        rate.NewHTTPFetcher(rate.HTTPFetcherConfig{URL: cfg.Rate.QuoteURL}),
		Fallback:       cfg.Rate.Fallback,
		Interval:       cfg.Rate.Interval,
		JitterFraction: cfg.Rate.JitterFraction,
		Cache:          cache,
		Metrics:        collector,
	})

	server := api.NewServer(l, s, controller, provider, connector, api.ServerConfig{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Registry:     registry,
	})

	return &App{
		cfg:        cfg,
		Logger:     logger,
		Ledger:     l,
		Store:      s,
		Controller: controller,
		Rate:       provider,
		Connector:  connector,
		Server:     server,
	}, nil
}

// Attach seeds the ledger from the wallet's on-chain balance and marks the
// wallet connected. Nothing changes when the balance query fails.
func (a *App) Attach(ctx context.Context) error {
	balance, err := a.Connector.Balance(ctx)
	if err != nil {
		return fmt.Errorf("app: attach: %w", err)
	}
	a.Ledger.SetBalance(balance)
	a.Controller.SetConnected(true)
	a.Logger.Info("wallet attached",
		zap.String("address", a.Connector.Address()),
		zap.Float64("balance", balance))
	return nil
}

// Detach disconnects the wallet. Purchased items and the session balance are
// discarded; the next attach reseeds from chain.
func (a *App) Detach() {
	a.Controller.SetConnected(false)
	a.Store.Clear()
	a.Ledger.SetBalance(0)
	a.Logger.Info("wallet detached")
}

// Start launches the HTTP server and the background rate refresher.
func (a *App) Start() error {
	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.Rate.Run(runCtx)
	return a.Server.Start()
}

// Close stops the server, the rate refresher and flushes the logger.
func (a *App) Close(ctx context.Context) error {
	var errs error
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.Server.Stop(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := a.Rate.Close(); err != nil {
		errs = multierr.Append(errs, err)
	}
	// Syncing to a terminal fails on some platforms; best effort only.
	_ = a.Logger.Sync()
	return errs
}
