// Package rate maintains an advisory SUI→NGN exchange rate for the convert
// screen. The rate is display-only: a failed or stale fetch degrades to the
// last good value, never to an error in the view layer.
package rate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"sui-pocket/pkg/logging"
	"sui-pocket/pkg/metrics"
)

// DefaultFallback is the seed rate used before the first successful fetch.
const DefaultFallback = 850

// DefaultInterval is how often the background loop refreshes the rate.
const DefaultInterval = 5 * time.Minute

// DefaultJitterFraction bounds the cosmetic jitter applied to the last good
// value when a fetch fails (±5%). The bound is a display choice, not a
// correctness contract.
const DefaultJitterFraction = 0.05

// Cache optionally shares the last good quote between processes.
// Load and Store failures are soft; the in-process value always wins.
type Cache interface {
	Load(ctx context.Context) (float64, error)
	Store(ctx context.Context, rate float64) error
	Close() error
}

// Config holds rate provider configuration.
type Config struct {
	// Fetcher issues the external quote query. Required.
	Fetcher Fetcher

	// Fallback seeds the rate before the first successful fetch.
	// Defaults to DefaultFallback.
	Fallback float64

	// Interval between background refreshes. Defaults to DefaultInterval.
	Interval time.Duration

	// JitterFraction bounds the fallback jitter.
	// Defaults to DefaultJitterFraction.
	JitterFraction float64

	// Cache optionally persists the last good quote (e.g. Redis).
	Cache Cache

	// Metrics receives refresh outcomes and circuit state.
	// Defaults to a no-op collector.
	Metrics metrics.Collector
}

// Provider caches the exchange rate and refreshes it through a circuit
// breaker. Concurrent refreshes collapse into one in-flight fetch, and a
// response that resolves after a newer request was issued is discarded so the
// rate cannot regress to a stale quote.
type Provider struct {
	mu       sync.RWMutex
	current  float64 // displayed rate
	lastGood float64 // last successfully fetched rate, jitter excluded

	seq sync.Mutex // serializes issue/apply bookkeeping
	// issued counts fetch requests; a response applies only if no newer
	// request was issued while it was in flight.
	issued uint64

	cfg     Config
	cb      *gobreaker.CircuitBreaker
	sf      singleflight.Group
	metrics metrics.Collector
	logger  *logging.Logger
	randFn  func() float64
}

// New creates a rate provider. If a cache is configured, the stored quote
// seeds the rate; otherwise the fallback does.
func New(cfg Config) *Provider {
	if cfg.Fallback <= 0 {
		cfg.Fallback = DefaultFallback
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.JitterFraction <= 0 || cfg.JitterFraction >= 1 {
		cfg.JitterFraction = DefaultJitterFraction
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoOpCollector{}
	}

	logger := logging.Global().Named("rate")

	p := &Provider{
		current:  cfg.Fallback,
		lastGood: cfg.Fallback,
		cfg:      cfg,
		metrics:  cfg.Metrics,
		logger:   logger,
		randFn:   rand.Float64,
	}

	p.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "rate-fetch",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			var state metrics.CircuitState
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitClosed
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			}
			p.metrics.RecordCircuitState(state)
		},
	})

	if cfg.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cached, err := cfg.Cache.Load(ctx); err == nil && cached > 0 {
			p.current = cached
			p.lastGood = cached
			logger.Info("rate seeded from cache", zap.Float64("rate", cached))
		}
	}

	return p
}

// Rate returns the current advisory rate. Always positive.
func (p *Provider) Rate() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh fetches a fresh quote and returns the resulting rate. On any
// failure the returned rate is the last good value perturbed by bounded
// jitter; the error is consumed here, not surfaced.
//
// Concurrent callers share one fetch via singleflight.
func (p *Provider) Refresh(ctx context.Context) float64 {
	rate, _, _ := p.sf.Do("refresh", func() (interface{}, error) {
		return p.refresh(ctx), nil
	})
	return rate.(float64)
}

func (p *Provider) refresh(ctx context.Context) float64 {
	p.seq.Lock()
	p.issued++
	reqID := p.issued
	p.seq.Unlock()

	start := time.Now()
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.cfg.Fetcher.Fetch(ctx)
	})
	duration := time.Since(start)

	p.seq.Lock()
	stale := reqID != p.issued
	p.seq.Unlock()
	if stale {
		// A newer request was issued while this one was in flight;
		// applying it could regress the rate.
		p.logger.Debug("discarding out-of-order rate response")
		return p.Rate()
	}

	if err != nil {
		p.metrics.RecordRateRefresh(false, duration)
		return p.fallback(err)
	}

	rate, ok := result.(float64)
	if !ok || rate <= 0 {
		p.metrics.RecordRateRefresh(false, duration)
		return p.fallback(errMalformedQuote)
	}

	p.mu.Lock()
	p.current = rate
	p.lastGood = rate
	p.mu.Unlock()

	p.metrics.RecordRateRefresh(true, duration)
	p.logger.Info("rate refreshed", zap.Float64("rate", rate), zap.Duration("took", duration))

	if p.cfg.Cache != nil {
		if err := p.cfg.Cache.Store(ctx, rate); err != nil {
			p.logger.Warn("failed to cache rate", zap.Error(err))
		}
	}
	return rate
}

// fallback jitters the last good rate within the configured bound and makes
// it the displayed value. The last good value itself is untouched, so
// repeated failures stay bounded around it instead of random-walking.
func (p *Provider) fallback(cause error) float64 {
	p.mu.Lock()
	jitter := 1 + (p.randFn()*2-1)*p.cfg.JitterFraction
	p.current = p.lastGood * jitter
	rate := p.current
	p.mu.Unlock()

	p.logger.Warn("rate fetch failed, using fallback",
		zap.Error(cause),
		zap.Float64("rate", rate),
	)
	return rate
}

// Run refreshes once immediately and then on the configured interval until
// ctx is cancelled.
func (p *Provider) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Close releases the optional cache.
func (p *Provider) Close() error {
	if p.cfg.Cache != nil {
		return p.cfg.Cache.Close()
	}
	return nil
}
