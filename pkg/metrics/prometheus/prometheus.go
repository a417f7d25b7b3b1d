package prometheus

import (
	"time"

	"sui-pocket/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector for Prometheus.
type PrometheusCollector struct {
	namespace string

	// Ledger
	credits        prometheus.Counter
	debits         prometheus.Counter
	debitsRejected prometheus.Counter
	creditVolume   prometheus.Counter
	debitVolume    prometheus.Counter
	feeVolume      prometheus.Counter

	// Water store
	purchases *prometheus.CounterVec
	redeems   *prometheus.CounterVec

	// Rate provider
	rateRefreshes  *prometheus.CounterVec
	refreshLatency prometheus.Histogram
	circuitState   prometheus.Gauge
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	pc := &PrometheusCollector{
		namespace: namespace,
		credits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_credits_total",
			Help:      "Total number of ledger credits",
		}),
		debits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_debits_total",
			Help:      "Total number of successful ledger debits",
		}),
		debitsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_debits_rejected_total",
			Help:      "Total number of debits rejected for insufficient balance",
		}),
		creditVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_credit_volume_sui",
			Help:      "Total credited amount in SUI",
		}),
		debitVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_debit_volume_sui",
			Help:      "Total debited amount in SUI, fees excluded",
		}),
		feeVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_fee_volume_sui",
			Help:      "Total network fees charged in SUI",
		}),
		purchases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "water_purchases_total",
				Help:      "Total number of water package purchases per package",
			},
			[]string{"package"},
		),
		redeems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "water_redeems_total",
				Help:      "Total number of redeem attempts per outcome",
			},
			[]string{"outcome"},
		),
		rateRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_refreshes_total",
				Help:      "Total number of exchange-rate refresh attempts per status",
			},
			[]string{"status"},
		),
		refreshLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_refresh_duration_seconds",
			Help:      "Exchange-rate refresh latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		circuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_circuit_state",
			Help:      "Current rate fetcher circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
	}

	return pc
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		pc.credits,
		pc.debits,
		pc.debitsRejected,
		pc.creditVolume,
		pc.debitVolume,
		pc.feeVolume,
		pc.purchases,
		pc.redeems,
		pc.rateRefreshes,
		pc.refreshLatency,
		pc.circuitState,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordCredit records a ledger credit.
func (pc *PrometheusCollector) RecordCredit(amount float64) {
	pc.credits.Inc()
	pc.creditVolume.Add(amount)
}

// RecordDebit records a successful ledger debit.
func (pc *PrometheusCollector) RecordDebit(amount, fee float64) {
	pc.debits.Inc()
	pc.debitVolume.Add(amount)
	pc.feeVolume.Add(fee)
}

// RecordDebitRejected records a debit rejected for insufficient balance.
func (pc *PrometheusCollector) RecordDebitRejected() {
	pc.debitsRejected.Inc()
}

// RecordPurchase records a water package purchase.
func (pc *PrometheusCollector) RecordPurchase(packageID string) {
	pc.purchases.WithLabelValues(packageID).Inc()
}

// RecordRedeem records the outcome of a redeem attempt.
func (pc *PrometheusCollector) RecordRedeem(outcome metrics.RedeemOutcome) {
	pc.redeems.WithLabelValues(outcome.String()).Inc()
}

// RecordRateRefresh records an exchange-rate refresh attempt.
func (pc *PrometheusCollector) RecordRateRefresh(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	pc.rateRefreshes.WithLabelValues(status).Inc()
	pc.refreshLatency.Observe(duration.Seconds())
}

// RecordCircuitState records the rate fetcher circuit breaker state.
func (pc *PrometheusCollector) RecordCircuitState(state metrics.CircuitState) {
	pc.circuitState.Set(float64(state))
}
