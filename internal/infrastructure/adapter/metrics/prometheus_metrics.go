package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
)

const namespace = "coaching_wallet"

var _ coreport.Metrics = (*Prometheus)(nil)

// Prometheus records domain and HTTP metrics
type Prometheus struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WalletOperationsTotal *prometheus.CounterVec
	ReservationsClamped   prometheus.Counter
	SessionTransitions    *prometheus.CounterVec
	SessionsExpiredTotal  prometheus.Counter
	SettlementCharged     *prometheus.HistogramVec
	SettlementRefunded    *prometheus.HistogramVec
}

// New creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered, which keeps tests isolated.
func New(registerer prometheus.Registerer) *Prometheus {
	factory := promauto.With(registerer)
	amountBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

	return &Prometheus{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WalletOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallet_operations_total",
				Help:      "Wallet service calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		ReservationsClamped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_release_clamped_total",
				Help:      "Releases larger than the stored reservation, clamped at zero",
			},
		),
		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_transitions_total",
				Help:      "Session status changes",
			},
			[]string{"activity", "from", "to"},
		),
		SessionsExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_expired_total",
				Help:      "Sessions closed by the stale-session sweeper",
			},
		),
		SettlementCharged: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_charged_amount",
				Help:      "Amount charged per settled session",
				Buckets:   amountBuckets,
			},
			[]string{"activity"},
		),
		SettlementRefunded: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_refunded_amount",
				Help:      "Amount refunded per settled session",
				Buckets:   amountBuckets,
			},
			[]string{"activity"},
		),
	}
}

// RecordHTTPRequest counts a served request and observes its latency
func (p *Prometheus) RecordHTTPRequest(method, path, status string, seconds float64) {
	p.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// WalletOperation implements core.Metrics
func (p *Prometheus) WalletOperation(operation, outcome string) {
	p.WalletOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ReservationClamped implements core.Metrics
func (p *Prometheus) ReservationClamped() {
	p.ReservationsClamped.Inc()
}

// SessionTransition implements core.Metrics
func (p *Prometheus) SessionTransition(activity, from, to string) {
	p.SessionTransitions.WithLabelValues(activity, from, to).Inc()
}

// SessionsExpired implements core.Metrics
func (p *Prometheus) SessionsExpired(count int) {
	if count <= 0 {
		return
	}
	p.SessionsExpiredTotal.Add(float64(count))
}

// ObserveSettlement implements core.Metrics
func (p *Prometheus) ObserveSettlement(activity string, charged, refunded float64) {
	p.SettlementCharged.WithLabelValues(activity).Observe(charged)
	p.SettlementRefunded.WithLabelValues(activity).Observe(refunded)
}
