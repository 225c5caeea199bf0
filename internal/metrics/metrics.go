package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// チェックアウトの成否と所要時間。nil レシーバなら何もしない（テスト用）。
type CheckoutMetrics struct {
	completed prometheus.Counter
	aborted   *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewCheckoutMetrics() *CheckoutMetrics {
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "completed_total",
		Help:      "Total number of committed checkouts.",
	})
	aborted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "aborted_total",
		Help:      "Total number of aborted checkouts.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "duration_seconds",
		Help:      "Checkout latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	prometheus.MustRegister(completed, aborted, duration)
	return &CheckoutMetrics{completed: completed, aborted: aborted, duration: duration}
}

func (m *CheckoutMetrics) ObserveCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.completed.Inc()
	m.duration.Observe(d.Seconds())
}

func (m *CheckoutMetrics) ObserveAborted(reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.aborted.WithLabelValues(reason).Inc()
	m.duration.Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
