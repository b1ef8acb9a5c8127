package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the storefront's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so modules can be used without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	catalogLoads    *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	windowOpen      prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "po_storefront",
			Name:      "catalog_loads_total",
			Help:      "Startup catalog loads by data source (remote or fallback).",
		}, []string{"source"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "po_storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart operations by kind and result.",
		}, []string{"op", "result"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "po_storefront",
			Name:      "checkout_handoffs_total",
			Help:      "Checkout hand-offs by result.",
		}, []string{"result"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "po_storefront",
			Name:      "cart_storage_failures_total",
			Help:      "Best-effort cart snapshot reads and writes that failed.",
		}, []string{"op"}),
		windowOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "po_storefront",
			Name:      "order_window_open",
			Help:      "1 while the pre-order window accepts orders.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.catalogLoads, m.cartMutations, m.checkouts, m.storageFailures, m.windowOpen,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CatalogLoaded(source string) {
	if m == nil {
		return
	}
	m.catalogLoads.WithLabelValues(source).Inc()
}

func (m *Metrics) CartMutation(op, result string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Checkout(result string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) StorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) WindowOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.windowOpen.Set(1)
	} else {
		m.windowOpen.Set(0)
	}
}
