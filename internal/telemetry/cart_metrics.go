package telemetry

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics holds Prometheus collectors for cart business events.
// A nil *CartMetrics is valid and records nothing, so services can run
// without telemetry in tests.
type CartMetrics struct {
	itemsAdded           prometheus.Counter
	checkoutsCompleted   prometheus.Counter
	checkoutRevenueCents prometheus.Counter
	stockRejections      prometheus.Counter
	txRetries            prometheus.Counter
}

// NewCartMetrics creates and registers cart business metrics.
func NewCartMetrics(namespace string) *CartMetrics {
	if namespace == "" {
		namespace = "sif"
	}

	m := &CartMetrics{
		itemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Total number of successful cart add operations",
		}),
		checkoutsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_completed_total",
			Help:      "Total number of confirmed checkouts that cleared at least one item",
		}),
		checkoutRevenueCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_revenue_cents_total",
			Help:      "Total revenue in cents across confirmed checkouts",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_stock_rejections_total",
			Help:      "Total number of cart mutations rejected by the stock bound",
		}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_tx_retries_total",
			Help:      "Total number of cart transactions retried after a serialization conflict",
		}),
	}

	prometheus.MustRegister(
		m.itemsAdded,
		m.checkoutsCompleted,
		m.checkoutRevenueCents,
		m.stockRejections,
		m.txRetries,
	)

	return m
}

// ItemAdded records a successful add-to-cart.
func (m *CartMetrics) ItemAdded() {
	if m == nil {
		return
	}
	m.itemsAdded.Inc()
}

// CheckoutCompleted records a confirmed checkout and its revenue.
func (m *CartMetrics) CheckoutCompleted(totalCents int64) {
	if m == nil {
		return
	}
	m.checkoutsCompleted.Inc()
	m.checkoutRevenueCents.Add(float64(totalCents))
}

// StockRejected records a mutation rejected by the stock bound.
func (m *CartMetrics) StockRejected() {
	if m == nil {
		return
	}
	m.stockRejections.Inc()
}

// TxRetried records a transaction retry after a serialization conflict.
func (m *CartMetrics) TxRetried() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}
