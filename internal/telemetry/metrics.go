package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for shop-core observability.
type Metrics struct {
	// Promotion evaluation
	PromotionEvaluations     *prometheus.CounterVec // result: applied|none|error
	StaleEvaluations         prometheus.Counter
	EmptyPromotionCategories prometheus.Counter

	// Catalog feed
	CatalogRefreshFailures prometheus.Counter
	ProductSnapshots       prometheus.Counter

	// Orders
	OrdersSubmitted      prometheus.Counter
	OrdersCancelled      prometheus.Counter
	OrderSubmitFailures  prometheus.Counter
	UnknownOrderStatuses prometheus.Counter

	// Cart
	CartValue prometheus.Histogram
}

// NewMetrics registers shop-core metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PromotionEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "promotion_evaluations_total",
			Help:      "Promotion evaluations by result.",
		}, []string{"result"}),
		StaleEvaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "promotion_evaluations_stale_total",
			Help:      "Evaluation results discarded because the selection changed first.",
		}),
		EmptyPromotionCategories: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "promotion_empty_categories_total",
			Help:      "Promotion categories excluded because no member product is available.",
		}),
		CatalogRefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "catalog_refresh_failures_total",
			Help:      "Catalog refresh attempts that degraded to an empty catalog.",
		}),
		ProductSnapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "catalog_product_snapshots_total",
			Help:      "Product snapshots applied from fetches or feed callbacks.",
		}),
		OrdersSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "orders_submitted_total",
			Help:      "Orders accepted by the order submission service.",
		}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled by the passenger.",
		}),
		OrderSubmitFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "order_submit_failures_total",
			Help:      "Order submissions rejected or failed.",
		}),
		UnknownOrderStatuses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcore",
			Name:      "order_unknown_statuses_total",
			Help:      "Orders carrying a raw status this build does not recognize.",
		}),
		CartValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shopcore",
			Name:      "cart_value",
			Help:      "Cart total at evaluation time, in currency units.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 50, 100},
		}),
	}
}
