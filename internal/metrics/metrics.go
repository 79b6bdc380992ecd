package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)
	HTTPRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Метрики хранилища ордеров
	StoreQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderbook_store_queries_total",
			Help: "Total number of order store queries",
		},
		[]string{"query", "status"},
	)
	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "orderbook_store_query_duration_seconds",
			Help: "Duration of order store queries in seconds",
		},
		[]string{"query"},
	)
	OutstandingOrders = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orderbook_outstanding_orders",
			Help: "Outstanding orders seen by the last summary, by side",
		},
		[]string{"side"},
	)

	// Индекс цен
	PriceIndexLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_index_lookups_total",
			Help: "Total number of price index lookups",
		},
		[]string{"source", "status"},
	)
)

func InitMetrics() {
	// Регистрация HTTP метрик
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)
	prometheus.MustRegister(HTTPRateLimited)

	prometheus.MustRegister(StoreQueriesTotal)
	prometheus.MustRegister(StoreQueryDuration)
	prometheus.MustRegister(OutstandingOrders)

	prometheus.MustRegister(PriceIndexLookups)
}
