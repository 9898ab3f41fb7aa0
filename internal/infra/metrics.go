// README: Prometheus collectors shared by the HTTP layer and the pricing/FX modules.
package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourquote_calculations_total",
		Help: "Price calculations by outcome.",
	}, []string{"outcome"})

	CalculationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tourquote_calculation_seconds",
		Help:    "Wall time of a price calculation including catalog reads and FX conversion.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	FXRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourquote_fx_refresh_total",
		Help: "Exchange rate refresh attempts by result.",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourquote_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
)
