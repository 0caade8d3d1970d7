package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PredictionsTotal counts prediction requests by product group and outcome.
var PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auction_pricer_predictions_total",
	Help: "Prediction requests by product group and status.",
}, []string{"product_group", "status"})

// PredictionDuration tracks end-to-end prediction latency.
var PredictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "auction_pricer_prediction_duration_seconds",
	Help:    "End-to-end prediction latency.",
	Buckets: prometheus.DefBuckets,
})

// MarketFallbacks counts market price fetches that resolved to the
// constant fallback series.
var MarketFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "auction_pricer_market_fallback_total",
	Help: "Market price loads that fell back to constant default prices.",
})

// MarketCacheHits counts live price windows served from the in-process cache.
var MarketCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "auction_pricer_market_cache_hits_total",
	Help: "Live market price windows served from cache.",
})

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
