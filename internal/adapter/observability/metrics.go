package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route", "method"},
	)

	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Total number of oracle calls by outcome",
		},
		[]string{"outcome"},
	)
	OracleRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oracle_request_duration_seconds",
			Help:    "Oracle call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)
	OracleFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_fallback_total",
			Help: "Requests degraded to lexical scoring after an oracle failure",
		},
	)
	LenientFillTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_lenient_fill_total",
			Help: "Candidates filled with a default evaluation because the oracle skipped them",
		},
	)

	MatchCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "match_cache_hits_total",
			Help: "Match requests served from the result cache",
		},
	)
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of returned match scores ([0,1])",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
)

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(OracleRequestsTotal)
	prometheus.MustRegister(OracleRequestDuration)
	prometheus.MustRegister(OracleFallbackTotal)
	prometheus.MustRegister(LenientFillTotal)
	prometheus.MustRegister(MatchCacheHitsTotal)
	prometheus.MustRegister(MatchScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// OracleFallback counts a request degraded to lexical scoring.
func OracleFallback() { OracleFallbackTotal.Inc() }

// LenientFill counts a candidate filled with a default evaluation.
func LenientFill() { LenientFillTotal.Inc() }

// MatchCacheHit counts a match request served from cache.
func MatchCacheHit() { MatchCacheHitsTotal.Inc() }

// ObserveMatchScore records one returned match score.
func ObserveMatchScore(score float64) {
	if score >= 0 && score <= 1 {
		MatchScoreHistogram.Observe(score)
	}
}

// ObserveOracleCall records the outcome and duration of one oracle call.
func ObserveOracleCall(outcome string, dur time.Duration) {
	OracleRequestsTotal.WithLabelValues(outcome).Inc()
	OracleRequestDuration.Observe(dur.Seconds())
}
