// Package metrics exposes Prometheus collectors for the shortener service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	shortURLsCreatedTotal      *prometheus.CounterVec
	redirectsTotal             *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors. It is safe to call more than once.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortener_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shortener_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		)

		shortURLsCreatedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortener_short_urls_created_total",
				Help: "Total number of short URLs created, labeled by owner kind.",
			},
			[]string{"owner"},
		)

		redirectsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortener_redirects_total",
				Help: "Total number of redirect lookups, labeled by result.",
			},
			[]string{"result"},
		)
	})
}

// Handler returns an http.Handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveShortURLCreated counts a new link. authenticated tells owned links from anonymous ones.
func ObserveShortURLCreated(authenticated bool) {
	Init()
	owner := "anonymous"
	if authenticated {
		owner = "user"
	}
	shortURLsCreatedTotal.WithLabelValues(owner).Inc()
}

// ObserveRedirect counts a redirect lookup as "hit" or "miss".
func ObserveRedirect(found bool) {
	Init()
	result := "miss"
	if found {
		result = "hit"
	}
	redirectsTotal.WithLabelValues(result).Inc()
}
