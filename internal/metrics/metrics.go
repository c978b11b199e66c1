// Package metrics exposes Prometheus collectors for the scholar service.
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
	searchesTotal              prometheus.Counter
	resultPagesTotal           *prometheus.CounterVec
	papersExtractedTotal       prometheus.Counter
	pdfDownloadsTotal          *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		searchesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scholar_searches_total",
				Help: "Total number of search requests served.",
			},
		)

		resultPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scholar_result_pages_total",
				Help: "Total result pages fetched, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		papersExtractedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scholar_papers_extracted_total",
				Help: "Total paper records extracted from result pages.",
			},
		)

		pdfDownloadsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scholar_pdf_downloads_total",
				Help: "Total PDF download attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSearch counts one served search.
func ObserveSearch() {
	Init()
	searchesTotal.Inc()
}

// ObserveResultPage counts one result-page fetch with its outcome.
func ObserveResultPage(outcome string) {
	Init()
	resultPagesTotal.WithLabelValues(outcome).Inc()
}

// ObservePapersExtracted adds to the extracted-record counter.
func ObservePapersExtracted(n int) {
	Init()
	papersExtractedTotal.Add(float64(n))
}

// ObservePDFDownload counts one PDF download attempt with its outcome.
func ObservePDFDownload(outcome string) {
	Init()
	pdfDownloadsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
