package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const RequestIDHeader = "X-Request-ID"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_client_http_requests_total",
			Help: "Total number of outgoing HTTP requests to the storefront API",
		},
		[]string{"method", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_client_http_request_duration_seconds",
			Help:    "Duration of outgoing HTTP requests to the storefront API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "code"},
	)

	inFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_client_http_in_flight_requests",
			Help: "Outgoing HTTP requests currently awaiting a response",
		},
	)

	serverRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_mock_http_requests_total",
			Help: "Total number of HTTP requests served by the mock backend",
		},
		[]string{"method", "path", "status"},
	)

	serverRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_mock_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the mock backend",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "path", "status"},
	)

	pageActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_page_actions_total",
			Help: "Total number of user actions handled by page controllers",
		},
		[]string{"action", "status"},
	)

	sliceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_slice_operations_total",
			Help: "Total number of state slice operations by outcome",
		},
		[]string{"slice", "operation", "outcome"},
	)
)

// Outcomes recorded for slice operations.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
	OutcomeMiss       = "miss"
)

// InstrumentTransport wraps next with request ids and Prometheus metrics.
// A nil next means http.DefaultTransport.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	var rt http.RoundTripper = requestID(next)
	rt = promhttp.InstrumentRoundTripperDuration(httpRequestDuration, rt)
	rt = promhttp.InstrumentRoundTripperCounter(httpRequestsTotal, rt)
	rt = promhttp.InstrumentRoundTripperInFlight(inFlightRequests, rt)
	return rt
}

func requestID(next http.RoundTripper) http.RoundTripper {
	return promhttp.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}
		r = r.Clone(r.Context())
		r.Header.Set(RequestIDHeader, uuid.NewString())
		return next.RoundTrip(r)
	})
}

// RecordPageAction counts one user action by whether it succeeded.
func RecordPageAction(action string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	pageActions.WithLabelValues(action, status).Inc()
}

// RecordSliceOperation counts one slice operation by outcome.
func RecordSliceOperation(slice, operation, outcome string) {
	sliceOperations.WithLabelValues(slice, operation, outcome).Inc()
}

// PrometheusMiddleware records request counts and latency for the mock
// backend, labelled by route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		serverRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		serverRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
