package middleware

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "vidora"

type httpMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
	payload  *prometheus.HistogramVec
}

var apiMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template, method and status class.",
		}, []string{"route", "method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   []float64{.002, .01, .05, .1, .25, .5, 1, 3, 10},
		}, []string{"route", "method"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "in_flight",
			Help:      "Requests currently being served.",
		}),
		payload: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "response_bytes",
			Help:      "Response body size.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"route"}),
	}
}

func (m *httpMetrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()
		t0 := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status()/100) + "xx"
		m.requests.WithLabelValues(route, c.Request.Method, code).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(t0).Seconds())
		m.payload.WithLabelValues(route).Observe(float64(c.Writer.Size()))
	}
}

// Metrics records request counts, latency and response size per route template
func Metrics() gin.HandlerFunc {
	return apiMetrics.handler()
}

// RegisterDBStats exports sql.DB pool statistics. Registering the same
// database twice is not an error.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		return nil
	}
	return err
}
