// Package metrics exposes the terminal's Prometheus collectors.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics carries the HTTP and checkout collectors. Checkout outcomes
// are labeled by terminal state so offline-queue growth is visible before the
// sync backlog becomes a problem.
type TerminalMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	checkoutOutcomes *prometheus.CounterVec
}

func NewTerminalMetrics() *TerminalMetrics {
	return newTerminalMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newTerminalMetricsWithRegisterer(registerer prometheus.Registerer) *TerminalMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &TerminalMetrics{
		requestsTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pdv_http_requests_total",
			Help: "Total number of HTTP requests handled",
		}, []string{"method", "path", "status"}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "pdv_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		checkoutOutcomes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pdv_checkout_outcomes_total",
			Help: "Total number of finalized checkouts by terminal state",
		}, []string{"state"}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// Middleware records request count and duration. The route template is used
// as the path label to keep cardinality bounded.
func (m *TerminalMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *TerminalMetrics) RecordCheckout(state string) {
	m.checkoutOutcomes.WithLabelValues(state).Inc()
}
