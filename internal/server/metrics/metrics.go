// Package metrics collects Prometheus metrics for the HTTP surface and the
// stores behind it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers and middleware report to.
type Recorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
	RecordLogin(result string)
	RecordRecipeStored()
	RecordRecipeDeleted()
}

// Login results.
const (
	LoginOK          = "ok"
	LoginRejected    = "rejected"
	LoginRateLimited = "rate_limited"
)

type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	logins         *prometheus.CounterVec
	recipesStored  prometheus.Counter
	recipesDeleted prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebook_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipebook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebook_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		recipesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebook_recipes_stored_total",
			Help: "Recipes successfully stored.",
		}),
		recipesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebook_recipes_deleted_total",
			Help: "Recipes successfully deleted.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.logins,
		c.recipesStored,
		c.recipesDeleted,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRecipeStored() {
	c.recipesStored.Inc()
}

func (c *Collector) RecordRecipeDeleted() {
	c.recipesDeleted.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordLogin(string)                               {}
func (Nop) RecordRecipeStored()                              {}
func (Nop) RecordRecipeDeleted()                             {}
