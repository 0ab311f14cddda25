// Package metrics exposes Prometheus counters for HTTP traffic, sign-ins
// and listing changes.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector methods are no-ops on a nil receiver.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	signIns        *prometheus.CounterVec
	listingChanges *prometheus.CounterVec
}

// NewCollector registers the collector's metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "immoportal_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "immoportal_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "immoportal_signins_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		listingChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "immoportal_listing_changes_total",
			Help: "Listing writes by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(c.requests, c.latency, c.signIns, c.listingChanges)
	return c
}

func (c *Collector) RecordSignIn(ok bool) {
	if c == nil {
		return
	}
	if ok {
		c.signIns.WithLabelValues("success").Inc()
		return
	}
	c.signIns.WithLabelValues("failure").Inc()
}

// RecordListingChange counts a listing create, update or delete.
func (c *Collector) RecordListingChange(op string) {
	if c == nil {
		return
	}
	c.listingChanges.WithLabelValues(op).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern, so ids in paths do not explode label cardinality.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := ctx.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}
		c.requests.WithLabelValues(ctx.Method(), route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// ListingGauge reports the cached listing count per status at scrape time.
type ListingGauge struct {
	desc  *prometheus.Desc
	count func() map[string]int
}

func NewListingGauge(count func() map[string]int) *ListingGauge {
	return &ListingGauge{
		desc: prometheus.NewDesc("immoportal_listings",
			"Listings currently published, by status.", []string{"status"}, nil),
		count: count,
	}
}

func (g *ListingGauge) Describe(ch chan<- *prometheus.Desc) { ch <- g.desc }

func (g *ListingGauge) Collect(ch chan<- prometheus.Metric) {
	for status, n := range g.count() {
		ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, float64(n), status)
	}
}
