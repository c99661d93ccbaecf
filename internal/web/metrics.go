package web

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests     *prometheus.CounterVec   //nolint:gochecknoglobals
	durations    *prometheus.HistogramVec //nolint:gochecknoglobals
	requestsOnce sync.Once                //nolint:gochecknoglobals
)

func registerMetrics() {
	requestsOnce.Do(func() {
		requests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of HTTP requests by route, method and status.",
			},
			[]string{"method", "route", "status"},
		)
		durations = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by route and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
	})
}

// Metrics counts requests per route pattern. Every 404 shares the
// "unmatched" route label to bound the label set.
func Metrics(skip ...string) fiber.Handler {
	registerMetrics()

	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skipped[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError

			if ferr, ok := err.(*fiber.Error); ok { //nolint:errorlint
				status = ferr.Code
			}
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}

		requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		durations.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}
