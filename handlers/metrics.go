package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_delivery_orders_created_total",
		Help: "The total number of orders created",
	})

	deliveriesClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_delivery_deliveries_claimed_total",
		Help: "The total number of orders claimed by riders",
	})

	activeRiders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "food_delivery_active_riders",
		Help: "The number of riders with an open location stream",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "food_delivery_request_duration_seconds",
		Help:    "Time spent handling HTTP requests",
		Buckets: prometheus.DefBuckets,
	})
)

func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		requestDuration.Observe(time.Since(start).Seconds())
		return err
	}
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
