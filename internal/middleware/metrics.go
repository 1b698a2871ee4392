package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation name. It is
// incremented by the cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pauller_redis_error_rate_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// AuthFailures counts rejected requests by failure kind, which keeps the
// malformed/expired/bad-signature distinction observable without exposing it
// to clients.
var AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pauller_auth_failures_total",
	Help: "Total number of rejected authentication or authorization attempts",
}, []string{"kind"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware registers the Prometheus middleware on the app and
// exposes the scrape endpoint at /metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus, app *fiber.App) fiber.Handler {
	prom.RegisterAt(app, "/metrics")
	return prom.Middleware
}
