package middleware

import (
	"glowup/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glowup_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// ProcedureCalls counts RPC procedure invocations by procedure and result code.
	ProcedureCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glowup_procedure_calls_total",
		Help: "Total number of RPC procedure calls",
	}, []string{"procedure", "code"})
)

// InitMetrics builds the Prometheus HTTP middleware for the service on a
// fresh registry that also carries the application collectors.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(RedisErrors, ProcedureCalls)
	reg.MustRegister(observability.Collectors()...)
	return fiberprometheus.NewWithRegistry(reg, serviceName, "http", "", nil)
}

// MetricsMiddleware records request metrics through prom.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
