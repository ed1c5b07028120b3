// Package metrics expone métricas Prometheus del API y del libro de stock.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registry propio con los colectores HTTP y del libro.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
	opDuration      *prometheus.HistogramVec
	lockWait        prometheus.Histogram
}

// New inicializa el registry y registra los colectores.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_ledger_http_requests_total",
		Help: "Peticiones HTTP por ruta, método y status.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_ledger_http_request_duration_seconds",
		Help:    "Duración de peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_ledger_operations_total",
		Help: "Operaciones del libro de stock por tipo y resultado.",
	}, []string{"op", "outcome"})
	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_ledger_operation_duration_seconds",
		Help:    "Duración de operaciones del libro (incluye reintentos).",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	lockWait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_ledger_lock_wait_seconds",
		Help:    "Espera para adquirir las claves (artículo, punto) de una operación.",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	})
	registry.MustRegister(requests, duration, operations, opDuration, lockWait)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		operations:      operations,
		opDuration:      opDuration,
		lockWait:        lockWait,
	}
}

// Handler devuelve el http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer expone el registry para colectores adicionales.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.registry
}

// ObserveOperation registra el resultado de una operación del libro.
func (m *Metrics) ObserveOperation(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	if elapsed > 0 {
		m.opDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

// ObserveLockWait registra la espera por claves.
func (m *Metrics) ObserveLockWait(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(elapsed.Seconds())
}

// Middleware registra cada petición HTTP con el patrón de ruta de Fiber.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
