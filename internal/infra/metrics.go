package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide collectors, served at /metrics.
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alambrados_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alambrados_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	VentasConfirmadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alambrados_ventas_total",
		Help: "Confirmed sales by delivery type.",
	}, []string{"entrega"})

	VentasMonto = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alambrados_ventas_monto_pesos_total",
		Help: "Sum of confirmed sale totals.",
	}, []string{"entrega"})

	Advertencias = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alambrados_advertencias_total",
		Help: "Stock advisories raised by ledger operations.",
	}, []string{"tipo"})

	LotesFinalizados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alambrados_lotes_finalizados_total",
		Help: "Production batches moved into stock.",
	})

	LedgerLockEspera = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alambrados_ledger_lock_wait_seconds",
		Help:    "Time spent waiting for the catalog write lock.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})

	JobsProcesados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alambrados_jobs_total",
		Help: "Background jobs by type and result.",
	}, []string{"tipo", "resultado"})
)
