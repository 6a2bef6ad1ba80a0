// metrics.go — Prometheus метрики вызовов бэкенда.
package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы вызова бэкенда (лейбл outcome).
const (
	outcomeOK        = "ok"
	outcomeStatus    = "status_error"
	outcomeTransport = "transport_error"
	outcomeMalformed = "malformed"
)

var (
	// backendRequestsTotal — количество вызовов бэкенда по операции и исходу.
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_backend_requests_total",
			Help: "Общее количество запросов tienda-admin к REST-бэкенду",
		},
		[]string{"op", "outcome"},
	)

	// backendRequestDuration — длительность вызовов бэкенда.
	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ta_backend_request_duration_seconds",
			Help:    "Длительность запросов к REST-бэкенду в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// observeBackendCall записывает исход и длительность вызова.
func observeBackendCall(op, outcome string, start time.Time) {
	backendRequestsTotal.WithLabelValues(op, outcome).Inc()
	backendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// countMalformed отмечает ответ 2xx, который не удалось разобрать.
func countMalformed(op string) {
	backendRequestsTotal.WithLabelValues(op, outcomeMalformed).Inc()
}
