package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы проверки сессии (лейбл result).
const (
	resultAuthenticated = "authenticated"
	resultAnonymous     = "anonymous"
	resultError         = "error"
)

// sessionChecksTotal — количество Refresh по исходу.
var sessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ta_session_checks_total",
		Help: "Количество проверок сессии через /api/auth/me",
	},
	[]string{"result"},
)
