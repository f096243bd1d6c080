package metrics

import (
	"github.com/penglongli/gin-metrics/ginmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "student_service"

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Teacher register, login, refresh and me calls by outcome.",
	}, []string{"operation", "outcome"})

	studentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "student_operations_total",
		Help:      "Student store operations by outcome.",
	}, []string{"operation", "outcome"})
)

// ObserveAuth counts one authentication call.
func ObserveAuth(operation, outcome string) {
	authAttempts.WithLabelValues(operation, outcome).Inc()
}

// ObserveStudent counts one student operation.
func ObserveStudent(operation, outcome string) {
	studentOperations.WithLabelValues(operation, outcome).Inc()
}

// GetMonitor configures the per-route request metrics served on path.
func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	m.SetMetricPath(path)
	m.SetSlowTime(1)
	// request duration buckets, used for p95 and p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})
	return m
}
