package metrics

import (
	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsdesk_orders_created_total",
		Help: "Total number of orders taken in.",
	})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsdesk_status_transitions_total",
		Help: "Status changes applied to orders, by target status.",
	},
		[]string{"to"},
	)

	CourierAssignmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "opsdesk_courier_assignments_total",
		Help: "Total number of courier assignments.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsdesk_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OrdersByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "opsdesk_orders",
		Help: "Current number of orders per status.",
	},
		[]string{"status"},
	)

	LateOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "opsdesk_late_orders",
		Help: "Undelivered orders past their estimated delivery.",
	})

	AtRiskOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "opsdesk_at_risk_orders",
		Help: "Undelivered orders inside the at-risk window.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opsdesk_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opsdesk_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)
)

// Recorder returns a store subscriber that keeps the counters and the
// per-status gauge in step with the state.
func Recorder() store.Subscriber {
	return func(change store.Change, s store.State) {
		switch change.Kind {
		case store.ChangeOrderAdded:
			OrdersCreatedTotal.Inc()
		case store.ChangeStatusUpdated:
			StatusTransitionsTotal.WithLabelValues(change.To.String()).Inc()
		case store.ChangeCourierAssign:
			CourierAssignmentsTotal.Inc()
			StatusTransitionsTotal.WithLabelValues(models.StatusAssigned.String()).Inc()
		default:
			return
		}
		ObserveStatuses(s)
	}
}

// ObserveStatuses sets the per-status gauge from s.
func ObserveStatuses(s store.State) {
	for status, n := range store.CountByStatus(s.Orders) {
		OrdersByStatus.WithLabelValues(status.String()).Set(float64(n))
	}
}

// SaveFailed counts a snapshot write that did not go through.
func SaveFailed(error) {
	OperationErrorsTotal.WithLabelValues("snapshot_save").Inc()
}
