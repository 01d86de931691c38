package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the authorization gate.
type Metrics struct {
	ApprovalsRequested   prometheus.Counter
	ApprovalsConfirmed   prometheus.Counter
	ApprovalsRejected    *prometheus.CounterVec
	NotificationFailures prometheus.Counter
	StatusPolls          *prometheus.CounterVec
	SessionsIssued       prometheus.Counter
	GatekeeperDenials    *prometheus.CounterVec
	RequestApprovalMs    prometheus.Histogram
	CheckStatusMs        prometheus.Histogram
}

// New registers and returns the gate's metrics collectors.
func New() *Metrics {
	return &Metrics{
		ApprovalsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_approvals_requested_total",
			Help: "Total number of approval requests issued to the administrator",
		}),
		ApprovalsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_approvals_confirmed_total",
			Help: "Total number of approval links confirmed by the administrator",
		}),
		ApprovalsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_approvals_rejected_total",
			Help: "Total number of approval links rejected, by reason",
		}, []string{"reason"}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_notification_failures_total",
			Help: "Total number of administrator notification delivery failures",
		}),
		StatusPolls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_status_polls_total",
			Help: "Total number of authorization status polls, by outcome",
		}, []string{"outcome"}),
		SessionsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medgate_sessions_issued_total",
			Help: "Total number of session credentials minted",
		}),
		GatekeeperDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medgate_gatekeeper_denials_total",
			Help: "Total number of protected-path denials, by status",
		}, []string{"status"}),
		RequestApprovalMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medgate_request_approval_duration_ms",
			Help:    "Duration of approval request issuance in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		CheckStatusMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medgate_check_status_duration_ms",
			Help:    "Duration of authorization status checks in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

func (m *Metrics) IncrementApprovalsRequested() {
	m.ApprovalsRequested.Inc()
}

func (m *Metrics) IncrementApprovalsConfirmed() {
	m.ApprovalsConfirmed.Inc()
}

func (m *Metrics) IncrementApprovalsRejected(reason string) {
	m.ApprovalsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementNotificationFailures() {
	m.NotificationFailures.Inc()
}

func (m *Metrics) IncrementStatusPolls(outcome string) {
	m.StatusPolls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementSessionsIssued() {
	m.SessionsIssued.Inc()
}

func (m *Metrics) IncrementGatekeeperDenials(status string) {
	m.GatekeeperDenials.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRequestApprovalDuration(durationMs float64) {
	m.RequestApprovalMs.Observe(durationMs)
}

func (m *Metrics) ObserveCheckStatusDuration(durationMs float64) {
	m.CheckStatusMs.Observe(durationMs)
}
