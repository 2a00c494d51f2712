package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the front-office counters. All observe helpers are nil-safe
// so wiring them is optional in tests.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	accessDenied  *prometheus.CounterVec
	slotConflicts prometheus.Counter
	auditFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "access",
			Name:      "denied_total",
			Help:      "Access-policy denials by action and reason",
		}, []string{"action", "reason"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "scheduling",
			Name:      "slot_conflicts_total",
			Help:      "Bookings rejected because the slot was already held",
		}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "audit",
			Name:      "write_failures_total",
			Help:      "Audit entries dropped because the write failed",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.accessDenied, m.slotConflicts, m.auditFailures)
	return m
}

func (m *Metrics) ObserveRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) ObserveAccessDenied(action, reason string) {
	if m == nil {
		return
	}
	m.accessDenied.WithLabelValues(action, reason).Inc()
}

func (m *Metrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}
