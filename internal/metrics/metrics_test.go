package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("POST", "/appointments", "201")
	m.ObserveRequest("POST", "/appointments", "201")
	m.ObserveAccessDenied("create:doctor", "role")
	m.ObserveSlotConflict()
	m.ObserveAuditFailure()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/appointments", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.accessDenied.WithLabelValues("create:doctor", "role")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.slotConflicts))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.auditFailures))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/patients", "200")
	m.ObserveAccessDenied("read:audit", "role")
	m.ObserveSlotConflict()
	m.ObserveAuditFailure()
}
