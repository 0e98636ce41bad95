package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/v1/consoles", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/consoles", 200, 20*time.Millisecond)
	m.ObserveQuery("select", time.Millisecond, errors.New("boom"))
	m.IncRentalEvent("request_approved")
	m.IncJobRun("reconcile_consoles", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/consoles", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RentalEvents.WithLabelValues("request_approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("reconcile_consoles", "failed")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.ObserveQuery("select", time.Second, nil)
		m.IncRentalEvent("rental_ended")
		m.IncJobRun("job", true)
	})
}
