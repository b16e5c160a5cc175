package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("SELECT", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0)
		m.ReminderRun("ok")
		m.ReminderProcessed("customer", 0, "sent")
		m.BookingTransition("start", "ok")
		m.LedgerTransaction("cash", "success")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ReminderProcessed("customer", 5, "sent")
	m.ReminderProcessed("customer", 5, "sent")
	m.ObserveDBQuery("INSERT", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RemindersProcessed.WithLabelValues("customer", "5", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("INSERT")))
}
