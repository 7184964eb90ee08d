package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets/:id", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/tickets/:id", "GET", 200, 30*time.Millisecond)
	m.RecordError("/tickets/:id", "GET", "NOT_FOUND")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/tickets/:id|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMillis["/tickets/:id|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/tickets/:id|GET|NOT_FOUND"])

	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	assert.NotContains(t, snap.Requests, "/tickets|GET|200", "snapshot is a copy")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
