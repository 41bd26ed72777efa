package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycleMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSessionStart()
	m.RecordSessionStart()
	m.RecordSessionEnd()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsCreated))

	m.RecordSpawnFailure()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpawnFailures))
}

func TestIOMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRead(100)
	m.RecordRead(28)
	m.RecordWrite(7)
	m.RecordReadError()
	m.RecordWriteError()

	assert.Equal(t, 128.0, testutil.ToFloat64(m.BytesRead))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.BytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteErrors))
}

func TestControlMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSignal("SIGWINCH")
	m.RecordSignal("SIGWINCH")
	m.RecordResize()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SignalsSent.WithLabelValues("SIGWINCH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resizes))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	// All record helpers tolerate a nil receiver.
	m.RecordSessionStart()
	m.RecordSessionEnd()
	m.RecordSpawnFailure()
	m.RecordRead(1)
	m.RecordWrite(1)
	m.RecordReadError()
	m.RecordWriteError()
	m.RecordSignal("SIGTERM")
	m.RecordResize()
}
