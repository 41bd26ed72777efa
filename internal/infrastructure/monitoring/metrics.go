package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the terminal subsystem.
// A nil *Metrics is valid and records nothing, so callers never have to
// guard their instrumentation sites.
type Metrics struct {
	// Session lifecycle
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SpawnFailures   prometheus.Counter

	// Device I/O
	BytesRead    prometheus.Counter
	BytesWritten prometheus.Counter
	ReadErrors   prometheus.Counter
	WriteErrors  prometheus.Counter

	// Control operations
	SignalsSent *prometheus.CounterVec
	Resizes     prometheus.Counter
}

// NewMetrics creates a metrics collector registered on reg.
// A nil registerer uses the process-wide default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termhub_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_sessions_created_total",
				Help: "Total number of terminal sessions created",
			},
		),
		SpawnFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_spawn_failures_total",
				Help: "Total number of failed session spawns",
			},
		),
		BytesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_pty_read_bytes_total",
				Help: "Total bytes read from PTY masters",
			},
		),
		BytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_pty_written_bytes_total",
				Help: "Total bytes written to PTY masters",
			},
		),
		ReadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_pty_read_errors_total",
				Help: "Total PTY read failures, transient and fatal",
			},
		),
		WriteErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_pty_write_errors_total",
				Help: "Total PTY write failures",
			},
		),
		SignalsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termhub_signals_sent_total",
				Help: "Signals delivered to session process groups",
			},
			[]string{"signal"},
		),
		Resizes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termhub_resizes_total",
				Help: "Total window size changes applied",
			},
		),
	}
}

// RecordSessionStart records a successful spawn.
func (m *Metrics) RecordSessionStart() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a completed teardown.
func (m *Metrics) RecordSessionEnd() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// RecordSpawnFailure records a failed spawn.
func (m *Metrics) RecordSpawnFailure() {
	if m == nil {
		return
	}
	m.SpawnFailures.Inc()
}

// RecordRead records bytes read from a master device.
func (m *Metrics) RecordRead(n int) {
	if m == nil {
		return
	}
	m.BytesRead.Add(float64(n))
}

// RecordWrite records bytes written to a master device.
func (m *Metrics) RecordWrite(n int) {
	if m == nil {
		return
	}
	m.BytesWritten.Add(float64(n))
}

// RecordReadError records a PTY read failure.
func (m *Metrics) RecordReadError() {
	if m == nil {
		return
	}
	m.ReadErrors.Inc()
}

// RecordWriteError records a PTY write failure.
func (m *Metrics) RecordWriteError() {
	if m == nil {
		return
	}
	m.WriteErrors.Inc()
}

// RecordSignal records a signal delivered to a process group.
func (m *Metrics) RecordSignal(signal string) {
	if m == nil {
		return
	}
	m.SignalsSent.WithLabelValues(signal).Inc()
}

// RecordResize records a window size change.
func (m *Metrics) RecordResize() {
	if m == nil {
		return
	}
	m.Resizes.Inc()
}
