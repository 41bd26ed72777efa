/*
Package monitoring provides Prometheus metrics for the terminal subsystem.

# Overview

This package tracks session lifecycle, device I/O volume, and control
operations for every PTY session the registry owns.

# Features

- Session lifecycle metrics (active gauge, created/spawn-failure counters)
- Device I/O metrics (bytes read/written, read/write errors)
- Control operation metrics (signals by name, resizes)

# Usage

	// Create metrics collector on the default registry
	metrics := monitoring.NewMetrics(nil)

	// Instrument sites call nil-safe record helpers
	metrics.RecordSessionStart()
	metrics.RecordRead(n)

A nil *Metrics disables collection entirely, which keeps tests and small
tools free of global registry collisions: pass prometheus.NewRegistry()
to NewMetrics when isolation is needed.
*/
package monitoring
