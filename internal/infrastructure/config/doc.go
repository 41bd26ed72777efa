// Package config provides 12-factor configuration management for TermHub.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Terminal: shell binary, TERM value, loop intervals, teardown timeouts
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	reg := terminal.NewRegistry(cfg.Terminal, logger, metrics)
//
// Environment Variables:
//   - TERMINAL_SHELL, TERMINAL_TERM, TERMINAL_POLL_INTERVAL
//   - TERMINAL_WRITE_WAIT, TERMINAL_READ_BUFFER
//   - TERMINAL_STOP_GRACE, TERMINAL_JOIN_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
package config
