// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("session started", zap.String("session_id", sessionID))
//	logger.Warn("write failed", zap.Error(err))
//
// Session loops take a *Logger and attach their session id once via With,
// so every line they emit carries the owning session's identity.
package logging
