// Package main is the entry point for the termhub attach client.
//
// termhub creates one PTY-backed shell session through the terminal
// registry and attaches the invoking terminal to it: local keystrokes are
// forwarded into the session's input queue, session output events are
// written to stdout. It is a local consumer of the session control surface;
// remote streaming belongs to a separate transport layer.
//
// Usage:
//
//	# Attach a shell in the current directory
//	termhub -cwd "$PWD"
//
//	# Login shell with a custom prompt
//	termhub -login -prompt '[hub] \w $ '
//
//	# Development mode (colored logs, debug level)
//	termhub -dev
//
// Keys:
//   - Ctrl-Q: detach and tear the session down
//
// Signals:
//   - SIGWINCH: propagated to the session's process group
//   - SIGINT, SIGTERM: graceful shutdown of the registry
package main
