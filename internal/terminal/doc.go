// Package terminal provides interactive PTY-backed shell sessions.
//
// Each session allocates a pseudo-terminal pair, spawns a shell attached to
// the slave side in its own process group, and mediates all I/O through two
// background loops: a reader that polls the non-blocking master device and
// publishes output events, and a writer that drains queued input and forwards
// it to the device.
//
// Architecture:
//   - Registry owns the id → Session map under a single mutex
//   - Session composes the device handle, the child process, and two
//     unbounded FIFO queues (output events out, input text in)
//   - Loops never raise into the caller; failures surface through the
//     terminal Closed event and IsAlive
//
// Lifecycle:
//
//	Create → Running (loops started) → Stopping (Cleanup begins) → Terminated
//
// Cleanup is idempotent and joins both loops with a bounded timeout, so a
// destroyed session never leaks a goroutine, a file descriptor, or a child
// process.
//
// Example Usage:
//
//	reg := terminal.NewRegistry(cfg.Terminal, logger, metrics)
//	defer reg.CloseAll()
//
//	sess, err := reg.Create("build", terminal.Options{WorkingDir: "/src"})
//	sess.WriteInput([]byte("make test\n"))
//	for {
//	    ev, ok := sess.PollOutput()
//	    ...
//	}
package terminal
