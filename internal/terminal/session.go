package terminal

import (
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/GriffinCanCode/TermHub/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermHub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermHub/internal/logging"
	"github.com/creack/pty"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Session is one PTY-backed shell with its two I/O loops.
//
// Exactly one reader and one writer goroutine exist for the session's
// lifetime. The master handle is closed exactly once, by Cleanup, after the
// running flag has dropped.
type Session struct {
	ID        string
	StartedAt time.Time

	cfg     config.TerminalConfig
	dev     *device
	log     *logging.Logger
	metrics *monitoring.Metrics
	echo    *EchoController

	output *queue[OutputEvent]
	input  *queue[inputEvent]

	running      atomic.Bool
	masterClosed atomic.Bool
	exited       chan struct{} // closed by waitChild once the child is reaped
	loops        sync.WaitGroup
	cleanupOnce  sync.Once
}

// newSession launches the device and starts both loops. On spawn failure
// nothing is left behind: no process, no handles, no goroutines.
func newSession(sessionID string, opts Options, cfg config.TerminalConfig, log *logging.Logger, metrics *monitoring.Metrics) (*Session, error) {
	dev, err := newLauncher(cfg, log).launch(opts)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        sessionID,
		StartedAt: time.Now(),
		cfg:       cfg,
		dev:       dev,
		log:       log.With(zap.String("session_id", sessionID)),
		metrics:   metrics,
		echo:      NewEchoController(log),
		output:    newQueue[OutputEvent](),
		input:     newQueue[inputEvent](),
		exited:    make(chan struct{}),
	}
	s.running.Store(true)

	s.loops.Add(2)
	go s.readLoop()
	go s.writeLoop()
	go s.waitChild()

	s.log.Info("session started",
		zap.String("shell", dev.shell),
		zap.String("working_dir", dev.workingDir),
		zap.Int("pid", dev.cmd.Process.Pid))
	return s, nil
}

// waitChild reaps the child process and publishes its exit.
func (s *Session) waitChild() {
	s.dev.cmd.Wait()
	close(s.exited)
}

// WriteInput enqueues text for the writer loop. It returns false only when
// the session is not running and never blocks on the bytes reaching the
// process.
func (s *Session) WriteInput(data []byte) bool {
	if !s.running.Load() {
		return false
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.input.push(inputEvent{data: buf})
	return true
}

// PollOutput is a non-blocking poll of the output queue.
func (s *Session) PollOutput() (OutputEvent, bool) {
	return s.output.tryPop()
}

// WaitOutput waits up to d for the next output event. Convenience for
// consumers that would otherwise spin on PollOutput.
func (s *Session) WaitOutput(d time.Duration) (OutputEvent, bool) {
	return s.output.popWait(d)
}

// Resize pushes the new geometry into the kernel's PTY state and notifies
// the whole process group so full-screen programs redraw.
func (s *Session) Resize(rows, cols int) bool {
	if !s.running.Load() {
		return false
	}

	err := pty.Setsize(s.dev.master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		s.log.Warn("resize failed", zap.Int("rows", rows), zap.Int("cols", cols), zap.Error(err))
		return false
	}
	s.dev.setSize(cols, rows)

	if err := unix.Kill(-s.dev.pgid, unix.SIGWINCH); err != nil && err != unix.ESRCH {
		s.log.Warn("SIGWINCH delivery failed", zap.Error(err))
	}
	s.metrics.RecordResize()
	return true
}

// Signal delivers sig to the entire process group, so children spawned by
// the shell receive it too.
func (s *Session) Signal(sig syscall.Signal) bool {
	if !s.running.Load() {
		return false
	}
	if err := unix.Kill(-s.dev.pgid, sig); err != nil {
		s.log.Warn("signal delivery failed", zap.String("signal", sig.String()), zap.Error(err))
		return false
	}
	s.metrics.RecordSignal(unix.SignalName(sig))
	return true
}

// SetEcho toggles terminal echo on the live master handle. Usable at any
// point while running, e.g. to silence echo around a secret.
func (s *Session) SetEcho(enabled bool) bool {
	if !s.running.Load() {
		return false
	}
	return s.echo.SetEcho(s.dev.master, enabled)
}

// IsAlive reports whether the session is fully usable: running flag up,
// child not exited, master handle open. Once false it never reverts.
func (s *Session) IsAlive() bool {
	if !s.running.Load() || s.masterClosed.Load() {
		return false
	}
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// Info returns a metadata snapshot.
func (s *Session) Info() Info {
	cols, rows := s.dev.size()
	return Info{
		ID:         s.ID,
		Shell:      s.dev.shell,
		WorkingDir: s.dev.workingDir,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  s.StartedAt,
		Alive:      s.IsAlive(),
	}
}

// Cleanup tears the session down. Idempotent and safe to call from any
// goroutine; the first call does the work, later calls return immediately.
func (s *Session) Cleanup() {
	s.cleanupOnce.Do(s.teardown)
}

// teardown ordering matters: drop the flag so both loops can observe it,
// unblock the writer with the shutdown sentinel, close the device, stop the
// process group, then join the loops with a bounded wait.
func (s *Session) teardown() {
	s.running.Store(false)
	s.input.push(inputEvent{shutdown: true})

	s.masterClosed.Store(true)
	if err := s.dev.master.Close(); err != nil {
		s.log.Warn("master close failed", zap.Error(err))
	}

	if !s.waitExited(0) {
		if err := unix.Kill(-s.dev.pgid, unix.SIGTERM); err != nil && err != unix.ESRCH {
			s.log.Warn("SIGTERM delivery failed", zap.Error(err))
		}
		if !s.waitExited(s.cfg.StopGrace) {
			// Escalate exactly once.
			if err := unix.Kill(-s.dev.pgid, unix.SIGKILL); err != nil && err != unix.ESRCH {
				s.log.Warn("SIGKILL delivery failed", zap.Error(err))
			}
			if !s.waitExited(s.cfg.StopGrace) {
				s.log.Error("child survived SIGKILL", zap.Int("pgid", s.dev.pgid))
			}
		}
	}

	// Both loops must actually exit; relying on the flag alone would leak a
	// goroutine per destroyed session.
	done := make(chan struct{})
	go func() {
		s.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.cfg.JoinTimeout):
		s.log.Error("I/O loops did not exit within join timeout")
	}

	s.metrics.RecordSessionEnd()
	s.log.Info("session terminated")
}

// waitExited waits up to d for the child to be reaped.
func (s *Session) waitExited(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-s.exited:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.exited:
		return true
	case <-timer.C:
		return false
	}
}
