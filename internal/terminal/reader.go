package terminal

import (
	"errors"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// readLoop moves bytes from the master device to the output queue. It polls
// with a short bounded timeout so it stays responsive to the running flag
// without spinning, and it always publishes a final Closed event so a
// consumer can detect "no more output" without consulting IsAlive.
func (s *Session) readLoop() {
	defer s.loops.Done()
	defer s.output.push(OutputEvent{Kind: OutputClosed})

	// Capture the handle once; Cleanup closes it, it is never replaced.
	master := s.dev.master
	pollFds := []unix.PollFd{{Fd: int32(master.Fd()), Events: unix.POLLIN}}
	buf := make([]byte, s.cfg.ReadBufferSize)

	timeoutMs := int(s.cfg.PollInterval / time.Millisecond)
	if timeoutMs <= 0 {
		timeoutMs = 1
	}

	for s.running.Load() && !s.masterClosed.Load() {
		pollFds[0].Revents = 0
		nReady, err := unix.Poll(pollFds, timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if s.running.Load() {
				s.output.push(OutputEvent{Kind: OutputError, Err: err.Error()})
				s.metrics.RecordReadError()
			}
			return
		}
		if nReady == 0 {
			// Timeout with no data; no event emitted.
			continue
		}

		n, err := master.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.output.push(OutputEvent{Kind: OutputData, Data: data})
			s.metrics.RecordRead(n)
		}

		if err != nil {
			switch {
			case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
				continue
			case errors.Is(err, io.EOF):
				s.output.push(OutputEvent{Kind: OutputEOF})
				return
			case errors.Is(err, unix.EIO), errors.Is(err, unix.EBADF), errors.Is(err, os.ErrClosed):
				// Device gone. On Linux the master reads EIO once the last
				// slave side is closed, i.e. the shell exited.
				if s.running.Load() {
					s.output.push(OutputEvent{Kind: OutputError, Err: err.Error()})
					s.metrics.RecordReadError()
				}
				return
			default:
				// Transient failure: report, log, keep the loop alive.
				s.output.push(OutputEvent{Kind: OutputError, Err: err.Error()})
				s.metrics.RecordReadError()
				s.log.Warn("transient read failure", zap.Error(err))
				continue
			}
		}

		if n == 0 {
			// Zero-length read with no error: the far end closed.
			s.output.push(OutputEvent{Kind: OutputEOF})
			return
		}
	}
}
