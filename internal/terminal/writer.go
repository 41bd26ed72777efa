package terminal

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// writeLoop drains the input queue into the master device. It blocks on the
// queue with a bounded timeout rather than busy-polling, so it stays
// responsive to the running flag at near-zero idle cost.
func (s *Session) writeLoop() {
	defer s.loops.Done()

	master := s.dev.master
	pollFds := []unix.PollFd{{Fd: int32(master.Fd()), Events: unix.POLLOUT}}
	timeoutMs := int(s.cfg.WriteWait.Milliseconds())
	if timeoutMs <= 0 {
		timeoutMs = 1
	}

	for s.running.Load() {
		ev, ok := s.input.popWait(s.cfg.WriteWait)
		if !ok {
			continue
		}
		if ev.shutdown {
			return
		}

		// Write failures are expected once the device or process has died;
		// the caller observes that through IsAlive, not through an error
		// here. No retry, no backoff.
		offset := 0
		for offset < len(ev.data) {
			n, err := master.Write(ev.data[offset:])
			if n > 0 {
				offset += n
				s.metrics.RecordWrite(n)
			}
			if err == nil {
				continue
			}
			switch {
			case errors.Is(err, unix.EINTR):
				continue
			case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
				// Device backpressure: wait until writable, bounded so the
				// running flag stays observable.
				pollFds[0].Revents = 0
				if _, pollErr := unix.Poll(pollFds, timeoutMs); pollErr != nil && pollErr != unix.EINTR {
					s.log.Warn("write readiness poll failed", zap.Error(pollErr))
				}
				if !s.running.Load() {
					return
				}
			default:
				s.log.Warn("write failed, dropping input",
					zap.Int("dropped", len(ev.data)-offset), zap.Error(err))
				s.metrics.RecordWriteError()
				offset = len(ev.data)
			}
		}
	}
}
