package terminal

import (
	"os"

	"github.com/GriffinCanCode/TermHub/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// echoBits are the four mode bits that make up interactive echo behavior:
// input echo, visual erase on backspace, visual erase on kill-line, and
// visual echo of control characters (^C).
const echoBits = unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHOCTL

// EchoController toggles the terminal echo mode bits on a PTY handle.
// Keeping the bit arithmetic here isolates the termios layout from the
// rest of the session logic.
type EchoController struct {
	log *logging.Logger
}

// NewEchoController creates an echo controller.
func NewEchoController(log *logging.Logger) *EchoController {
	return &EchoController{log: log}
}

// SetEcho enables or disables the echo bits on f, leaving every other mode
// bit untouched. The change applies immediately rather than after pending
// I/O drains. Failure is non-fatal: it is logged and reported as false.
func (e *EchoController) SetEcho(f *os.File, enabled bool) bool {
	fd := int(f.Fd())

	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		e.log.Warn("failed to read termios", zap.Error(err))
		return false
	}

	if enabled {
		tio.Lflag |= echoBits
	} else {
		tio.Lflag &^= echoBits
	}

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, tio); err != nil {
		e.log.Warn("failed to write termios", zap.Bool("enabled", enabled), zap.Error(err))
		return false
	}
	return true
}
