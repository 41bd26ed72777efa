package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/GriffinCanCode/TermHub/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermHub/internal/logging"
	"github.com/creack/pty"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// launcher produces a live PTY-backed shell and a non-blocking master handle.
type launcher struct {
	cfg  config.TerminalConfig
	echo *EchoController
	log  *logging.Logger
}

func newLauncher(cfg config.TerminalConfig, log *logging.Logger) *launcher {
	return &launcher{
		cfg:  cfg,
		echo: NewEchoController(log),
		log:  log,
	}
}

// device is everything launch produces: the master handle, the child
// process, and its process group id captured once at spawn time.
type device struct {
	master     *os.File
	cmd        *exec.Cmd
	pgid       int
	shell      string
	workingDir string

	geoMu sync.Mutex // guards cols and rows; Resize and Info race otherwise
	cols  int
	rows  int
}

// size returns the current window geometry.
func (d *device) size() (cols, rows int) {
	d.geoMu.Lock()
	defer d.geoMu.Unlock()
	return d.cols, d.rows
}

// setSize records new window geometry.
func (d *device) setSize(cols, rows int) {
	d.geoMu.Lock()
	d.cols = cols
	d.rows = rows
	d.geoMu.Unlock()
}

// launch allocates the PTY pair, spawns the shell attached to the slave side
// in a new session (hence a new process group, with the PTY as controlling
// terminal), closes the slave in the parent, and puts the master into
// non-blocking mode. Any failure tears down whatever was created and the
// caller receives no device.
func (l *launcher) launch(opts Options) (*device, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate PTY: %w", err)
	}

	// Interactive sessions echo by default. A termios failure degrades the
	// session rather than aborting the launch.
	if !l.echo.SetEcho(slave, true) {
		l.log.Warn("echo configuration failed, continuing without it")
	}

	shell := opts.Shell
	if shell == "" {
		shell = l.cfg.Shell
	}
	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = "/"
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	env := append(os.Environ(), "TERM="+l.cfg.Term)
	if opts.Prompt != "" {
		env = append(env, "PS1="+opts.Prompt)
	}

	var args []string
	if opts.LoginShell {
		args = append(args, "-l")
	}

	cmd := exec.Command(shell, args...)
	cmd.Dir = workingDir
	cmd.Env = env
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("failed to spawn %s: %w", shell, err)
	}

	// Only the child needs the slave side.
	slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		l.log.Warn("failed to set initial window size", zap.Error(err))
	}

	if err := unix.SetNonblock(int(master.Fd()), true); err != nil {
		// The read loop depends on a non-blocking master; without it the
		// session cannot work, so undo the spawn.
		master.Close()
		cmd.Process.Kill()
		cmd.Wait()
		return nil, fmt.Errorf("failed to set master non-blocking: %w", err)
	}

	// Setsid placed the child in a new session, so its pgid equals its pid.
	// Captured here once; resize and signal delivery reuse it.
	return &device{
		master:     master,
		cmd:        cmd,
		pgid:       cmd.Process.Pid,
		shell:      shell,
		workingDir: workingDir,
		cols:       cols,
		rows:       rows,
	}, nil
}
