package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/TermHub/internal/infrastructure/config"
	"github.com/GriffinCanCode/TermHub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TermHub/internal/logging"
	"github.com/GriffinCanCode/TermHub/internal/terminal"
	"golang.org/x/term"
)

// detachKey ends the attachment (Ctrl-Q).
const detachKey = 0x11

func main() {
	sessionID := flag.String("id", "", "Session id (generated when empty)")
	cwd := flag.String("cwd", "", "Initial working directory")
	shell := flag.String("shell", "", "Shell binary (default from config)")
	prompt := flag.String("prompt", "", "Custom PS1 prompt")
	login := flag.Bool("login", false, "Start a login shell")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || *dev,
		// stdout belongs to the attached session while raw mode is active
		OutputPaths: []string{"stderr"},
	}
	if *dev {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics(nil)
	registry := terminal.NewRegistry(cfg.Terminal, logger, metrics)
	defer registry.CloseAll()

	stdinFd := int(os.Stdin.Fd())

	opts := terminal.Options{
		Shell:      *shell,
		WorkingDir: *cwd,
		Prompt:     *prompt,
		LoginShell: *login,
	}
	if cols, rows, err := term.GetSize(stdinFd); err == nil {
		opts.Cols = cols
		opts.Rows = rows
	}

	sess, err := registry.Create(*sessionID, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create session: %v\n", err)
		os.Exit(1)
	}

	oldState, err := term.MakeRaw(stdinFd)
	if err == nil {
		defer term.Restore(stdinFd, oldState)
	}

	// Propagate window changes to the session's process group.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if cols, rows, err := term.GetSize(stdinFd); err == nil {
				sess.Resize(rows, cols)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Forward keystrokes; Ctrl-Q detaches.
	detach := make(chan struct{})
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(detach)
				return
			}
			for i := 0; i < n; i++ {
				if buf[i] == detachKey {
					close(detach)
					return
				}
			}
			if !sess.WriteInput(buf[:n]) {
				close(detach)
				return
			}
		}
	}()

	for {
		select {
		case <-stop:
			return
		case <-detach:
			return
		default:
		}

		ev, ok := sess.WaitOutput(50 * time.Millisecond)
		if !ok {
			continue
		}
		switch ev.Kind {
		case terminal.OutputData:
			os.Stdout.Write(ev.Data)
		case terminal.OutputError:
			logger.Sugar().Debugw("session read error", "error", ev.Err)
		case terminal.OutputEOF, terminal.OutputClosed:
			return
		}
	}
}
