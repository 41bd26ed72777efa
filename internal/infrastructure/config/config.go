package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Terminal TerminalConfig
	Logging  LogConfig
}

// TerminalConfig holds PTY session configuration.
type TerminalConfig struct {
	// Shell is the default shell binary. Empty means $SHELL, then /bin/bash.
	Shell string `envconfig:"TERMINAL_SHELL" default:""`
	// Term is the TERM value exported to sessions.
	Term string `envconfig:"TERMINAL_TERM" default:"xterm-256color"`
	// PollInterval bounds the reader's wait for device readability.
	PollInterval time.Duration `envconfig:"TERMINAL_POLL_INTERVAL" default:"20ms"`
	// WriteWait bounds the writer's wait on the input queue.
	WriteWait time.Duration `envconfig:"TERMINAL_WRITE_WAIT" default:"50ms"`
	// ReadBufferSize is the maximum bytes pulled per read.
	ReadBufferSize int `envconfig:"TERMINAL_READ_BUFFER" default:"4096"`
	// StopGrace is how long cleanup waits after SIGTERM before SIGKILL.
	StopGrace time.Duration `envconfig:"TERMINAL_STOP_GRACE" default:"2s"`
	// JoinTimeout bounds the wait for the reader/writer loops to exit.
	JoinTimeout time.Duration `envconfig:"TERMINAL_JOIN_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Terminal.Shell = resolveShell(cfg.Terminal.Shell)
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Terminal: TerminalConfig{
			Shell:          resolveShell(""),
			Term:           "xterm-256color",
			PollInterval:   20 * time.Millisecond,
			WriteWait:      50 * time.Millisecond,
			ReadBufferSize: 4096,
			StopGrace:      2 * time.Second,
			JoinTimeout:    5 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// resolveShell picks the user's shell when none is configured. The terminal
// subsystem itself never consults the environment; that happens only here.
func resolveShell(configured string) string {
	if configured != "" {
		return configured
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}
