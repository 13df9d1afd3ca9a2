// Package logs provides the logging facility shared by userd and userctl.
// Output goes to stdout, to systemd journald, or to a caller-supplied writer.
package logs

import (
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// LogOutput defines the output destination for logs
type LogOutput string

const (
	// OutputStdout sends logs to standard output
	OutputStdout LogOutput = "stdout"
	// OutputJournald sends logs to systemd journald
	OutputJournald LogOutput = "journald"
	// OutputAuto selects journald if available, otherwise stdout
	OutputAuto LogOutput = "auto"
	// OutputWriter sends logs to Config.Writer
	OutputWriter LogOutput = "writer"
)

// Logger wraps the charm log.Logger with the resolved output
type Logger struct {
	*log.Logger
	output LogOutput
}

// Config holds the configuration for the logger
type Config struct {
	// Output specifies where logs should be sent (stdout, journald, auto, writer)
	Output LogOutput
	// Level sets the minimum log level (debug, info, warn, error)
	Level string
	// Prefix is printed before every message and used as the journald identifier
	Prefix string
	// Writer receives log lines when Output is OutputWriter
	Writer io.Writer
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		Output: OutputAuto,
		Level:  "info",
	}
}

// journaldAvailable checks if systemd-journald is reachable on this host
func journaldAvailable() bool {
	if _, err := exec.LookPath("systemd-cat"); err != nil {
		return false
	}
	if _, err := os.Stat("/run/systemd/journal/socket"); err != nil {
		return false
	}
	return true
}

// ParseLevel converts a string level to log.Level, defaulting to info
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a new Logger with the given configuration
func New(cfg Config) *Logger {
	writer, output := resolveOutput(cfg)

	logger := log.NewWithOptions(writer, log.Options{
		Level:           ParseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
		ReportTimestamp: true,
	})

	return &Logger{
		Logger: logger,
		output: output,
	}
}

func resolveOutput(cfg Config) (io.Writer, LogOutput) {
	switch cfg.Output {
	case OutputWriter:
		if cfg.Writer != nil {
			return cfg.Writer, OutputWriter
		}
	case OutputJournald, OutputAuto:
		if journaldAvailable() {
			identifier := cfg.Prefix
			if identifier == "" {
				identifier = "userd"
			}
			return &journaldWriter{identifier: identifier}, OutputJournald
		}
	}
	return os.Stdout, OutputStdout
}

// NewDefault creates a new Logger with default configuration
func NewDefault() *Logger {
	return New(DefaultConfig())
}

// NewDiscard returns a logger that drops everything, used by tests and by
// packages whose logger has not been set
func NewDiscard() *Logger {
	return New(Config{Output: OutputWriter, Writer: io.Discard, Level: "error"})
}

// Output returns the current output destination
func (l *Logger) Output() LogOutput {
	return l.output
}

// journaldWriter pipes each write through systemd-cat
type journaldWriter struct {
	identifier string
}

// Write implements io.Writer, falling back to stdout when systemd-cat fails
func (w *journaldWriter) Write(p []byte) (int, error) {
	cmd := exec.Command("systemd-cat", "-t", w.identifier)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return os.Stdout.Write(p)
	}
	if err := cmd.Start(); err != nil {
		return os.Stdout.Write(p)
	}

	n, _ := stdin.Write(p)
	stdin.Close()

	// journald errors after the write are not reported to the caller
	_ = cmd.Wait()

	return n, nil
}
