package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/hello/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger to stdout and, when logFile is set,
// to that file as well. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Hello Smoke Tool
================

Sends concurrent probes to a running hello service and checks every
response against the locally computed answer.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -probes int
        Number of probes to send (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -overflow-policy string
        Overflow policy the service runs with: reject, wrap, saturate (default "reject")
  -output string
        Write mismatching probes to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Log every mismatch and enable debug logging
  -help
        Show this help message

Examples:
  # Smoke a local service
  go run ./cmd/smoke

  # Heavier run against a service configured to wrap
  go run ./cmd/smoke -probes 50000 -workers 32 -overflow-policy wrap
`)
}
