package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/hello/internal/smoke"
)

// Default configuration constants.
const (
	defaultNumProbes   = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numProbes      = flag.Int("probes", defaultNumProbes, "Number of probes to send")
		workers        = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		overflowPolicy = flag.String("overflow-policy", "reject", "Overflow policy the service runs with")
		outputFile     = flag.String("output", "", "Write mismatching probes to this JSON file")
		logFile        = flag.String("log", "", "Also write logs to this file")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
		help           = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	closer, err := smoke.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL:        *baseURL,
		NumProbes:      *numProbes,
		Workers:        *workers,
		Timeout:        *timeout,
		OverflowPolicy: *overflowPolicy,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	}

	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // deferred cleanup done above
	}
}
