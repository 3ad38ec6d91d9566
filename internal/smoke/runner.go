package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/hello/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes a complete smoke run: health check, probe generation,
// concurrent submission and verification.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting hello smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("probes", config.NumProbes),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.String("overflowPolicy", config.OverflowPolicy),
		logger.Any("verbose", config.Verbose))

	if config.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", config.Workers)
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate probes
	probes, err := generateProbes(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("probe generation failed: %w", err)
	}

	// Step 3: Send probes concurrently
	mismatches := sendProbes(ctx, config, probes, stats)

	// Step 4: Save mismatches for inspection
	if len(mismatches) > 0 && config.OutputFile != "" {
		if err := saveMismatchesToFile(ctx, config.OutputFile, mismatches); err != nil {
			logger.Get().Warn(ctx, "failed to save mismatches to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	// Step 5: Verify results
	if err := verifyResults(ctx, probes, mismatches, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMismatchesToFile writes mismatches as an indented JSON array.
func saveMismatchesToFile(ctx context.Context, filename string, mismatches []Mismatch) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(mismatches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mismatches: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "mismatches saved to file", logger.String("filename", filename), logger.Int("count", len(mismatches)))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, probesPerSecond float64

	if stats.ProbesSent > 0 {
		passRate = float64(stats.ProbesPassed) / float64(stats.ProbesSent) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		probesPerSecond = float64(stats.ProbesSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("probesGenerated", stats.ProbesGenerated),
		logger.Int("probesSent", stats.ProbesSent),
		logger.Int("probesPassed", stats.ProbesPassed),
		logger.Int("probesFailed", stats.ProbesFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("passRate", passRate),
		logger.Float64("probesPerSecond", probesPerSecond))
}
