package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hello/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			// Redirects are part of what we check, never follow them.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return resp, nil
}

// readResponseBody reads at most maxBodyBytes and closes the body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return b, nil
}

// sendProbes runs probes through a worker pool and returns the mismatches.
func sendProbes(ctx context.Context, config *Config, probes []Probe, stats *Stats) []Mismatch {
	log := logger.Get()
	log.Info(ctx, "sending probes", logger.Int("probes", len(probes)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	var (
		sent   int64
		passed int64
		failed int64

		mu         sync.Mutex
		mismatches []Mismatch
		byKind     = make(map[Kind]int)
	)

	probeChan := make(chan Probe, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for probe := range probeChan {
				if ctx.Err() != nil {
					continue
				}
				mismatch, ok := sendProbe(ctx, client, config.BaseURL, probe)
				atomic.AddInt64(&sent, 1)

				mu.Lock()
				byKind[probe.Kind]++
				if !ok {
					mismatches = append(mismatches, mismatch)
				}
				mu.Unlock()

				if ok {
					atomic.AddInt64(&passed, 1)
					continue
				}
				atomic.AddInt64(&failed, 1)
				if config.Verbose {
					log.Warn(ctx, "probe mismatch",
						logger.String("path", probe.Path),
						logger.Int("wantStatus", probe.WantStatus),
						logger.Int("gotStatus", mismatch.GotStatus),
						logger.String("gotBody", mismatch.GotBody),
						logger.String("transportError", mismatch.TransportError))
				}
			}
		}()
	}

	// Feed probes to workers
	go func() {
		defer close(probeChan)
		for _, probe := range probes {
			select {
			case <-ctx.Done():
				return
			case probeChan <- probe:
			}
		}
	}()

	wg.Wait()

	stats.ProbesSent = int(atomic.LoadInt64(&sent))
	stats.ProbesPassed = int(atomic.LoadInt64(&passed))
	stats.ProbesFailed = int(atomic.LoadInt64(&failed))
	stats.ByKind = byKind

	log.Info(ctx, "probe submission completed",
		logger.Int("passed", stats.ProbesPassed),
		logger.Int("failed", stats.ProbesFailed))
	return mismatches
}

// sendProbe issues one probe and reports whether the response matched.
func sendProbe(ctx context.Context, client *HTTPClient, baseURL string, probe Probe) (Mismatch, bool) {
	resp, err := client.Get(ctx, baseURL+probe.Path)
	if err != nil {
		return Mismatch{Probe: probe, TransportError: err.Error()}, false
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Mismatch{Probe: probe, GotStatus: resp.StatusCode, TransportError: err.Error()}, false
	}

	if matches(probe, resp.StatusCode, string(body)) {
		return Mismatch{}, true
	}
	return Mismatch{Probe: probe, GotStatus: resp.StatusCode, GotBody: string(body)}, false
}
