package smoke

import (
	"context"
	"fmt"

	"github.com/okian/hello/pkg/logger"
)

// matches reports whether a response satisfies the probe.
func matches(probe Probe, status int, body string) bool {
	if status != probe.WantStatus {
		return false
	}
	return probe.WantBody == "" || body == probe.WantBody
}

// verifyResults fails the run when any probe mismatched or was never sent.
func verifyResults(ctx context.Context, probes []Probe, mismatches []Mismatch, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying results")

	if len(probes) == 0 {
		return fmt.Errorf("no probes to verify")
	}
	if stats.ProbesSent != len(probes) {
		return fmt.Errorf("only %d of %d probes were sent", stats.ProbesSent, len(probes))
	}

	for kind, n := range stats.ByKind {
		log.Debug(ctx, "probes by kind", logger.String("kind", string(kind)), logger.Int("count", n))
	}

	if len(mismatches) > 0 {
		first := mismatches[0]
		return fmt.Errorf("%d of %d probes mismatched; first: GET %s want %d got %d",
			len(mismatches), len(probes), first.Probe.Path, first.Probe.WantStatus, first.GotStatus)
	}

	log.Info(ctx, "result verification completed")
	return nil
}
