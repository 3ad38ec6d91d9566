// Package smoke drives concurrent probe traffic against a running hello
// service and checks every response against the locally computed answer.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumProbes      int           // Number of probes to generate
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	OverflowPolicy string        // Policy the service was started with
	OutputFile     string        // Where mismatches are written as JSON
	Verbose        bool          // Log every mismatch as it happens
}

// Kind names the route a probe targets.
type Kind string

// Probe kinds.
const (
	KindRoot     Kind = "root"
	KindHello    Kind = "hello"
	KindAdd      Kind = "add"
	KindBadInput Kind = "bad_input"
)

// Probe is one request together with the response it must produce.
type Probe struct {
	Kind       Kind   `json:"kind"`
	Path       string `json:"path"`
	WantStatus int    `json:"want_status"`
	// WantBody is compared verbatim; empty means only the status is checked.
	WantBody string `json:"want_body,omitempty"`
}

// Mismatch records a probe whose response differed from the expectation.
type Mismatch struct {
	Probe          Probe  `json:"probe"`
	GotStatus      int    `json:"got_status"`
	GotBody        string `json:"got_body,omitempty"`
	TransportError string `json:"transport_error,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	ProbesGenerated int
	ProbesSent      int
	ProbesPassed    int
	ProbesFailed    int
	ByKind          map[Kind]int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
