package smoke

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/hello/internal/domain/arith"
	"github.com/okian/hello/internal/domain/greeting"
	"github.com/okian/hello/pkg/logger"
)

// Generation constants.
const (
	kindCount       = 4
	operandBound    = 1_000_000_000
	overflowEvery   = 10
	specialNameOdds = 4
)

// Names that exercise percent-encoding on the hello route.
var specialNames = []string{"", "José", "世界", "a b", "O'Brien", "<b>", "100%", "a/b", "/"} //nolint:gochecknoglobals // fixture table

// Tokens that must fail integer binding on the add route.
var badOperands = []string{"abc", "1.5", "0x10", "1e3", "--1", "9223372036854775808", "٣"} //nolint:gochecknoglobals // fixture table

// randInt returns a uniform integer in [0, n) using crypto/rand.
func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// generateProbes builds config.NumProbes probes spread over every route.
// Expectations come from the domain packages, so a passing run means the
// service and the local computation agree.
func generateProbes(ctx context.Context, config *Config, stats *Stats) ([]Probe, error) {
	policy, err := arith.ParsePolicy(config.OverflowPolicy)
	if err != nil {
		return nil, fmt.Errorf("overflow policy: %w", err)
	}

	logger.Get().Info(ctx, "generating probes", logger.Int("numProbes", config.NumProbes), logger.String("policy", string(policy)))

	probes := make([]Probe, 0, config.NumProbes)
	for i := 0; i < config.NumProbes; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}

		var p Probe
		switch i % kindCount {
		case 0:
			p = rootProbe()
		case 1:
			p = helloProbe()
		case 2: //nolint:mnd // kind slot
			p = addProbe(i, policy)
		default:
			p = badInputProbe()
		}
		probes = append(probes, p)
	}

	stats.ProbesGenerated = len(probes)
	return probes, nil
}

func rootProbe() Probe {
	return Probe{Kind: KindRoot, Path: "/", WantStatus: http.StatusOK, WantBody: greeting.Root()}
}

func helloProbe() Probe {
	name := uuid.NewString()
	if randInt(specialNameOdds) == 0 {
		name = specialNames[randInt(int64(len(specialNames)))]
	}
	return Probe{
		Kind:       KindHello,
		Path:       "/api/helloworld/" + url.PathEscape(name),
		WantStatus: http.StatusOK,
		WantBody:   greeting.Greet(name),
	}
}

func addProbe(i int, policy arith.Policy) Probe {
	a := randInt(2*operandBound+1) - operandBound
	b := randInt(2*operandBound+1) - operandBound
	if i%overflowEvery == 2 { //nolint:mnd // first add slot of each block
		a, b = math.MaxInt64, randInt(operandBound)+1
	}

	p := Probe{Kind: KindAdd, Path: "/add/" + strconv.FormatInt(a, 10) + "/" + strconv.FormatInt(b, 10)}
	sum, err := arith.Add(a, b, policy)
	switch {
	case errors.Is(err, arith.ErrOverflow):
		p.WantStatus = http.StatusBadRequest
	default:
		p.WantStatus = http.StatusOK
		p.WantBody = arith.FormatResult(sum)
	}
	return p
}

func badInputProbe() Probe {
	bad := url.PathEscape(badOperands[randInt(int64(len(badOperands)))])
	good := strconv.FormatInt(randInt(operandBound), 10)
	path := "/add/" + bad + "/" + good
	if randInt(2) == 0 { //nolint:mnd // coin flip
		path = "/add/" + good + "/" + bad
	}
	return Probe{Kind: KindBadInput, Path: path, WantStatus: http.StatusBadRequest}
}
