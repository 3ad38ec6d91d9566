package api

import (
	"errors"
	"net/http"

	"github.com/okian/hello/internal/domain/arith"
	"github.com/okian/hello/pkg/metrics"
)

// Path parameters of the add route.
const (
	ParamArg1 = "arg1"
	ParamArg2 = "arg2"
)

// AddHandler serves GET /add/{arg1}/{arg2}.
type AddHandler struct {
	policy  arith.Policy
	metrics *metrics.Manager
}

// NewAddHandler creates an add handler applying policy to overflowing sums.
func NewAddHandler(policy arith.Policy, m *metrics.Manager) *AddHandler {
	return &AddHandler{policy: policy, metrics: m}
}

// HandleAdd sums the two bound operands. It expects exactly two args, as
// bound by IntParams(h.HandleAdd, ..., ParamArg1, ParamArg2).
func (h *AddHandler) HandleAdd(w http.ResponseWriter, _ *http.Request, args []int64) {
	a, b := args[0], args[1]
	if arith.Overflows(a, b) && h.metrics != nil {
		h.metrics.RecordArithmeticOverflow(string(h.policy))
	}

	sum, err := arith.Add(a, b, h.policy)
	switch {
	case errors.Is(err, arith.ErrOverflow):
		writeError(w, http.StatusBadRequest, "overflow", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeText(w, http.StatusOK, arith.FormatResult(sum))
}
