package api

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/okian/hello/internal/domain/arith"
)

// IntHandler receives path parameters already parsed as int64, in the order
// they were named to IntParams.
type IntHandler func(w http.ResponseWriter, r *http.Request, args []int64)

// IntParams binds the named path parameters as base-10 integers. The first
// parameter that fails to parse is reported to onReject (may be nil) and
// answered with 400; next is never called in that case.
func IntParams(next IntHandler, onReject func(param string), names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		args := make([]int64, len(names))
		for i, name := range names {
			v, err := arith.ParseOperand(params.ByName(name))
			if err != nil {
				if onReject != nil {
					onReject(name)
				}
				writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s: %w", ErrBadRequest, name, err))
				return
			}
			args[i] = v
		}
		next(w, r, args)
	}
}
