package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/hello/internal/domain/greeting"
)

// Hello route registration. The name is a catch-all so that an encoded
// slash (%2F) stays inside it; the handler re-reads the escaped path.
const (
	ParamName   = "name"
	helloPrefix = "/api/helloworld/"
	helloRoute  = helloPrefix + "*" + ParamName
)

// GreetingHandler serves the two greeting routes.
type GreetingHandler struct{}

// NewGreetingHandler creates a new greeting handler.
func NewGreetingHandler() *GreetingHandler {
	return &GreetingHandler{}
}

// HandleRoot handles GET / requests.
func (h *GreetingHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, greeting.Root())
}

// HandleHello handles GET /api/helloworld/{name}. The name is one escaped
// path segment, percent-decoded and echoed as is; an empty segment greets "".
// An unencoded "/" inside the name is not a single segment and gets 404,
// except for one trailing slash, which redirects like every other route.
func (h *GreetingHandler) HandleHello(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.URL.EscapedPath(), helloPrefix)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}

	if strings.Contains(raw, "/") {
		trimmed := strings.TrimSuffix(raw, "/")
		if trimmed != "" && !strings.Contains(trimmed, "/") {
			http.Redirect(w, r, helloPrefix+trimmed, http.StatusMovedPermanently)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}

	name, err := url.PathUnescape(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeText(w, http.StatusOK, greeting.Greet(name))
}
