package module

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"timecapsule/internal/platform/httpx"
)

// Reserved holds the registration slot and route prefix of a feature whose
// implementation is not part of this service tree. Every path under the
// prefix answers 501 so clients see a stable, enveloped error.
type Reserved struct {
	name   string
	prefix string
}

func NewReserved(name string, prefix string) Reserved {
	return Reserved{name: name, prefix: prefix}
}

func (r Reserved) Name() string { return r.name }
func (r Reserved) Prefix() string { return r.prefix }
func (r Reserved) Models() []any { return nil }

func (r Reserved) Mount(router chi.Router) {
	router.HandleFunc("/*", r.unavailable)
}

func (r Reserved) unavailable(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteError(w, http.StatusNotImplemented, "module_unavailable", r.name+" module is not served by this deployment")
}
