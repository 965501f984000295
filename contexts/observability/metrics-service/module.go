// Package metricsservice exposes the process Prometheus registry as a feature module.
package metricsservice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	ModuleName  = "metrics"
	RoutePrefix = "/metrics"
)

type Module struct {
	exposition http.Handler
}

// NewModule serves the given exposition handler, usually metrics.Metrics.Handler().
func NewModule(exposition http.Handler) Module {
	return Module{exposition: exposition}
}

func (m Module) Name() string { return ModuleName }

func (m Module) Prefix() string { return RoutePrefix }

func (m Module) Models() []any { return nil }

func (m Module) Mount(r chi.Router) {
	r.Method(http.MethodGet, "/", m.exposition)
}
